package application

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/example/empmanager/internal/access"
)

var (
	// ErrAccessDenied is returned when the principal's role does not permit the operation.
	// Errors carrying it also match access.ErrAccessDenied and unwrap to *access.DeniedError.
	ErrAccessDenied = fmt.Errorf("application: %w", access.ErrAccessDenied)
	// ErrNotFound is returned by lookups of a record that does not exist.
	// Updates and deletes of an absent record are silent no-ops instead.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when an identifier or account is already taken.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrDuplicateCheckIn rejects a second check-in for the same employee and day.
	ErrDuplicateCheckIn = errors.New("application: employee has already checked in today")
	// ErrNotCheckedIn rejects a check-out without a check-in on the same day.
	ErrNotCheckedIn = errors.New("application: employee has not checked in today")
	// ErrAlreadyCheckedOut rejects a second check-out on the same day.
	ErrAlreadyCheckedOut = errors.New("application: employee has already checked out today")
	// ErrInvalidCredentials is returned when a login does not match an account.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrNotAuthenticated is returned when an operation needs a logged-in user.
	ErrNotAuthenticated = errors.New("application: not authenticated")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	if len(v.FieldErrors) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(v.Fields(), ", ")
}

// Fields returns the names of the invalid fields in sorted order.
func (v *ValidationError) Fields() []string {
	if v == nil {
		return nil
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	slices.Sort(fields)
	return fields
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// merge copies entries from another validation error into the receiver.
func (v *ValidationError) merge(other *ValidationError) {
	if other == nil || len(other.FieldErrors) == 0 {
		return
	}
	for field, msg := range other.FieldErrors {
		v.add(field, msg)
	}
}

// denied wraps a policy refusal so it matches ErrAccessDenied.
func denied(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrAccessDenied, err)
}
