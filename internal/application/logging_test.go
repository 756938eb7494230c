package application

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
)

func TestDefaultLogger(t *testing.T) {
	t.Parallel()

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	if got := defaultLogger(custom); got != custom {
		t.Fatalf("expected custom logger to be returned")
	}

	if got := defaultLogger(nil); got != slog.Default() {
		t.Fatalf("expected default logger when none provided")
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{err: nil, want: ""},
		{err: fmt.Errorf("wrapped: %w", ErrDuplicateCheckIn), want: "duplicate_check_in"},
		{err: ErrAccessDenied, want: "access_denied"},
		{err: ErrNotFound, want: "not_found"},
		{err: ErrAlreadyCheckedOut, want: "already_checked_out"},
		{err: ErrInvalidCredentials, want: "invalid_credentials"},
		{err: &ValidationError{FieldErrors: map[string]string{"name": "required"}}, want: "validation"},
		{err: io.EOF, want: "unexpected"},
	}

	for _, tt := range tests {
		if got := ErrorKind(tt.err); got != tt.want {
			t.Errorf("ErrorKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
