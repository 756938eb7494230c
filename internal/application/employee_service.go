package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/example/empmanager/internal/access"
	"github.com/example/empmanager/internal/persistence"
	"github.com/example/empmanager/internal/query"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
)

// EmployeeRepository captures the persistence operations needed by the employee service.
type EmployeeRepository interface {
	ListEmployees(ctx context.Context) ([]Employee, error)
	GetEmployee(ctx context.Context, id string) (Employee, error)
	AddEmployee(ctx context.Context, employee Employee) error
	UpdateEmployee(ctx context.Context, employee Employee) error
	DeleteEmployee(ctx context.Context, id string) error
}

// EmployeeService orchestrates validation, authorization, and persistence for employees.
type EmployeeService struct {
	employees   EmployeeRepository
	idGenerator func() string
	guard       guard
	metrics     MetricsRecorder
	logger      *slog.Logger
}

// NewEmployeeService constructs an employee service with the provided dependencies.
func NewEmployeeService(employees EmployeeRepository, idGenerator func() string) *EmployeeService {
	return NewEmployeeServiceWithLogger(employees, idGenerator, nil)
}

// NewEmployeeServiceWithLogger constructs an employee service with a specified logger.
func NewEmployeeServiceWithLogger(employees EmployeeRepository, idGenerator func() string, logger *slog.Logger) *EmployeeService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	return &EmployeeService{
		employees:   employees,
		idGenerator: idGenerator,
		guard:       newGuard(nil, nil),
		metrics:     noopRecorder{},
		logger:      defaultLogger(logger),
	}
}

// UseMetrics attaches a metrics recorder and returns the service.
func (s *EmployeeService) UseMetrics(recorder MetricsRecorder) *EmployeeService {
	s.metrics = defaultRecorder(recorder)
	s.guard = newGuard(s.guard.policy, s.metrics)
	return s
}

func (s *EmployeeService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EmployeeService", operation, attrs...)
}

// AddEmployee validates input and appends a new employee with a fresh ID.
func (s *EmployeeService) AddEmployee(ctx context.Context, principal Principal, input EmployeeInput) (employee Employee, err error) {
	if s == nil {
		err = fmt.Errorf("EmployeeService is nil")
		return
	}
	if s.employees == nil {
		err = fmt.Errorf("employee repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "AddEmployee",
		"principal_id", principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add employee", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("employee_id", employee.ID).InfoContext(ctx, "employee added")
	}()

	if err = s.guard.check(principal, access.EntityEmployee, access.ActionCreate); err != nil {
		return
	}

	candidate := normalizeEmployee(withEmployeeDefaults(Employee{
		Name:       input.Name,
		Email:      input.Email,
		Role:       input.Role,
		Department: input.Department,
		Salary:     input.Salary,
		Status:     input.Status,
		JoinDate:   input.JoinDate,
		Phone:      input.Phone,
	}))
	if vErr := validateEmployee(candidate); vErr.HasErrors() {
		err = vErr
		return
	}

	candidate.ID = s.idGenerator()
	if err = s.employees.AddEmployee(ctx, candidate); err != nil {
		err = mapRepoError(err)
		return
	}

	s.metrics.RecordMutation(access.EntityEmployee, access.ActionCreate)
	employee = candidate
	return
}

// UpdateEmployee merges the populated fields of patch into the stored
// employee. An unknown id is a silent no-op returning the zero Employee.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, principal Principal, id string, patch EmployeePatch) (employee Employee, err error) {
	if s == nil {
		err = fmt.Errorf("EmployeeService is nil")
		return
	}
	if s.employees == nil {
		err = fmt.Errorf("employee repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateEmployee",
		"principal_id", principal.UserID,
		"employee_id", id,
	)
	noop := false
	defer func() {
		switch {
		case err != nil:
			logger.ErrorContext(ctx, "failed to update employee", "error", err, "error_kind", ErrorKind(err))
		case noop:
			logger.DebugContext(ctx, "employee not found; update skipped")
		default:
			logger.InfoContext(ctx, "employee updated")
		}
	}()

	if err = s.guard.check(principal, access.EntityEmployee, access.ActionUpdate); err != nil {
		return
	}

	var existing Employee
	existing, err = s.employees.GetEmployee(ctx, id)
	if errors.Is(err, persistence.ErrNotFound) {
		err, noop = nil, true
		return
	}
	if err != nil {
		err = mapRepoError(err)
		return
	}

	merged := normalizeEmployee(applyEmployeePatch(existing, patch))
	if vErr := validateEmployee(merged); vErr.HasErrors() {
		err = vErr
		return
	}

	if err = s.employees.UpdateEmployee(ctx, merged); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err, noop = nil, true
			return
		}
		err = mapRepoError(err)
		return
	}

	s.metrics.RecordMutation(access.EntityEmployee, access.ActionUpdate)
	employee = merged
	return
}

// DeleteEmployee removes an employee. An unknown id is a silent no-op.
// Attendance records of the employee are kept.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, principal Principal, id string) error {
	if s == nil {
		return fmt.Errorf("EmployeeService is nil")
	}
	if s.employees == nil {
		return fmt.Errorf("employee repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteEmployee",
		"principal_id", principal.UserID,
		"employee_id", id,
	)

	if err := s.guard.check(principal, access.EntityEmployee, access.ActionDelete); err != nil {
		logger.ErrorContext(ctx, "failed to delete employee", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if err := s.employees.DeleteEmployee(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			logger.DebugContext(ctx, "employee not found; delete skipped")
			return nil
		}
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete employee", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	s.metrics.RecordMutation(access.EntityEmployee, access.ActionDelete)
	logger.InfoContext(ctx, "employee deleted")
	return nil
}

// GetEmployee returns one employee or ErrNotFound.
func (s *EmployeeService) GetEmployee(ctx context.Context, principal Principal, id string) (Employee, error) {
	if s == nil {
		return Employee{}, fmt.Errorf("EmployeeService is nil")
	}
	if s.employees == nil {
		return Employee{}, fmt.Errorf("employee repository not configured")
	}
	if err := s.guard.check(principal, access.EntityEmployee, access.ActionView); err != nil {
		return Employee{}, err
	}

	employee, err := s.employees.GetEmployee(ctx, id)
	if err != nil {
		return Employee{}, mapRepoError(err)
	}
	return employee, nil
}

// ListEmployees returns the employees matching filter in insertion order.
func (s *EmployeeService) ListEmployees(ctx context.Context, principal Principal, filter query.EmployeeFilter) (employees []Employee, err error) {
	if s == nil {
		err = fmt.Errorf("EmployeeService is nil")
		return
	}
	if s.employees == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListEmployees",
		"principal_id", principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list employees", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(employees)).DebugContext(ctx, "employees listed")
	}()

	if err = s.guard.check(principal, access.EntityEmployee, access.ActionView); err != nil {
		return
	}

	var all []Employee
	all, err = s.employees.ListEmployees(ctx)
	if err != nil {
		return
	}
	employees = query.FilterEmployees(all, filter)
	return
}

func applyEmployeePatch(e Employee, patch EmployeePatch) Employee {
	if patch.Name != nil {
		e.Name = *patch.Name
	}
	if patch.Email != nil {
		e.Email = *patch.Email
	}
	if patch.Role != nil {
		e.Role = *patch.Role
	}
	if patch.Department != nil {
		e.Department = *patch.Department
	}
	if patch.Salary != nil {
		e.Salary = *patch.Salary
	}
	if patch.Status != nil {
		e.Status = *patch.Status
	}
	if patch.JoinDate != nil {
		e.JoinDate = *patch.JoinDate
	}
	if patch.Phone != nil {
		e.Phone = *patch.Phone
	}
	return e
}

// withEmployeeDefaults fills the role and status a new employee omits.
// Patches never pass through it, so an explicit empty value fails validation.
func withEmployeeDefaults(e Employee) Employee {
	if e.Role == "" {
		e.Role = access.RoleEmployee
	}
	if e.Status == "" {
		e.Status = persistence.StatusActive
	}
	return e
}

func normalizeEmployee(e Employee) Employee {
	e.Name = strings.TrimSpace(e.Name)
	e.Email = strings.TrimSpace(e.Email)
	e.Department = strings.TrimSpace(e.Department)
	e.Phone = strings.TrimSpace(e.Phone)
	if !e.JoinDate.IsZero() {
		e.JoinDate = persistence.CalendarDate(e.JoinDate)
	}
	return e
}

func validateEmployee(e Employee) *ValidationError {
	vErr := &ValidationError{}

	if e.Name == "" {
		vErr.add("name", "name is required")
	}
	if e.Email == "" {
		vErr.add("email", "email is required")
	} else if !emailPattern.MatchString(e.Email) {
		vErr.add("email", "invalid email format")
	}
	if e.Department == "" {
		vErr.add("department", "department is required")
	}
	if !nonNegative(e.Salary) {
		vErr.add("salary", "salary must be a valid positive number")
	}
	if !e.Role.Valid() {
		vErr.add("role", "unknown role")
	}
	if !e.Status.Valid() {
		vErr.add("status", "unknown status")
	}
	if e.JoinDate.IsZero() {
		vErr.add("join_date", "join date is required")
	}
	if e.Phone != "" && !phonePattern.MatchString(e.Phone) {
		vErr.add("phone", "invalid phone number format")
	}

	return vErr
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("record", "record violates a store constraint")
		return vErr
	}
	return err
}
