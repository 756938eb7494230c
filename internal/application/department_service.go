package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/example/empmanager/internal/access"
	"github.com/example/empmanager/internal/persistence"
	"github.com/example/empmanager/internal/query"
)

// DepartmentRepository captures the persistence operations needed by the department service.
type DepartmentRepository interface {
	ListDepartments(ctx context.Context) ([]Department, error)
	GetDepartment(ctx context.Context, id string) (Department, error)
	AddDepartment(ctx context.Context, department Department) error
	UpdateDepartment(ctx context.Context, department Department) error
	DeleteDepartment(ctx context.Context, id string) error
}

// EmployeeLister reads the employee collection for derived figures.
type EmployeeLister interface {
	ListEmployees(ctx context.Context) ([]Employee, error)
}

// DepartmentService orchestrates validation, authorization, and persistence for departments.
type DepartmentService struct {
	departments DepartmentRepository
	employees   EmployeeLister
	idGenerator func() string
	guard       guard
	metrics     MetricsRecorder
	logger      *slog.Logger
}

// NewDepartmentService constructs a department service with the provided dependencies.
// employees may be nil, in which case views carry an empty headcount.
func NewDepartmentService(departments DepartmentRepository, employees EmployeeLister, idGenerator func() string) *DepartmentService {
	return NewDepartmentServiceWithLogger(departments, employees, idGenerator, nil)
}

// NewDepartmentServiceWithLogger constructs a department service with a specified logger.
func NewDepartmentServiceWithLogger(departments DepartmentRepository, employees EmployeeLister, idGenerator func() string, logger *slog.Logger) *DepartmentService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	return &DepartmentService{
		departments: departments,
		employees:   employees,
		idGenerator: idGenerator,
		guard:       newGuard(nil, nil),
		metrics:     noopRecorder{},
		logger:      defaultLogger(logger),
	}
}

// UseMetrics attaches a metrics recorder and returns the service.
func (s *DepartmentService) UseMetrics(recorder MetricsRecorder) *DepartmentService {
	s.metrics = defaultRecorder(recorder)
	s.guard = newGuard(s.guard.policy, s.metrics)
	return s
}

func (s *DepartmentService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "DepartmentService", operation, attrs...)
}

// AddDepartment validates input and appends a new department. Admin only.
func (s *DepartmentService) AddDepartment(ctx context.Context, principal Principal, input DepartmentInput) (department Department, err error) {
	if s == nil {
		err = fmt.Errorf("DepartmentService is nil")
		return
	}
	if s.departments == nil {
		err = fmt.Errorf("department repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "AddDepartment",
		"principal_id", principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add department", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("department_id", department.ID).InfoContext(ctx, "department added")
	}()

	if err = s.guard.check(principal, access.EntityDepartment, access.ActionCreate); err != nil {
		return
	}

	candidate := Department{
		Name:          strings.TrimSpace(input.Name),
		Budget:        input.Budget,
		EmployeeCount: input.EmployeeCount,
		AverageSalary: input.AverageSalary,
	}
	if vErr := validateDepartment(candidate); vErr.HasErrors() {
		err = vErr
		return
	}

	candidate.ID = s.idGenerator()
	if err = s.departments.AddDepartment(ctx, candidate); err != nil {
		err = mapRepoError(err)
		return
	}

	s.metrics.RecordMutation(access.EntityDepartment, access.ActionCreate)
	department = candidate
	return
}

// UpdateDepartment merges the populated fields of patch into the stored
// department. An unknown id is a silent no-op.
func (s *DepartmentService) UpdateDepartment(ctx context.Context, principal Principal, id string, patch DepartmentPatch) (department Department, err error) {
	if s == nil {
		err = fmt.Errorf("DepartmentService is nil")
		return
	}
	if s.departments == nil {
		err = fmt.Errorf("department repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateDepartment",
		"principal_id", principal.UserID,
		"department_id", id,
	)
	noop := false
	defer func() {
		switch {
		case err != nil:
			logger.ErrorContext(ctx, "failed to update department", "error", err, "error_kind", ErrorKind(err))
		case noop:
			logger.DebugContext(ctx, "department not found; update skipped")
		default:
			logger.InfoContext(ctx, "department updated")
		}
	}()

	if err = s.guard.check(principal, access.EntityDepartment, access.ActionUpdate); err != nil {
		return
	}

	var existing Department
	existing, err = s.departments.GetDepartment(ctx, id)
	if errors.Is(err, persistence.ErrNotFound) {
		err, noop = nil, true
		return
	}
	if err != nil {
		err = mapRepoError(err)
		return
	}

	merged := existing
	if patch.Name != nil {
		merged.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Budget != nil {
		merged.Budget = *patch.Budget
	}
	if patch.EmployeeCount != nil {
		merged.EmployeeCount = *patch.EmployeeCount
	}
	if patch.AverageSalary != nil {
		merged.AverageSalary = *patch.AverageSalary
	}
	if vErr := validateDepartment(merged); vErr.HasErrors() {
		err = vErr
		return
	}

	if err = s.departments.UpdateDepartment(ctx, merged); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err, noop = nil, true
			return
		}
		err = mapRepoError(err)
		return
	}

	s.metrics.RecordMutation(access.EntityDepartment, access.ActionUpdate)
	department = merged
	return
}

// DeleteDepartment removes a department. Employees naming it keep the name.
// An unknown id is a silent no-op.
func (s *DepartmentService) DeleteDepartment(ctx context.Context, principal Principal, id string) error {
	if s == nil {
		return fmt.Errorf("DepartmentService is nil")
	}
	if s.departments == nil {
		return fmt.Errorf("department repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteDepartment",
		"principal_id", principal.UserID,
		"department_id", id,
	)

	if err := s.guard.check(principal, access.EntityDepartment, access.ActionDelete); err != nil {
		logger.ErrorContext(ctx, "failed to delete department", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if err := s.departments.DeleteDepartment(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			logger.DebugContext(ctx, "department not found; delete skipped")
			return nil
		}
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete department", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	s.metrics.RecordMutation(access.EntityDepartment, access.ActionDelete)
	logger.InfoContext(ctx, "department deleted")
	return nil
}

// GetDepartment returns one department view or ErrNotFound.
func (s *DepartmentService) GetDepartment(ctx context.Context, principal Principal, id string) (DepartmentView, error) {
	if s == nil {
		return DepartmentView{}, fmt.Errorf("DepartmentService is nil")
	}
	if s.departments == nil {
		return DepartmentView{}, fmt.Errorf("department repository not configured")
	}
	if err := s.guard.check(principal, access.EntityDepartment, access.ActionView); err != nil {
		return DepartmentView{}, err
	}

	department, err := s.departments.GetDepartment(ctx, id)
	if err != nil {
		return DepartmentView{}, mapRepoError(err)
	}
	employees, err := s.listEmployees(ctx)
	if err != nil {
		return DepartmentView{}, err
	}
	return newDepartmentView(department, employees), nil
}

// ListDepartments returns every department in insertion order with its
// budget utilization and live headcount.
func (s *DepartmentService) ListDepartments(ctx context.Context, principal Principal) (views []DepartmentView, err error) {
	if s == nil {
		err = fmt.Errorf("DepartmentService is nil")
		return
	}
	if s.departments == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListDepartments",
		"principal_id", principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list departments", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(views)).DebugContext(ctx, "departments listed")
	}()

	if err = s.guard.check(principal, access.EntityDepartment, access.ActionView); err != nil {
		return
	}

	var departments []Department
	departments, err = s.departments.ListDepartments(ctx)
	if err != nil {
		return
	}
	var employees []Employee
	employees, err = s.listEmployees(ctx)
	if err != nil {
		return
	}

	views = make([]DepartmentView, 0, len(departments))
	for _, d := range departments {
		views = append(views, newDepartmentView(d, employees))
	}
	return
}

func (s *DepartmentService) listEmployees(ctx context.Context) ([]Employee, error) {
	if s.employees == nil {
		return nil, nil
	}
	return s.employees.ListEmployees(ctx)
}

func newDepartmentView(d Department, employees []Employee) DepartmentView {
	return DepartmentView{
		Department:  d,
		Utilization: query.Utilization(d),
		Headcount:   query.Headcount(d.Name, employees),
	}
}

func validateDepartment(d Department) *ValidationError {
	vErr := &ValidationError{}

	if d.Name == "" {
		vErr.add("name", "department name is required")
	}
	if !nonNegative(d.Budget) {
		vErr.add("budget", "budget must be a valid positive number")
	}
	if d.EmployeeCount < 0 {
		vErr.add("employee_count", "employee count must be a valid positive number")
	}
	if !nonNegative(d.AverageSalary) {
		vErr.add("average_salary", "average salary must be a valid positive number")
	}

	return vErr
}

func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
