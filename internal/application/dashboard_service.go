package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/empmanager/internal/access"
	"github.com/example/empmanager/internal/query"
)

// DepartmentLister lists departments.
type DepartmentLister interface {
	ListDepartments(ctx context.Context) ([]Department, error)
}

// AttendanceLister lists attendance records.
type AttendanceLister interface {
	ListAttendance(ctx context.Context) ([]AttendanceRecord, error)
}

// DashboardService computes the overview shown on the Dashboard page. Every
// role may open the page, so it reads the collections directly instead of
// going through the per-entity view permissions.
type DashboardService struct {
	employees   EmployeeLister
	departments DepartmentLister
	attendance  AttendanceLister
	guard       guard
	logger      *slog.Logger
}

// NewDashboardService constructs a dashboard service.
func NewDashboardService(employees EmployeeLister, departments DepartmentLister, attendance AttendanceLister) *DashboardService {
	return NewDashboardServiceWithLogger(employees, departments, attendance, nil)
}

// NewDashboardServiceWithLogger constructs a dashboard service with a specified logger.
func NewDashboardServiceWithLogger(employees EmployeeLister, departments DepartmentLister, attendance AttendanceLister, logger *slog.Logger) *DashboardService {
	return &DashboardService{
		employees:   employees,
		departments: departments,
		attendance:  attendance,
		guard:       newGuard(nil, nil),
		logger:      defaultLogger(logger),
	}
}

// UseMetrics attaches a metrics recorder and returns the service.
func (s *DashboardService) UseMetrics(recorder MetricsRecorder) *DashboardService {
	s.guard = newGuard(s.guard.policy, recorder)
	return s
}

// Dashboard returns the headline figures over all three collections.
func (s *DashboardService) Dashboard(ctx context.Context, principal Principal) (metrics query.DashboardMetrics, err error) {
	if s == nil {
		err = fmt.Errorf("DashboardService is nil")
		return
	}
	if s.employees == nil || s.departments == nil || s.attendance == nil {
		err = fmt.Errorf("dashboard repositories not configured")
		return
	}

	logger := serviceLogger(ctx, s.logger, "DashboardService", "Dashboard", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to build dashboard", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	if err = s.guard.checkPage(principal, access.PageDashboard); err != nil {
		return
	}

	employees, err := s.employees.ListEmployees(ctx)
	if err != nil {
		return
	}
	departments, err := s.departments.ListDepartments(ctx)
	if err != nil {
		return
	}
	records, err := s.attendance.ListAttendance(ctx)
	if err != nil {
		return
	}
	metrics = query.Dashboard(employees, departments, records)
	return
}
