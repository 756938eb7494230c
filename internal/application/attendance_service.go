package application

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/example/empmanager/internal/access"
	"github.com/example/empmanager/internal/persistence"
	"github.com/example/empmanager/internal/query"
)

// AttendanceRepository captures the persistence operations needed by the attendance service.
type AttendanceRepository interface {
	ListAttendance(ctx context.Context) ([]AttendanceRecord, error)
	AddAttendance(ctx context.Context, record AttendanceRecord) error
	RecordCheckOut(ctx context.Context, id, checkOut string, hoursWorked float64) error
}

// Workday fixes the local zone and the start of the working day used to
// date check-ins and classify them as late.
type Workday struct {
	// Start is minutes after midnight; a check-in in any later minute is Late.
	Start    int
	Location *time.Location
}

// DefaultWorkday starts at 09:00 in the local zone.
func DefaultWorkday() Workday {
	return Workday{Start: 9 * 60, Location: time.Local}
}

// AttendanceService records check-ins and check-outs and derives the attendance views.
type AttendanceService struct {
	attendance  AttendanceRepository
	employees   EmployeeLister
	workday     Workday
	idGenerator func() string
	now         func() time.Time
	guard       guard
	metrics     MetricsRecorder
	logger      *slog.Logger

	// mu serialises the read-then-write of check-in and check-out.
	mu sync.Mutex
}

// NewAttendanceService constructs an attendance service with the provided dependencies.
func NewAttendanceService(attendance AttendanceRepository, employees EmployeeLister, workday Workday, idGenerator func() string, now func() time.Time) *AttendanceService {
	return NewAttendanceServiceWithLogger(attendance, employees, workday, idGenerator, now, nil)
}

// NewAttendanceServiceWithLogger constructs an attendance service with a specified logger.
func NewAttendanceServiceWithLogger(attendance AttendanceRepository, employees EmployeeLister, workday Workday, idGenerator func() string, now func() time.Time, logger *slog.Logger) *AttendanceService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if workday.Location == nil {
		workday.Location = time.Local
	}
	return &AttendanceService{
		attendance:  attendance,
		employees:   employees,
		workday:     workday,
		idGenerator: idGenerator,
		now:         now,
		guard:       newGuard(nil, nil),
		metrics:     noopRecorder{},
		logger:      defaultLogger(logger),
	}
}

// UseMetrics attaches a metrics recorder and returns the service.
func (s *AttendanceService) UseMetrics(recorder MetricsRecorder) *AttendanceService {
	s.metrics = defaultRecorder(recorder)
	s.guard = newGuard(s.guard.policy, s.metrics)
	return s
}

func (s *AttendanceService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AttendanceService", operation, attrs...)
}

// Now returns the current instant in the workday zone.
func (s *AttendanceService) Now() time.Time {
	return s.now().In(s.workday.Location)
}

// Today returns the current calendar date in the workday zone.
func (s *AttendanceService) Today() time.Time {
	return persistence.CalendarDate(s.Now())
}

// CheckIn records today's arrival of employeeID. A second check-in on the
// same day returns ErrDuplicateCheckIn and leaves the store unchanged.
func (s *AttendanceService) CheckIn(ctx context.Context, principal Principal, employeeID string) (record AttendanceRecord, err error) {
	if s == nil {
		err = fmt.Errorf("AttendanceService is nil")
		return
	}
	if s.attendance == nil {
		err = fmt.Errorf("attendance repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CheckIn",
		"principal_id", principal.UserID,
		"employee_id", employeeID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to check in", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("attendance_id", record.ID, "status", record.Status).InfoContext(ctx, "employee checked in")
	}()

	if err = s.guard.check(principal, access.EntityAttendance, access.ActionCheckIn); err != nil {
		return
	}
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		vErr := &ValidationError{}
		vErr.add("employee_id", "employee is required")
		err = vErr
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	today := persistence.CalendarDate(now)

	var records []AttendanceRecord
	records, err = s.attendance.ListAttendance(ctx)
	if err != nil {
		return
	}
	if _, exists := query.AttendanceForDate(records, employeeID, today); exists {
		err = ErrDuplicateCheckIn
		return
	}

	status := persistence.AttendancePresent
	if now.Hour()*60+now.Minute() > s.workday.Start {
		status = persistence.AttendanceLate
	}

	candidate := AttendanceRecord{
		ID:         s.idGenerator(),
		EmployeeID: employeeID,
		Date:       today,
		CheckIn:    now.Format(persistence.ClockLayout),
		Status:     status,
	}
	if err = s.attendance.AddAttendance(ctx, candidate); err != nil {
		err = mapRepoError(err)
		return
	}

	s.metrics.RecordCheckIn(status)
	record = candidate
	return
}

// CheckOut closes today's record of employeeID and sets the hours worked.
func (s *AttendanceService) CheckOut(ctx context.Context, principal Principal, employeeID string) (record AttendanceRecord, err error) {
	if s == nil {
		err = fmt.Errorf("AttendanceService is nil")
		return
	}
	if s.attendance == nil {
		err = fmt.Errorf("attendance repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CheckOut",
		"principal_id", principal.UserID,
		"employee_id", employeeID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to check out", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("attendance_id", record.ID, "hours_worked", record.HoursWorked).InfoContext(ctx, "employee checked out")
	}()

	if err = s.guard.check(principal, access.EntityAttendance, access.ActionCheckOut); err != nil {
		return
	}
	employeeID = strings.TrimSpace(employeeID)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()

	var records []AttendanceRecord
	records, err = s.attendance.ListAttendance(ctx)
	if err != nil {
		return
	}
	existing, ok := query.AttendanceForDate(records, employeeID, persistence.CalendarDate(now))
	if !ok {
		err = ErrNotCheckedIn
		return
	}
	if existing.CheckOut != "" {
		err = ErrAlreadyCheckedOut
		return
	}

	checkOut := now.Format(persistence.ClockLayout)
	hours := hoursBetween(existing.CheckIn, checkOut)
	if err = s.attendance.RecordCheckOut(ctx, existing.ID, checkOut, hours); err != nil {
		err = mapRepoError(err)
		return
	}

	s.metrics.RecordMutation(access.EntityAttendance, access.ActionCheckOut)
	record = existing
	record.CheckOut = checkOut
	record.HoursWorked = hours
	return
}

// AddAttendance appends a manually entered record. Several records for the
// same employee and day are accepted; only CheckIn refuses them.
func (s *AttendanceService) AddAttendance(ctx context.Context, principal Principal, input AttendanceInput) (record AttendanceRecord, err error) {
	if s == nil {
		err = fmt.Errorf("AttendanceService is nil")
		return
	}
	if s.attendance == nil {
		err = fmt.Errorf("attendance repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "AddAttendance",
		"principal_id", principal.UserID,
		"employee_id", input.EmployeeID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add attendance", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("attendance_id", record.ID).InfoContext(ctx, "attendance added")
	}()

	if err = s.guard.check(principal, access.EntityAttendance, access.ActionCreate); err != nil {
		return
	}

	candidate := AttendanceRecord{
		EmployeeID:  strings.TrimSpace(input.EmployeeID),
		Date:        input.Date,
		CheckIn:     strings.TrimSpace(input.CheckIn),
		CheckOut:    strings.TrimSpace(input.CheckOut),
		Status:      input.Status,
		HoursWorked: input.HoursWorked,
	}
	if candidate.Status == "" {
		candidate.Status = persistence.AttendancePresent
	}
	if !candidate.Date.IsZero() {
		candidate.Date = persistence.CalendarDate(candidate.Date)
	}
	if vErr := validateAttendance(candidate); vErr.HasErrors() {
		err = vErr
		return
	}

	candidate.ID = s.idGenerator()
	if err = s.attendance.AddAttendance(ctx, candidate); err != nil {
		err = mapRepoError(err)
		return
	}

	s.metrics.RecordMutation(access.EntityAttendance, access.ActionCreate)
	record = candidate
	return
}

// ListAttendance returns every record in insertion order.
func (s *AttendanceService) ListAttendance(ctx context.Context, principal Principal) ([]AttendanceRecord, error) {
	if s == nil {
		return nil, fmt.Errorf("AttendanceService is nil")
	}
	if err := s.guard.check(principal, access.EntityAttendance, access.ActionView); err != nil {
		return nil, err
	}
	if s.attendance == nil {
		return nil, nil
	}
	return s.attendance.ListAttendance(ctx)
}

// Calendar returns the month view for year and month with today marked.
func (s *AttendanceService) Calendar(ctx context.Context, principal Principal, year int, month time.Month) ([]query.CalendarDay, error) {
	records, err := s.ListAttendance(ctx, principal)
	if err != nil {
		return nil, err
	}
	return query.MonthCalendar(records, year, month, s.Today()), nil
}

// Stats returns the per-status totals over every record.
func (s *AttendanceService) Stats(ctx context.Context, principal Principal) (query.AttendanceStats, error) {
	records, err := s.ListAttendance(ctx, principal)
	if err != nil {
		return query.AttendanceStats{}, err
	}
	return query.Stats(records), nil
}

// Duplicates reports employee/day pairs holding more than one record.
func (s *AttendanceService) Duplicates(ctx context.Context, principal Principal) ([]query.Duplicate, error) {
	records, err := s.ListAttendance(ctx, principal)
	if err != nil {
		return nil, err
	}
	return query.DuplicateAttendance(records), nil
}

// QuickCheckIn returns the check-in board of the first limit employees.
// Only roles that may check employees in can see it.
func (s *AttendanceService) QuickCheckIn(ctx context.Context, principal Principal, limit int) ([]query.CheckInSlot, error) {
	if s == nil {
		return nil, fmt.Errorf("AttendanceService is nil")
	}
	if err := s.guard.check(principal, access.EntityAttendance, access.ActionCheckIn); err != nil {
		return nil, err
	}
	if s.employees == nil || s.attendance == nil {
		return nil, nil
	}

	employees, err := s.employees.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.attendance.ListAttendance(ctx)
	if err != nil {
		return nil, err
	}
	return query.CheckInBoard(employees, records, s.Today(), limit), nil
}

func validateAttendance(r AttendanceRecord) *ValidationError {
	vErr := &ValidationError{}

	if r.EmployeeID == "" {
		vErr.add("employee_id", "employee is required")
	}
	if r.Date.IsZero() {
		vErr.add("date", "date is required")
	}
	if !r.Status.Valid() {
		vErr.add("status", "unknown attendance status")
	}
	vErr.merge(validateClock("check_in", r.CheckIn))
	vErr.merge(validateClock("check_out", r.CheckOut))
	if !nonNegative(r.HoursWorked) {
		vErr.add("hours_worked", "hours worked must be a valid positive number")
	}

	return vErr
}

func validateClock(field, value string) *ValidationError {
	if value == "" {
		return nil
	}
	if _, err := persistence.ParseClock(value); err != nil {
		vErr := &ValidationError{}
		vErr.add(field, "time must be HH:MM")
		return vErr
	}
	return nil
}

// hoursBetween returns checkOut minus checkIn in hours rounded to two
// decimals, or zero when either reading is unusable or out of order.
func hoursBetween(checkIn, checkOut string) float64 {
	in, err := persistence.ParseClock(checkIn)
	if err != nil {
		return 0
	}
	out, err := persistence.ParseClock(checkOut)
	if err != nil || out < in {
		return 0
	}
	return math.Round(float64(out-in)/60*100) / 100
}
