package testfixtures

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/empmanager/internal/access"
	"github.com/example/empmanager/internal/persistence"
)

var (
	employeeCounter   uint64
	departmentCounter uint64
	attendanceCounter uint64
)

// ----------------------------- Employee fixtures -----------------------------

// EmployeeOption configures a generated employee.
type EmployeeOption func(*persistence.Employee)

// NewEmployee returns a valid active employee with unique id, name and email.
func NewEmployee(opts ...EmployeeOption) persistence.Employee {
	idx := atomic.AddUint64(&employeeCounter, 1)
	employee := persistence.Employee{
		ID:         fmt.Sprintf("emp-%03d", idx),
		Name:       fmt.Sprintf("Employee %03d", idx),
		Email:      fmt.Sprintf("employee%03d@company.com", idx),
		Role:       access.RoleEmployee,
		Department: "IT",
		Salary:     60000,
		Status:     persistence.StatusActive,
		JoinDate:   persistence.CalendarDate(referenceTime.AddDate(0, 0, -int(idx))),
		Phone:      "+1 555-0100",
	}
	for _, opt := range opts {
		opt(&employee)
	}
	return employee
}

// WithEmployeeID overrides the generated id.
func WithEmployeeID(id string) EmployeeOption {
	return func(e *persistence.Employee) { e.ID = id }
}

// WithName overrides the generated name.
func WithName(name string) EmployeeOption {
	return func(e *persistence.Employee) { e.Name = name }
}

// WithEmail overrides the generated email.
func WithEmail(email string) EmployeeOption {
	return func(e *persistence.Employee) { e.Email = email }
}

// WithRole sets the employee role.
func WithRole(role access.Role) EmployeeOption {
	return func(e *persistence.Employee) { e.Role = role }
}

// WithDepartment sets the department name.
func WithDepartment(name string) EmployeeOption {
	return func(e *persistence.Employee) { e.Department = name }
}

// WithSalary sets the salary.
func WithSalary(salary float64) EmployeeOption {
	return func(e *persistence.Employee) { e.Salary = salary }
}

// WithStatus sets the employment status.
func WithStatus(status persistence.EmployeeStatus) EmployeeOption {
	return func(e *persistence.Employee) { e.Status = status }
}

// WithJoinDate sets the join date.
func WithJoinDate(date time.Time) EmployeeOption {
	return func(e *persistence.Employee) { e.JoinDate = persistence.CalendarDate(date) }
}

// WithPhone sets the phone number; an empty string clears it.
func WithPhone(phone string) EmployeeOption {
	return func(e *persistence.Employee) { e.Phone = phone }
}

// ---------------------------- Department fixtures ----------------------------

// DepartmentOption configures a generated department.
type DepartmentOption func(*persistence.Department)

// NewDepartment returns a department with a unique id and name.
func NewDepartment(opts ...DepartmentOption) persistence.Department {
	idx := atomic.AddUint64(&departmentCounter, 1)
	department := persistence.Department{
		ID:            fmt.Sprintf("dept-%03d", idx),
		Name:          fmt.Sprintf("Department %03d", idx),
		Budget:        100000,
		EmployeeCount: 2,
		AverageSalary: 50000,
	}
	for _, opt := range opts {
		opt(&department)
	}
	return department
}

// WithDepartmentID overrides the generated id.
func WithDepartmentID(id string) DepartmentOption {
	return func(d *persistence.Department) { d.ID = id }
}

// WithDepartmentName overrides the generated name.
func WithDepartmentName(name string) DepartmentOption {
	return func(d *persistence.Department) { d.Name = name }
}

// WithBudget sets the budget.
func WithBudget(budget float64) DepartmentOption {
	return func(d *persistence.Department) { d.Budget = budget }
}

// WithStaffing sets the manually maintained employee count and average salary.
func WithStaffing(count int, averageSalary float64) DepartmentOption {
	return func(d *persistence.Department) {
		d.EmployeeCount = count
		d.AverageSalary = averageSalary
	}
}

// ---------------------------- Attendance fixtures ----------------------------

// AttendanceOption configures a generated attendance record.
type AttendanceOption func(*persistence.AttendanceRecord)

// NewAttendance returns a Present 09:00-17:00 record for employeeID on the
// reference date.
func NewAttendance(employeeID string, opts ...AttendanceOption) persistence.AttendanceRecord {
	idx := atomic.AddUint64(&attendanceCounter, 1)
	record := persistence.AttendanceRecord{
		ID:          fmt.Sprintf("att-%03d", idx),
		EmployeeID:  employeeID,
		Date:        persistence.CalendarDate(referenceTime),
		CheckIn:     "09:00",
		CheckOut:    "17:00",
		Status:      persistence.AttendancePresent,
		HoursWorked: 8,
	}
	for _, opt := range opts {
		opt(&record)
	}
	return record
}

// WithAttendanceID overrides the generated id.
func WithAttendanceID(id string) AttendanceOption {
	return func(r *persistence.AttendanceRecord) { r.ID = id }
}

// OnDate moves the record to date.
func OnDate(date time.Time) AttendanceOption {
	return func(r *persistence.AttendanceRecord) { r.Date = persistence.CalendarDate(date) }
}

// WithAttendanceStatus sets the status. Absent records lose their clock readings.
func WithAttendanceStatus(status persistence.AttendanceStatus) AttendanceOption {
	return func(r *persistence.AttendanceRecord) {
		r.Status = status
		if status == persistence.AttendanceAbsent {
			r.CheckIn, r.CheckOut, r.HoursWorked = "", "", 0
		}
	}
}

// WithTimes sets the clock readings and hours worked.
func WithTimes(checkIn, checkOut string, hours float64) AttendanceOption {
	return func(r *persistence.AttendanceRecord) {
		r.CheckIn = checkIn
		r.CheckOut = checkOut
		r.HoursWorked = hours
	}
}

// -------------------------------- Population --------------------------------

// Dataset groups records to load into a store.
type Dataset struct {
	Employees   []persistence.Employee
	Departments []persistence.Department
	Attendance  []persistence.AttendanceRecord
}

// Populate adds every record of data to store, failing tb on the first error.
func Populate(tb testing.TB, store persistence.Store, data Dataset) {
	tb.Helper()
	ctx := context.Background()

	for _, e := range data.Employees {
		if err := store.AddEmployee(ctx, e); err != nil {
			tb.Fatalf("failed to add employee %s: %v", e.ID, err)
		}
	}
	for _, d := range data.Departments {
		if err := store.AddDepartment(ctx, d); err != nil {
			tb.Fatalf("failed to add department %s: %v", d.ID, err)
		}
	}
	for _, r := range data.Attendance {
		if err := store.AddAttendance(ctx, r); err != nil {
			tb.Fatalf("failed to add attendance %s: %v", r.ID, err)
		}
	}
}
