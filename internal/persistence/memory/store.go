// Package memory provides the default record store: three ordered slices
// behind a single RWMutex. Every mutation is visible to the next read.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/example/empmanager/internal/persistence"
)

// Store keeps employees, departments, and attendance records in insertion order.
type Store struct {
	mu          sync.RWMutex
	employees   []persistence.Employee
	departments []persistence.Department
	attendance  []persistence.AttendanceRecord
}

var _ persistence.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Close releases resources held by the store. No-op for the in-memory implementation.
func (s *Store) Close() error {
	return nil
}

// --- EmployeeRepository implementation ---

// ListEmployees returns a copy of all employees in insertion order.
func (s *Store) ListEmployees(ctx context.Context) ([]persistence.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.employees), nil
}

// GetEmployee retrieves an employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id string) (persistence.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.employeeIndexLocked(id)
	if idx < 0 {
		return persistence.Employee{}, persistence.ErrNotFound
	}
	return s.employees[idx], nil
}

// AddEmployee appends a new employee.
func (s *Store) AddEmployee(ctx context.Context, employee persistence.Employee) error {
	if employee.ID == "" {
		return persistence.ErrConstraintViolation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.employeeIndexLocked(employee.ID) >= 0 {
		return fmt.Errorf("memory: employee %s: %w", employee.ID, persistence.ErrDuplicate)
	}
	employee.JoinDate = persistence.CalendarDate(employee.JoinDate)
	s.employees = append(s.employees, employee)
	return nil
}

// UpdateEmployee replaces the stored employee with the same ID, keeping its position.
func (s *Store) UpdateEmployee(ctx context.Context, employee persistence.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.employeeIndexLocked(employee.ID)
	if idx < 0 {
		return persistence.ErrNotFound
	}
	employee.JoinDate = persistence.CalendarDate(employee.JoinDate)
	s.employees[idx] = employee
	return nil
}

// DeleteEmployee removes an employee by ID. Attendance records are left untouched.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.employeeIndexLocked(id)
	if idx < 0 {
		return persistence.ErrNotFound
	}
	s.employees = slices.Delete(s.employees, idx, idx+1)
	return nil
}

func (s *Store) employeeIndexLocked(id string) int {
	return slices.IndexFunc(s.employees, func(e persistence.Employee) bool { return e.ID == id })
}

// --- DepartmentRepository implementation ---

// ListDepartments returns a copy of all departments in insertion order.
func (s *Store) ListDepartments(ctx context.Context) ([]persistence.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.departments), nil
}

// GetDepartment retrieves a department by ID.
func (s *Store) GetDepartment(ctx context.Context, id string) (persistence.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.departmentIndexLocked(id)
	if idx < 0 {
		return persistence.Department{}, persistence.ErrNotFound
	}
	return s.departments[idx], nil
}

// AddDepartment appends a new department.
func (s *Store) AddDepartment(ctx context.Context, department persistence.Department) error {
	if department.ID == "" {
		return persistence.ErrConstraintViolation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.departmentIndexLocked(department.ID) >= 0 {
		return fmt.Errorf("memory: department %s: %w", department.ID, persistence.ErrDuplicate)
	}
	s.departments = append(s.departments, department)
	return nil
}

// UpdateDepartment replaces the stored department with the same ID.
func (s *Store) UpdateDepartment(ctx context.Context, department persistence.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.departmentIndexLocked(department.ID)
	if idx < 0 {
		return persistence.ErrNotFound
	}
	s.departments[idx] = department
	return nil
}

// DeleteDepartment removes a department by ID. Employees naming it keep the name.
func (s *Store) DeleteDepartment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.departmentIndexLocked(id)
	if idx < 0 {
		return persistence.ErrNotFound
	}
	s.departments = slices.Delete(s.departments, idx, idx+1)
	return nil
}

func (s *Store) departmentIndexLocked(id string) int {
	return slices.IndexFunc(s.departments, func(d persistence.Department) bool { return d.ID == id })
}

// --- AttendanceRepository implementation ---

// ListAttendance returns a copy of all attendance records in insertion order.
func (s *Store) ListAttendance(ctx context.Context) ([]persistence.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.attendance), nil
}

// AddAttendance appends a new attendance record. Several records for the same
// employee and date are accepted.
func (s *Store) AddAttendance(ctx context.Context, record persistence.AttendanceRecord) error {
	if record.ID == "" {
		return persistence.ErrConstraintViolation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attendanceIndexLocked(record.ID) >= 0 {
		return fmt.Errorf("memory: attendance %s: %w", record.ID, persistence.ErrDuplicate)
	}
	record.Date = persistence.CalendarDate(record.Date)
	s.attendance = append(s.attendance, record)
	return nil
}

// RecordCheckOut sets the check-out reading and hours worked of a record.
func (s *Store) RecordCheckOut(ctx context.Context, id, checkOut string, hoursWorked float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.attendanceIndexLocked(id)
	if idx < 0 {
		return persistence.ErrNotFound
	}
	s.attendance[idx].CheckOut = checkOut
	s.attendance[idx].HoursWorked = hoursWorked
	return nil
}

func (s *Store) attendanceIndexLocked(id string) int {
	return slices.IndexFunc(s.attendance, func(r persistence.AttendanceRecord) bool { return r.ID == id })
}
