package persistence

import "context"

// EmployeeRepository exposes the employee collection in insertion order.
type EmployeeRepository interface {
	ListEmployees(ctx context.Context) ([]Employee, error)
	GetEmployee(ctx context.Context, id string) (Employee, error)
	AddEmployee(ctx context.Context, employee Employee) error
	UpdateEmployee(ctx context.Context, employee Employee) error
	DeleteEmployee(ctx context.Context, id string) error
}

// DepartmentRepository exposes the department collection in insertion order.
type DepartmentRepository interface {
	ListDepartments(ctx context.Context) ([]Department, error)
	GetDepartment(ctx context.Context, id string) (Department, error)
	AddDepartment(ctx context.Context, department Department) error
	UpdateDepartment(ctx context.Context, department Department) error
	DeleteDepartment(ctx context.Context, id string) error
}

// AttendanceRepository exposes the attendance collection. Records are
// appended and never removed; RecordCheckOut is the only change allowed after
// insertion.
type AttendanceRepository interface {
	ListAttendance(ctx context.Context) ([]AttendanceRecord, error)
	AddAttendance(ctx context.Context, record AttendanceRecord) error
	RecordCheckOut(ctx context.Context, id, checkOut string, hoursWorked float64) error
}

// Store is the record store shared by every service of a session.
type Store interface {
	EmployeeRepository
	DepartmentRepository
	AttendanceRepository
	Close() error
}
