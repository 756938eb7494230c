// Package sqlite provides a record store backed by an in-memory SQLite
// database (modernc.org/sqlite). It is interchangeable with the memory store;
// a seq column preserves insertion order across updates.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/empmanager/internal/access"
	"github.com/example/empmanager/internal/persistence"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		role TEXT NOT NULL,
		department TEXT NOT NULL,
		salary REAL NOT NULL CHECK (salary >= 0),
		status TEXT NOT NULL,
		join_date TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS departments (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		budget REAL NOT NULL CHECK (budget >= 0),
		employee_count INTEGER NOT NULL CHECK (employee_count >= 0),
		average_salary REAL NOT NULL CHECK (average_salary >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS attendance (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		check_in TEXT NOT NULL DEFAULT '',
		check_out TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		hours_worked REAL NOT NULL DEFAULT 0 CHECK (hours_worked >= 0)
	)`,
}

// Store implements persistence.Store on SQLite.
type Store struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

var _ persistence.Store = (*Store)(nil)

// Open connects to an in-memory database. Call Migrate before use.
func Open(dsn string) (*Store, error) {
	pool, err := NewConnectionPool(dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool, mapper: NewErrorMapper()}, nil
}

// Close releases the database handle, discarding its contents.
func (s *Store) Close() error {
	return s.pool.Close()
}

// Migrate creates the tables.
func (s *Store) Migrate(ctx context.Context) error {
	return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("sqlite: apply schema: %w", err)
			}
		}
		return nil
	})
}

// --- EmployeeRepository implementation ---

const employeeColumns = `id, name, email, role, department, salary, status, join_date, phone`

// ListEmployees returns all employees in insertion order.
func (s *Store) ListEmployees(ctx context.Context) ([]persistence.Employee, error) {
	rows, err := s.pool.DB().QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY seq`)
	if err != nil {
		return nil, s.mapper.MapError(err)
	}
	defer rows.Close()

	var employees []persistence.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

// GetEmployee retrieves an employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id string) (persistence.Employee, error) {
	row := s.pool.DB().QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)
	employee, err := scanEmployee(row)
	if err != nil {
		return persistence.Employee{}, s.mapper.MapError(err)
	}
	return employee, nil
}

// AddEmployee inserts a new employee.
func (s *Store) AddEmployee(ctx context.Context, employee persistence.Employee) error {
	if employee.ID == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := s.pool.DB().ExecContext(ctx,
		`INSERT INTO employees (`+employeeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		employee.ID,
		employee.Name,
		employee.Email,
		string(employee.Role),
		employee.Department,
		employee.Salary,
		string(employee.Status),
		employee.JoinDate.Format(persistence.DateLayout),
		employee.Phone,
	)
	return s.mapper.MapError(err)
}

// UpdateEmployee overwrites the stored employee with the same ID.
func (s *Store) UpdateEmployee(ctx context.Context, employee persistence.Employee) error {
	result, err := s.pool.DB().ExecContext(ctx, `
		UPDATE employees
		SET name = ?, email = ?, role = ?, department = ?, salary = ?, status = ?, join_date = ?, phone = ?
		WHERE id = ?`,
		employee.Name,
		employee.Email,
		string(employee.Role),
		employee.Department,
		employee.Salary,
		string(employee.Status),
		employee.JoinDate.Format(persistence.DateLayout),
		employee.Phone,
		employee.ID,
	)
	if err != nil {
		return s.mapper.MapError(err)
	}
	return expectOneRow(result)
}

// DeleteEmployee removes an employee by ID.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	result, err := s.pool.DB().ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return s.mapper.MapError(err)
	}
	return expectOneRow(result)
}

// --- DepartmentRepository implementation ---

const departmentColumns = `id, name, budget, employee_count, average_salary`

// ListDepartments returns all departments in insertion order.
func (s *Store) ListDepartments(ctx context.Context) ([]persistence.Department, error) {
	rows, err := s.pool.DB().QueryContext(ctx, `SELECT `+departmentColumns+` FROM departments ORDER BY seq`)
	if err != nil {
		return nil, s.mapper.MapError(err)
	}
	defer rows.Close()

	var departments []persistence.Department
	for rows.Next() {
		var d persistence.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Budget, &d.EmployeeCount, &d.AverageSalary); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

// GetDepartment retrieves a department by ID.
func (s *Store) GetDepartment(ctx context.Context, id string) (persistence.Department, error) {
	var d persistence.Department
	err := s.pool.DB().QueryRowContext(ctx, `SELECT `+departmentColumns+` FROM departments WHERE id = ?`, id).
		Scan(&d.ID, &d.Name, &d.Budget, &d.EmployeeCount, &d.AverageSalary)
	if err != nil {
		return persistence.Department{}, s.mapper.MapError(err)
	}
	return d, nil
}

// AddDepartment inserts a new department.
func (s *Store) AddDepartment(ctx context.Context, department persistence.Department) error {
	if department.ID == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := s.pool.DB().ExecContext(ctx,
		`INSERT INTO departments (`+departmentColumns+`) VALUES (?, ?, ?, ?, ?)`,
		department.ID,
		department.Name,
		department.Budget,
		department.EmployeeCount,
		department.AverageSalary,
	)
	return s.mapper.MapError(err)
}

// UpdateDepartment overwrites the stored department with the same ID.
func (s *Store) UpdateDepartment(ctx context.Context, department persistence.Department) error {
	result, err := s.pool.DB().ExecContext(ctx, `
		UPDATE departments
		SET name = ?, budget = ?, employee_count = ?, average_salary = ?
		WHERE id = ?`,
		department.Name,
		department.Budget,
		department.EmployeeCount,
		department.AverageSalary,
		department.ID,
	)
	if err != nil {
		return s.mapper.MapError(err)
	}
	return expectOneRow(result)
}

// DeleteDepartment removes a department by ID.
func (s *Store) DeleteDepartment(ctx context.Context, id string) error {
	result, err := s.pool.DB().ExecContext(ctx, `DELETE FROM departments WHERE id = ?`, id)
	if err != nil {
		return s.mapper.MapError(err)
	}
	return expectOneRow(result)
}

// --- AttendanceRepository implementation ---

// ListAttendance returns all attendance records in insertion order.
func (s *Store) ListAttendance(ctx context.Context) ([]persistence.AttendanceRecord, error) {
	rows, err := s.pool.DB().QueryContext(ctx, `
		SELECT id, employee_id, date, check_in, check_out, status, hours_worked
		FROM attendance ORDER BY seq`)
	if err != nil {
		return nil, s.mapper.MapError(err)
	}
	defer rows.Close()

	var records []persistence.AttendanceRecord
	for rows.Next() {
		var (
			r      persistence.AttendanceRecord
			date   string
			status string
		)
		if err := rows.Scan(&r.ID, &r.EmployeeID, &date, &r.CheckIn, &r.CheckOut, &status, &r.HoursWorked); err != nil {
			return nil, err
		}
		if r.Date, err = time.Parse(persistence.DateLayout, date); err != nil {
			return nil, fmt.Errorf("sqlite: attendance %s: %w", r.ID, err)
		}
		r.Status = persistence.AttendanceStatus(status)
		records = append(records, r)
	}
	return records, rows.Err()
}

// AddAttendance inserts a new attendance record.
func (s *Store) AddAttendance(ctx context.Context, record persistence.AttendanceRecord) error {
	if record.ID == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := s.pool.DB().ExecContext(ctx, `
		INSERT INTO attendance (id, employee_id, date, check_in, check_out, status, hours_worked)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.EmployeeID,
		record.Date.Format(persistence.DateLayout),
		record.CheckIn,
		record.CheckOut,
		string(record.Status),
		record.HoursWorked,
	)
	return s.mapper.MapError(err)
}

// RecordCheckOut sets the check-out reading and hours worked of a record.
func (s *Store) RecordCheckOut(ctx context.Context, id, checkOut string, hoursWorked float64) error {
	result, err := s.pool.DB().ExecContext(ctx,
		`UPDATE attendance SET check_out = ?, hours_worked = ? WHERE id = ?`,
		checkOut, hoursWorked, id,
	)
	if err != nil {
		return s.mapper.MapError(err)
	}
	return expectOneRow(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (persistence.Employee, error) {
	var (
		e        persistence.Employee
		role     string
		status   string
		joinDate string
	)
	if err := row.Scan(&e.ID, &e.Name, &e.Email, &role, &e.Department, &e.Salary, &status, &joinDate, &e.Phone); err != nil {
		return persistence.Employee{}, err
	}
	parsed, err := time.Parse(persistence.DateLayout, joinDate)
	if err != nil {
		return persistence.Employee{}, fmt.Errorf("sqlite: employee %s: %w", e.ID, err)
	}
	e.Role = access.Role(role)
	e.Status = persistence.EmployeeStatus(status)
	e.JoinDate = parsed
	return e, nil
}
