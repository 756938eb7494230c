package persistence

import (
	"time"

	"github.com/example/empmanager/internal/access"
)

// EmployeeStatus records whether an employee is currently employed.
type EmployeeStatus string

const (
	StatusActive   EmployeeStatus = "Active"
	StatusInactive EmployeeStatus = "Inactive"
)

// Valid reports whether s is an enumerated status.
func (s EmployeeStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// AttendanceStatus classifies a day of attendance.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
	AttendanceLate    AttendanceStatus = "Late"
	AttendanceHalfDay AttendanceStatus = "Half Day"
)

// Valid reports whether s is an enumerated attendance status.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceHalfDay:
		return true
	}
	return false
}

// Employee is a staff record. Department holds a department name, not an id,
// and is not checked against the department collection.
type Employee struct {
	ID         string
	Name       string
	Email      string
	Role       access.Role
	Department string
	Salary     float64
	Status     EmployeeStatus
	JoinDate   time.Time
	Phone      string
}

// Department is an organisational unit. EmployeeCount and AverageSalary are
// entered by hand and may drift from the employee collection.
type Department struct {
	ID            string
	Name          string
	Budget        float64
	EmployeeCount int
	AverageSalary float64
}

// AttendanceRecord is one employee's attendance for one calendar date.
// CheckIn and CheckOut are HH:MM clock readings; CheckOut is empty until the
// employee checks out.
type AttendanceRecord struct {
	ID          string
	EmployeeID  string
	Date        time.Time
	CheckIn     string
	CheckOut    string
	Status      AttendanceStatus
	HoursWorked float64
}
