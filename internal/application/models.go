package application

import (
	"time"

	"github.com/example/empmanager/internal/access"
	"github.com/example/empmanager/internal/persistence"
	"github.com/example/empmanager/internal/query"
)

type (
	// Employee is a stored employee record.
	Employee = persistence.Employee
	// Department is a stored department record.
	Department = persistence.Department
	// AttendanceRecord is a stored attendance record.
	AttendanceRecord = persistence.AttendanceRecord
)

// Principal represents the user invoking a service method. The zero value is
// an anonymous caller and is denied everything.
type Principal struct {
	UserID string
	Name   string
	Email  string
	Role   access.Role
}

// Anonymous reports whether no user is attached.
func (p Principal) Anonymous() bool {
	return p.UserID == "" && p.Role == ""
}

// User is an account known to the credential collaborator.
type User struct {
	ID         string
	Name       string
	Email      string
	Role       access.Role
	Department string
}

// Principal returns the principal acting on behalf of u.
func (u User) Principal() Principal {
	return Principal{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// EmployeeInput captures caller provided employee fields. Empty Role and
// Status default to Employee and Active.
type EmployeeInput struct {
	Name       string
	Email      string
	Role       access.Role
	Department string
	Salary     float64
	Status     persistence.EmployeeStatus
	JoinDate   time.Time
	Phone      string
}

// EmployeePatch carries the fields of a partial update. Nil fields are kept.
type EmployeePatch struct {
	Name       *string
	Email      *string
	Role       *access.Role
	Department *string
	Salary     *float64
	Status     *persistence.EmployeeStatus
	JoinDate   *time.Time
	Phone      *string
}

// IsEmpty reports whether the patch changes nothing.
func (p EmployeePatch) IsEmpty() bool {
	return p == EmployeePatch{}
}

// DepartmentInput captures caller provided department fields.
type DepartmentInput struct {
	Name          string
	Budget        float64
	EmployeeCount int
	AverageSalary float64
}

// DepartmentPatch carries the fields of a partial update. Nil fields are kept.
type DepartmentPatch struct {
	Name          *string
	Budget        *float64
	EmployeeCount *int
	AverageSalary *float64
}

// DepartmentView is a department with its derived figures.
type DepartmentView struct {
	Department
	Utilization query.BudgetUtilization
	// Headcount is derived from the employee list; EmployeeCount and
	// AverageSalary on the department stay as entered.
	Headcount query.DepartmentHeadcount
}

// AttendanceInput captures a manually entered attendance record.
type AttendanceInput struct {
	EmployeeID  string
	Date        time.Time
	CheckIn     string
	CheckOut    string
	Status      persistence.AttendanceStatus
	HoursWorked float64
}

// Credentials are the login form fields.
type Credentials struct {
	Email    string
	Password string
}

// RegisterParams are the registration form fields. Empty Role defaults to Employee.
type RegisterParams struct {
	Name       string
	Email      string
	Password   string
	Role       access.Role
	Department string
}

// SessionState is the authentication state of a session.
type SessionState string

const (
	SessionAnonymous     SessionState = "anonymous"
	SessionAuthenticated SessionState = "authenticated"
)
