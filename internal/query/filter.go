// Package query holds the pure derivations the views are built from:
// employee search and filters, attendance lookups and statistics, budget
// utilization, and dashboard metrics. Nothing here touches a store.
package query

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/example/empmanager/internal/access"
	"github.com/example/empmanager/internal/persistence"
)

// EmployeeFilter narrows the employee list. Empty fields match everything.
type EmployeeFilter struct {
	Search     string
	Department string
	Role       access.Role
	Status     persistence.EmployeeStatus
}

// IsZero reports whether the filter matches every employee.
func (f EmployeeFilter) IsZero() bool {
	return f == EmployeeFilter{}
}

// Matches reports whether e satisfies every populated criterion. Search is a
// case-insensitive substring match against name or email; the remaining
// fields must match exactly.
func (f EmployeeFilter) Matches(e persistence.Employee) bool {
	return f.matches(cases.Fold(), e)
}

func (f EmployeeFilter) matches(fold cases.Caser, e persistence.Employee) bool {
	if f.Search != "" {
		needle := fold.String(f.Search)
		if !strings.Contains(fold.String(e.Name), needle) && !strings.Contains(fold.String(e.Email), needle) {
			return false
		}
	}
	if f.Department != "" && e.Department != f.Department {
		return false
	}
	if f.Role != "" && e.Role != f.Role {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	return true
}

// FilterEmployees returns the employees matching f, preserving input order.
func FilterEmployees(employees []persistence.Employee, f EmployeeFilter) []persistence.Employee {
	fold := cases.Fold()
	matched := make([]persistence.Employee, 0, len(employees))
	for _, e := range employees {
		if f.matches(fold, e) {
			matched = append(matched, e)
		}
	}
	return matched
}

// Initials returns the first letter of each space-separated part of name.
func Initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		for _, r := range part {
			b.WriteRune(r)
			break
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}
