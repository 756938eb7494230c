package query

import (
	"fmt"
	"math"

	"github.com/example/empmanager/internal/persistence"
)

// BudgetUtilization is the payroll share of a department budget.
type BudgetUtilization struct {
	// Percent is unclamped; it may exceed 100.
	Percent float64
	// BarWidth is Percent clamped to [0, 100].
	BarWidth float64
}

// Text renders Percent with one decimal, e.g. "225.0%".
func (u BudgetUtilization) Text() string {
	return fmt.Sprintf("%.1f%%", u.Percent)
}

// Utilization computes employeeCount * averageSalary / budget * 100. A
// budget of zero or less yields zero.
func Utilization(d persistence.Department) BudgetUtilization {
	if d.Budget <= 0 {
		return BudgetUtilization{}
	}
	percent := float64(d.EmployeeCount) * d.AverageSalary / d.Budget * 100
	return BudgetUtilization{
		Percent:  percent,
		BarWidth: math.Min(math.Max(percent, 0), 100),
	}
}

// DepartmentHeadcount is derived live from the employee collection, as
// opposed to the manually maintained fields on Department.
type DepartmentHeadcount struct {
	Employees     int
	AverageSalary float64
}

// Headcount counts employees whose department equals departmentName.
func Headcount(departmentName string, employees []persistence.Employee) DepartmentHeadcount {
	var (
		count int
		total float64
	)
	for _, e := range employees {
		if e.Department != departmentName {
			continue
		}
		count++
		total += e.Salary
	}
	if count == 0 {
		return DepartmentHeadcount{}
	}
	return DepartmentHeadcount{Employees: count, AverageSalary: total / float64(count)}
}
