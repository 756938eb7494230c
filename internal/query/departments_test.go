package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/empmanager/internal/persistence"
)

func TestUtilizationIsNotClampedInText(t *testing.T) {
	u := Utilization(persistence.Department{EmployeeCount: 15, AverageSalary: 75000, Budget: 500000})

	assert.InDelta(t, 225.0, u.Percent, 1e-9)
	assert.Equal(t, 100.0, u.BarWidth)
	assert.Equal(t, "225.0%", u.Text())
}

func TestUtilization(t *testing.T) {
	tests := []struct {
		name    string
		dept    persistence.Department
		percent float64
		bar     float64
		text    string
	}{
		{name: "under budget", dept: persistence.Department{EmployeeCount: 2, AverageSalary: 50000, Budget: 400000}, percent: 25, bar: 25, text: "25.0%"},
		{name: "empty department", dept: persistence.Department{Budget: 100000}, percent: 0, bar: 0, text: "0.0%"},
		{name: "zero budget", dept: persistence.Department{EmployeeCount: 3, AverageSalary: 1000}, percent: 0, bar: 0, text: "0.0%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := Utilization(tt.dept)
			assert.InDelta(t, tt.percent, u.Percent, 1e-9)
			assert.InDelta(t, tt.bar, u.BarWidth, 1e-9)
			assert.Equal(t, tt.text, u.Text())
		})
	}
}

func TestHeadcount(t *testing.T) {
	employees := persistence.SeedEmployees()
	employees = append(employees, persistence.Employee{ID: "4", Department: "IT", Salary: 85000})

	assert.Equal(t, DepartmentHeadcount{Employees: 2, AverageSalary: 80000}, Headcount("IT", employees))
	assert.Equal(t, DepartmentHeadcount{}, Headcount("Finance", employees))
}
