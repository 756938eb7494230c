package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/empmanager/internal/persistence"
)

func TestDashboardFromSeedData(t *testing.T) {
	employees := persistence.SeedEmployees()
	employees[1].Status = persistence.StatusInactive

	m := Dashboard(employees, persistence.SeedDepartments(), persistence.SeedAttendance())

	assert.Equal(t, 3, m.TotalEmployees)
	assert.Equal(t, 2, m.ActiveEmployees)
	assert.Equal(t, 1, m.InactiveEmployees)
	assert.Equal(t, 5, m.TotalDepartments)
	assert.InDelta(t, 70000.0, m.AverageSalary, 1e-9)
	assert.Equal(t, 1, m.PresentCount)
	assert.InDelta(t, 50.0, m.AttendanceRate, 1e-9)

	require.Len(t, m.Departments, 5)
	assert.Equal(t, DepartmentChartRow{Name: "IT", Employees: 15, BudgetK: 500, AverageSalaryK: 75}, m.Departments[0])
	for i, d := range persistence.SeedDepartments() {
		assert.InDelta(t, d.AverageSalary/1000, m.Departments[i].AverageSalaryK, 1e-9, d.Name)
	}
}

func TestDashboardEmptyCollections(t *testing.T) {
	m := Dashboard(nil, nil, nil)

	assert.Zero(t, m.AverageSalary)
	assert.Zero(t, m.AttendanceRate)
	assert.Empty(t, m.Departments)
}
