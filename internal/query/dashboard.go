package query

import "github.com/example/empmanager/internal/persistence"

// DepartmentChartRow is one bar of the department overview chart.
type DepartmentChartRow struct {
	Name      string
	Employees int
	// BudgetK and AverageSalaryK are in thousands.
	BudgetK        float64
	AverageSalaryK float64
}

// DashboardMetrics are the headline numbers of the dashboard.
type DashboardMetrics struct {
	TotalEmployees    int
	ActiveEmployees   int
	InactiveEmployees int
	TotalDepartments  int
	AverageSalary     float64
	PresentCount      int
	AttendanceRate    float64
	Departments       []DepartmentChartRow
}

// Dashboard derives the dashboard metrics. Averages and rates over empty
// collections are zero.
func Dashboard(employees []persistence.Employee, departments []persistence.Department, attendance []persistence.AttendanceRecord) DashboardMetrics {
	m := DashboardMetrics{
		TotalEmployees:   len(employees),
		TotalDepartments: len(departments),
		Departments:      make([]DepartmentChartRow, 0, len(departments)),
	}

	var payroll float64
	for _, e := range employees {
		payroll += e.Salary
		if e.Status == persistence.StatusActive {
			m.ActiveEmployees++
		}
	}
	m.InactiveEmployees = m.TotalEmployees - m.ActiveEmployees
	if m.TotalEmployees > 0 {
		m.AverageSalary = payroll / float64(m.TotalEmployees)
	}

	m.PresentCount = Stats(attendance).Present
	if len(attendance) > 0 {
		m.AttendanceRate = float64(m.PresentCount) / float64(len(attendance)) * 100
	}

	for _, d := range departments {
		m.Departments = append(m.Departments, DepartmentChartRow{
			Name:           d.Name,
			Employees:      d.EmployeeCount,
			BudgetK:        d.Budget / 1000,
			AverageSalaryK: d.AverageSalary / 1000,
		})
	}
	return m
}
