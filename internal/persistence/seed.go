package persistence

import (
	"context"
	"fmt"

	"github.com/example/empmanager/internal/access"
)

// SeedEmployees returns the employees every new store starts with.
func SeedEmployees() []Employee {
	return []Employee{
		{
			ID:         "1",
			Name:       "John Doe",
			Email:      "john@company.com",
			Role:       access.RoleEmployee,
			Department: "IT",
			Salary:     75000,
			Status:     StatusActive,
			JoinDate:   MustDate("2023-01-15"),
			Phone:      "+1 234-567-8901",
		},
		{
			ID:         "2",
			Name:       "Jane Smith",
			Email:      "jane@company.com",
			Role:       access.RoleHR,
			Department: "HR",
			Salary:     65000,
			Status:     StatusActive,
			JoinDate:   MustDate("2022-08-10"),
			Phone:      "+1 234-567-8902",
		},
		{
			ID:         "3",
			Name:       "Bob Wilson",
			Email:      "bob@company.com",
			Role:       access.RoleEmployee,
			Department: "Sales",
			Salary:     70000,
			Status:     StatusActive,
			JoinDate:   MustDate("2023-03-20"),
			Phone:      "+1 234-567-8903",
		},
	}
}

// SeedDepartments returns the departments every new store starts with.
func SeedDepartments() []Department {
	return []Department{
		{ID: "1", Name: "IT", Budget: 500000, EmployeeCount: 15, AverageSalary: 75000},
		{ID: "2", Name: "HR", Budget: 200000, EmployeeCount: 5, AverageSalary: 65000},
		{ID: "3", Name: "Sales", Budget: 300000, EmployeeCount: 10, AverageSalary: 70000},
		{ID: "4", Name: "Finance", Budget: 250000, EmployeeCount: 8, AverageSalary: 72000},
		{ID: "5", Name: "Marketing", Budget: 180000, EmployeeCount: 6, AverageSalary: 68000},
	}
}

// SeedAttendance returns the attendance records every new store starts with.
func SeedAttendance() []AttendanceRecord {
	return []AttendanceRecord{
		{
			ID:          "1",
			EmployeeID:  "1",
			Date:        MustDate("2024-01-15"),
			CheckIn:     "09:00",
			CheckOut:    "17:30",
			Status:      AttendancePresent,
			HoursWorked: 8.5,
		},
		{
			ID:          "2",
			EmployeeID:  "2",
			Date:        MustDate("2024-01-15"),
			CheckIn:     "09:15",
			CheckOut:    "17:45",
			Status:      AttendanceLate,
			HoursWorked: 8.5,
		},
	}
}

// Seed loads the seed collections into store.
func Seed(ctx context.Context, store Store) error {
	for _, employee := range SeedEmployees() {
		if err := store.AddEmployee(ctx, employee); err != nil {
			return fmt.Errorf("seed employee %s: %w", employee.ID, err)
		}
	}
	for _, department := range SeedDepartments() {
		if err := store.AddDepartment(ctx, department); err != nil {
			return fmt.Errorf("seed department %s: %w", department.ID, err)
		}
	}
	for _, record := range SeedAttendance() {
		if err := store.AddAttendance(ctx, record); err != nil {
			return fmt.Errorf("seed attendance %s: %w", record.ID, err)
		}
	}
	return nil
}
