package testfixtures

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/empmanager/internal/access"
	"github.com/example/empmanager/internal/persistence"
)

// RunStoreContract exercises the behaviour every persistence.Store must share.
func RunStoreContract(t *testing.T, newStore StoreFactory) {
	t.Helper()

	t.Run("employees keep insertion order across updates", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		for _, employee := range persistence.SeedEmployees() {
			require.NoError(t, store.AddEmployee(ctx, employee))
		}

		jane, err := store.GetEmployee(ctx, "2")
		require.NoError(t, err)
		jane.Salary = 68000
		jane.Department = "Finance"
		require.NoError(t, store.UpdateEmployee(ctx, jane))

		employees, err := store.ListEmployees(ctx)
		require.NoError(t, err)
		require.Len(t, employees, 3)
		assert.Equal(t, []string{"1", "2", "3"}, employeeIDs(employees))
		assert.Equal(t, 68000.0, employees[1].Salary)
		assert.Equal(t, "Finance", employees[1].Department)
		assert.Equal(t, access.RoleHR, employees[1].Role)
		assert.True(t, employees[1].JoinDate.Equal(persistence.MustDate("2022-08-10")))
	})

	t.Run("employee delete removes only the target", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		for _, employee := range persistence.SeedEmployees() {
			require.NoError(t, store.AddEmployee(ctx, employee))
		}
		require.NoError(t, store.DeleteEmployee(ctx, "2"))

		employees, err := store.ListEmployees(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "3"}, employeeIDs(employees))

		_, err = store.GetEmployee(ctx, "2")
		assert.ErrorIs(t, err, persistence.ErrNotFound)
	})

	t.Run("employee errors", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		employee := persistence.SeedEmployees()[0]

		require.NoError(t, store.AddEmployee(ctx, employee))
		assert.ErrorIs(t, store.AddEmployee(ctx, employee), persistence.ErrDuplicate)

		employee.ID = ""
		assert.ErrorIs(t, store.AddEmployee(ctx, employee), persistence.ErrConstraintViolation)

		employee.ID = "missing"
		assert.ErrorIs(t, store.UpdateEmployee(ctx, employee), persistence.ErrNotFound)
		assert.ErrorIs(t, store.DeleteEmployee(ctx, "missing"), persistence.ErrNotFound)
	})

	t.Run("join date keeps only the calendar date", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		employee := persistence.SeedEmployees()[0]
		employee.JoinDate = time.Date(2024, time.May, 3, 22, 30, 0, 0, time.UTC)

		require.NoError(t, store.AddEmployee(ctx, employee))
		fetched, err := store.GetEmployee(ctx, employee.ID)
		require.NoError(t, err)
		assert.True(t, fetched.JoinDate.Equal(persistence.MustDate("2024-05-03")), "got %v", fetched.JoinDate)
	})

	t.Run("departments", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		for _, department := range persistence.SeedDepartments() {
			require.NoError(t, store.AddDepartment(ctx, department))
		}

		it, err := store.GetDepartment(ctx, "1")
		require.NoError(t, err)
		it.Budget = 600000
		require.NoError(t, store.UpdateDepartment(ctx, it))
		require.NoError(t, store.DeleteDepartment(ctx, "4"))

		departments, err := store.ListDepartments(ctx)
		require.NoError(t, err)
		require.Len(t, departments, 4)
		assert.Equal(t, "IT", departments[0].Name)
		assert.Equal(t, 600000.0, departments[0].Budget)
		assert.Equal(t, 15, departments[0].EmployeeCount)
		assert.Equal(t, "Marketing", departments[3].Name)

		assert.ErrorIs(t, store.AddDepartment(ctx, departments[0]), persistence.ErrDuplicate)
		assert.ErrorIs(t, store.DeleteDepartment(ctx, "4"), persistence.ErrNotFound)
		_, err = store.GetDepartment(ctx, "4")
		assert.ErrorIs(t, err, persistence.ErrNotFound)
	})

	t.Run("attendance accepts repeated days and records check-out", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		for _, record := range persistence.SeedAttendance() {
			require.NoError(t, store.AddAttendance(ctx, record))
		}
		repeat := persistence.AttendanceRecord{
			ID:         "3",
			EmployeeID: "1",
			Date:       persistence.MustDate("2024-01-15"),
			CheckIn:    "13:00",
			Status:     persistence.AttendancePresent,
		}
		require.NoError(t, store.AddAttendance(ctx, repeat))
		require.NoError(t, store.RecordCheckOut(ctx, "3", "15:30", 2.5))

		records, err := store.ListAttendance(ctx)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "3", records[2].ID)
		assert.Equal(t, "15:30", records[2].CheckOut)
		assert.Equal(t, 2.5, records[2].HoursWorked)
		assert.True(t, records[2].Date.Equal(persistence.MustDate("2024-01-15")))
		assert.Equal(t, persistence.AttendanceLate, records[1].Status)

		assert.ErrorIs(t, store.AddAttendance(ctx, repeat), persistence.ErrDuplicate)
		assert.ErrorIs(t, store.RecordCheckOut(ctx, "missing", "17:00", 1), persistence.ErrNotFound)
	})

	t.Run("reads return copies", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		require.NoError(t, persistence.Seed(ctx, store))

		employees, err := store.ListEmployees(ctx)
		require.NoError(t, err)
		employees[0].Name = "Changed"

		again, err := store.ListEmployees(ctx)
		require.NoError(t, err)
		assert.Equal(t, "John Doe", again[0].Name)
	})

	t.Run("fixture records round trip", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		inactive := NewEmployee(WithStatus(persistence.StatusInactive), WithPhone(""), WithSalary(0))
		sales := NewDepartment(WithDepartmentName("Sales"), WithBudget(0), WithStaffing(0, 0))
		absent := NewAttendance(inactive.ID, WithAttendanceStatus(persistence.AttendanceAbsent))
		Populate(t, store, Dataset{
			Employees:   []persistence.Employee{inactive},
			Departments: []persistence.Department{sales},
			Attendance:  []persistence.AttendanceRecord{absent},
		})

		gotEmployee, err := store.GetEmployee(ctx, inactive.ID)
		require.NoError(t, err)
		assert.Equal(t, inactive, gotEmployee)

		gotDepartment, err := store.GetDepartment(ctx, sales.ID)
		require.NoError(t, err)
		assert.Equal(t, sales, gotDepartment)

		records, err := store.ListAttendance(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, absent, records[0])
	})
}

func employeeIDs(employees []persistence.Employee) []string {
	ids := make([]string, 0, len(employees))
	for _, employee := range employees {
		ids = append(ids, employee.ID)
	}
	return ids
}
