package export_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/example/empmanager/internal/access"
	"github.com/example/empmanager/internal/export"
	"github.com/example/empmanager/internal/persistence"
)

func readRows(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestEmployeesWritesEveryColumn(t *testing.T) {
	var buf bytes.Buffer
	err := export.New(nil).Employees(&buf, access.RoleHR, persistence.SeedEmployees())
	require.NoError(t, err)

	rows := readRows(t, buf.Bytes(), export.EmployeesSheet)
	require.Len(t, rows, 4)
	assert.Equal(t,
		[]string{"ID", "Name", "Email", "Role", "Department", "Salary", "Status", "Join Date", "Phone"},
		rows[0])
	assert.Equal(t,
		[]string{"1", "John Doe", "john@company.com", "Employee", "IT", "75000", "Active", "2023-01-15", "+1 234-567-8901"},
		rows[1])
}

func TestEmployeesDeniedForEmployeeRole(t *testing.T) {
	var buf bytes.Buffer
	err := export.New(nil).Employees(&buf, access.RoleEmployee, persistence.SeedEmployees())
	require.ErrorIs(t, err, access.ErrAccessDenied)
	assert.Zero(t, buf.Len())
}

func TestEmployeesEmptyListWritesHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	err := export.New(access.DefaultPolicy()).Employees(&buf, access.RoleAdmin, nil)
	require.NoError(t, err)

	rows := readRows(t, buf.Bytes(), export.EmployeesSheet)
	require.Len(t, rows, 1)
	assert.Equal(t, "ID", rows[0][0])
}

func TestAttendanceNewestFirstWithSummary(t *testing.T) {
	records := append(persistence.SeedAttendance(), persistence.AttendanceRecord{
		ID:         "3",
		EmployeeID: "3",
		Date:       persistence.MustDate("2024-01-16"),
		Status:     persistence.AttendanceAbsent,
	})

	var buf bytes.Buffer
	err := export.New(nil).Attendance(&buf, access.RoleEmployee, records, persistence.SeedEmployees())
	require.NoError(t, err)

	rows := readRows(t, buf.Bytes(), export.AttendanceSheet)
	require.Len(t, rows, 4)
	assert.Equal(t, "3", rows[1][0])
	assert.Equal(t, "Bob Wilson", rows[1][2])
	assert.Equal(t, "2024-01-16", rows[1][3])
	assert.Equal(t, "8.5", rows[3][7])

	summary := readRows(t, buf.Bytes(), export.SummarySheet)
	assert.Equal(t, []string{"Total", "3"}, summary[1])
	assert.Equal(t, []string{"Present", "1"}, summary[2])
	assert.Equal(t, []string{"Late", "1"}, summary[3])
	assert.Equal(t, []string{"Absent", "1"}, summary[4])
}
