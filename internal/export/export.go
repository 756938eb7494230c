// Package export writes employee and attendance views as XLSX workbooks.
// Each workbook is gated on the page that shows the same data.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/example/empmanager/internal/access"
	"github.com/example/empmanager/internal/persistence"
	"github.com/example/empmanager/internal/query"
)

// Sheet names.
const (
	EmployeesSheet  = "Employees"
	AttendanceSheet = "Attendance"
	SummarySheet    = "Summary"
)

var employeeHeader = []any{"ID", "Name", "Email", "Role", "Department", "Salary", "Status", "Join Date", "Phone"}

// Exporter renders workbooks under a policy.
type Exporter struct {
	policy *access.Policy
}

// New returns an exporter; a nil policy means access.DefaultPolicy().
func New(policy *access.Policy) *Exporter {
	if policy == nil {
		policy = access.DefaultPolicy()
	}
	return &Exporter{policy: policy}
}

// Employees writes one row per employee. The caller must be allowed on the
// Employees page.
func (x *Exporter) Employees(w io.Writer, role access.Role, employees []persistence.Employee) error {
	if err := x.policy.CheckPage(role, access.PageEmployees); err != nil {
		return err
	}

	rows := make([][]any, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, employeeRow(e))
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), EmployeesSheet); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}
	if err := writeTable(f, EmployeesSheet, employeeHeader, rows); err != nil {
		return err
	}
	return write(f, w)
}

// Attendance writes the records newest first with the employee name resolved,
// followed by a summary sheet of status counts.
func (x *Exporter) Attendance(w io.Writer, role access.Role, records []persistence.AttendanceRecord, employees []persistence.Employee) error {
	if err := x.policy.CheckPage(role, access.PageAttendance); err != nil {
		return err
	}

	names := make(map[string]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.Name
	}

	header := []any{"ID", "Employee ID", "Employee", "Date", "Check In", "Check Out", "Status", "Hours"}
	recent := query.Recent(records)
	rows := make([][]any, 0, len(recent))
	for _, r := range recent {
		rows = append(rows, []any{
			r.ID,
			r.EmployeeID,
			names[r.EmployeeID],
			r.Date.Format(persistence.DateLayout),
			r.CheckIn,
			r.CheckOut,
			string(r.Status),
			r.HoursWorked,
		})
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), AttendanceSheet); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}
	if err := writeTable(f, AttendanceSheet, header, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("export: add summary sheet: %w", err)
	}
	stats := query.Stats(records)
	summary := [][]any{
		{"Total", stats.Total},
		{string(persistence.AttendancePresent), stats.Present},
		{string(persistence.AttendanceLate), stats.Late},
		{string(persistence.AttendanceAbsent), stats.Absent},
		{string(persistence.AttendanceHalfDay), stats.HalfDay},
	}
	if err := writeTable(f, SummarySheet, []any{"Status", "Records"}, summary); err != nil {
		return err
	}
	return write(f, w)
}

func employeeRow(e persistence.Employee) []any {
	return []any{
		e.ID,
		e.Name,
		e.Email,
		string(e.Role),
		e.Department,
		e.Salary,
		string(e.Status),
		e.JoinDate.Format(persistence.DateLayout),
		e.Phone,
	}
}

func writeTable(f *excelize.File, sheet string, header []any, rows [][]any) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("export: %s header: %w", sheet, err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("export: %s header style: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("export: %s row %s: %w", sheet, strconv.Itoa(i+2), err)
		}
	}

	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", last, 16); err != nil {
		return fmt.Errorf("export: %s column width: %w", sheet, err)
	}
	return nil
}

func write(f *excelize.File, w io.Writer) error {
	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}
