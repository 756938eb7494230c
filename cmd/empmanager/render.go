package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/example/empmanager/internal/application"
	"github.com/example/empmanager/internal/persistence"
	"github.com/example/empmanager/internal/query"
)

var numbers = message.NewPrinter(language.English)

const barCells = 20

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatMoney(v float64) string {
	return numbers.Sprintf("$%.0f", v)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(persistence.DateLayout)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// utilizationBar draws BarWidth (0-100) as a fixed-width gauge.
func utilizationBar(u query.BudgetUtilization) string {
	filled := int(u.BarWidth * barCells / 100)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", barCells-filled) + "]"
}

type employeeColumn struct {
	header string
	value  func(persistence.Employee) string
}

var employeeColumns = []employeeColumn{
	{"NAME", func(e persistence.Employee) string { return query.Initials(e.Name) + "  " + e.Name }},
	{"EMAIL", func(e persistence.Employee) string { return e.Email }},
	{"ROLE", func(e persistence.Employee) string { return string(e.Role) }},
	{"DEPARTMENT", func(e persistence.Employee) string { return e.Department }},
	{"SALARY", func(e persistence.Employee) string { return formatMoney(e.Salary) }},
	{"STATUS", func(e persistence.Employee) string { return string(e.Status) }},
	{"JOINED", func(e persistence.Employee) string { return formatDate(e.JoinDate) }},
	{"PHONE", func(e persistence.Employee) string { return orDash(e.Phone) }},
}

func renderEmployees(out io.Writer, employees []persistence.Employee) {
	w := newTable(out)

	headers := []string{"ID"}
	for _, col := range employeeColumns {
		headers = append(headers, col.header)
	}
	fmt.Fprintln(w, strings.Join(headers, "\t"))

	for _, e := range employees {
		cells := []string{e.ID}
		for _, col := range employeeColumns {
			cells = append(cells, col.value(e))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	_ = w.Flush()
}

func renderEmployee(out io.Writer, e persistence.Employee) {
	w := newTable(out)
	fmt.Fprintf(w, "ID\t%s\n", e.ID)
	for _, col := range employeeColumns {
		fmt.Fprintf(w, "%s\t%s\n", col.header, col.value(e))
	}
	_ = w.Flush()
}

func renderDepartments(out io.Writer, views []application.DepartmentView) {
	w := newTable(out)
	fmt.Fprintln(w, "ID\tNAME\tBUDGET\tEMPLOYEES\tAVG SALARY\tLIVE HEADCOUNT\tUTILIZATION\t")
	for _, v := range views {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%d (%s avg)\t%s %s\t\n",
			v.ID,
			v.Name,
			formatMoney(v.Budget),
			v.EmployeeCount,
			formatMoney(v.AverageSalary),
			v.Headcount.Employees,
			formatMoney(v.Headcount.AverageSalary),
			v.Utilization.Text(),
			utilizationBar(v.Utilization),
		)
	}
	_ = w.Flush()
}

func renderAttendance(out io.Writer, records []persistence.AttendanceRecord, names map[string]string) {
	w := newTable(out)
	fmt.Fprintln(w, "ID\tEMPLOYEE\tDATE\tCHECK IN\tCHECK OUT\tSTATUS\tHOURS")
	for _, r := range records {
		name := names[r.EmployeeID]
		if name == "" {
			name = "Unknown (" + r.EmployeeID + ")"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%.2f\n",
			r.ID, name, formatDate(r.Date), orDash(r.CheckIn), orDash(r.CheckOut), r.Status, r.HoursWorked)
	}
	_ = w.Flush()
}

// renderCalendar lists the days of the month that have records; today is
// marked with an asterisk.
func renderCalendar(out io.Writer, year int, month time.Month, days []query.CalendarDay) {
	fmt.Fprintf(out, "%s %d\n", month, year)

	w := newTable(out)
	fmt.Fprintln(w, "DATE\tPRESENT\tLATE\tABSENT")
	shown := 0
	for _, day := range days {
		if day.Counts.Empty() && !day.IsToday {
			continue
		}
		marker := ""
		if day.IsToday {
			marker = " *"
		}
		fmt.Fprintf(w, "%s%s\t%d\t%d\t%d\n", formatDate(day.Date), marker, day.Counts.Present, day.Counts.Late, day.Counts.Absent)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(w, "no records this month\t\t\t")
	}
	_ = w.Flush()
}

func renderCheckInBoard(out io.Writer, board []query.CheckInSlot) {
	if len(board) == 0 {
		fmt.Fprintln(out, "No employees.")
		return
	}
	w := newTable(out)
	fmt.Fprintln(w, "ID\tNAME\tDEPARTMENT\tTODAY")
	for _, slot := range board {
		state := "not checked in"
		switch {
		case slot.CheckedOut:
			state = fmt.Sprintf("out at %s (%.2f h)", slot.Record.CheckOut, slot.Record.HoursWorked)
		case slot.CheckedIn:
			state = fmt.Sprintf("in at %s (%s)", slot.Record.CheckIn, slot.Record.Status)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", slot.Employee.ID, slot.Employee.Name, slot.Employee.Department, state)
	}
	_ = w.Flush()
}

func renderDashboard(out io.Writer, name string, m query.DashboardMetrics) {
	fmt.Fprintf(out, "Welcome back, %s!\n\n", name)

	w := newTable(out)
	fmt.Fprintf(w, "Total employees\t%d (%d active, %d inactive)\n", m.TotalEmployees, m.ActiveEmployees, m.InactiveEmployees)
	fmt.Fprintf(w, "Departments\t%d\n", m.TotalDepartments)
	fmt.Fprintf(w, "Average salary\t%s\n", formatMoney(m.AverageSalary))
	fmt.Fprintf(w, "Present records\t%d (%.1f%% attendance)\n", m.PresentCount, m.AttendanceRate)
	_ = w.Flush()

	if len(m.Departments) == 0 {
		return
	}
	fmt.Fprintln(out)
	w = newTable(out)
	fmt.Fprintln(w, "DEPARTMENT\tEMPLOYEES\tBUDGET (K)\tAVG SALARY (K)")
	for _, row := range m.Departments {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", row.Name, row.Employees,
			numbers.Sprintf("%.0f", row.BudgetK), numbers.Sprintf("%.1f", row.AverageSalaryK))
	}
	_ = w.Flush()
}
