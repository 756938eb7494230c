package query

import (
	"slices"
	"time"

	"github.com/example/empmanager/internal/persistence"
)

// AttendanceForDate returns the first record, in sequence order, for
// employeeID on date's calendar day.
func AttendanceForDate(records []persistence.AttendanceRecord, employeeID string, date time.Time) (persistence.AttendanceRecord, bool) {
	for _, r := range records {
		if r.EmployeeID == employeeID && persistence.SameDay(r.Date, date) {
			return r, true
		}
	}
	return persistence.AttendanceRecord{}, false
}

// AttendanceStats counts records per status over a whole collection.
type AttendanceStats struct {
	Total   int
	Present int
	Absent  int
	Late    int
	HalfDay int
}

// Stats tallies records by status.
func Stats(records []persistence.AttendanceRecord) AttendanceStats {
	stats := AttendanceStats{Total: len(records)}
	for _, r := range records {
		switch r.Status {
		case persistence.AttendancePresent:
			stats.Present++
		case persistence.AttendanceAbsent:
			stats.Absent++
		case persistence.AttendanceLate:
			stats.Late++
		case persistence.AttendanceHalfDay:
			stats.HalfDay++
		}
	}
	return stats
}

// DayCounts is the per-day summary shown in calendar cells.
type DayCounts struct {
	Present int
	Late    int
	Absent  int
}

// Empty reports whether no Present, Late, or Absent record fell on the day.
func (c DayCounts) Empty() bool {
	return c == DayCounts{}
}

// SummarizeDay counts Present, Late, and Absent records dated on date.
// Half Day records are not part of the summary.
func SummarizeDay(records []persistence.AttendanceRecord, date time.Time) DayCounts {
	var counts DayCounts
	for _, r := range records {
		if !persistence.SameDay(r.Date, date) {
			continue
		}
		switch r.Status {
		case persistence.AttendancePresent:
			counts.Present++
		case persistence.AttendanceLate:
			counts.Late++
		case persistence.AttendanceAbsent:
			counts.Absent++
		}
	}
	return counts
}

// CalendarDay is one cell of a month view.
type CalendarDay struct {
	Date    time.Time
	Counts  DayCounts
	IsToday bool
}

// MonthCalendar returns one entry per day of the given month, first to last.
// today marks the matching cell.
func MonthCalendar(records []persistence.AttendanceRecord, year int, month time.Month, today time.Time) []CalendarDay {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()

	days := make([]CalendarDay, 0, last)
	for d := 1; d <= last; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		days = append(days, CalendarDay{
			Date:    date,
			Counts:  SummarizeDay(records, date),
			IsToday: persistence.SameDay(date, today),
		})
	}
	return days
}

// Recent returns a newest-first copy of records.
func Recent(records []persistence.AttendanceRecord) []persistence.AttendanceRecord {
	reversed := slices.Clone(records)
	slices.Reverse(reversed)
	return reversed
}

// CheckInSlot pairs an employee with today's record, if one exists.
type CheckInSlot struct {
	Employee   persistence.Employee
	Record     persistence.AttendanceRecord
	CheckedIn  bool
	CheckedOut bool
}

// CheckInBoard lists the first limit employees with their record for today.
// A limit of zero or less includes every employee.
func CheckInBoard(employees []persistence.Employee, records []persistence.AttendanceRecord, today time.Time, limit int) []CheckInSlot {
	if limit <= 0 || limit > len(employees) {
		limit = len(employees)
	}
	board := make([]CheckInSlot, 0, limit)
	for _, e := range employees[:limit] {
		record, ok := AttendanceForDate(records, e.ID, today)
		board = append(board, CheckInSlot{
			Employee:   e,
			Record:     record,
			CheckedIn:  ok,
			CheckedOut: ok && record.CheckOut != "",
		})
	}
	return board
}

// Duplicate names an (employee, date) pair holding more than one record.
type Duplicate struct {
	EmployeeID string
	Date       time.Time
	RecordIDs  []string
}

// DuplicateAttendance reports every employee/day pair with more than one
// record, in order of first appearance. The store accepts such pairs; only
// check-in refuses to create them.
func DuplicateAttendance(records []persistence.AttendanceRecord) []Duplicate {
	type key struct {
		employeeID string
		date       time.Time
	}
	groups := make(map[key][]string)
	var order []key
	for _, r := range records {
		k := key{employeeID: r.EmployeeID, date: persistence.CalendarDate(r.Date)}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r.ID)
	}

	var duplicates []Duplicate
	for _, k := range order {
		if ids := groups[k]; len(ids) > 1 {
			duplicates = append(duplicates, Duplicate{EmployeeID: k.employeeID, Date: k.date, RecordIDs: ids})
		}
	}
	return duplicates
}
