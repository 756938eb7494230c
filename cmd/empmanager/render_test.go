package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/example/empmanager/internal/persistence"
	"github.com/example/empmanager/internal/query"
)

func TestRenderEmployeesShowsEveryColumn(t *testing.T) {
	var out bytes.Buffer
	renderEmployees(&out, persistence.SeedEmployees())

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header and three rows, got:\n%s", out.String())
	}
	if got := strings.Fields(lines[0]); strings.Join(got, " ") != "ID NAME EMAIL ROLE DEPARTMENT SALARY STATUS JOINED PHONE" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	for _, want := range []string{"JD  John Doe", "$75,000", "+1 234-567-8901"} {
		if !strings.Contains(lines[1], want) {
			t.Fatalf("expected %q in %q", want, lines[1])
		}
	}
}

func TestRenderDashboardChartsSalaryInThousands(t *testing.T) {
	m := query.Dashboard(persistence.SeedEmployees(), persistence.SeedDepartments(), persistence.SeedAttendance())

	var out bytes.Buffer
	renderDashboard(&out, "Jane Smith", m)

	var itRow string
	for _, line := range strings.Split(out.String(), "\n") {
		if strings.HasPrefix(line, "IT ") {
			itRow = line
		}
	}
	if got := strings.Fields(itRow); strings.Join(got, " ") != "IT 15 500 75.0" {
		t.Fatalf("unexpected IT chart row %q in:\n%s", itRow, out.String())
	}
}
