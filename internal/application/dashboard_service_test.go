package application

import (
	"context"
	"errors"
	"testing"
)

func TestDashboardService_AllRolesSeeSeedFigures(t *testing.T) {
	store := seededStore(t)
	svc := NewDashboardService(store, store, store)

	for _, principal := range []Principal{adminPrincipal, hrPrincipal, employeePrincipal} {
		metrics, err := svc.Dashboard(context.Background(), principal)
		if err != nil {
			t.Fatalf("Dashboard(%s) returned error: %v", principal.Role, err)
		}
		if metrics.TotalEmployees != 3 || metrics.ActiveEmployees != 3 {
			t.Fatalf("unexpected employee totals: %+v", metrics)
		}
		if metrics.TotalDepartments != 5 {
			t.Fatalf("expected 5 departments, got %d", metrics.TotalDepartments)
		}
		if metrics.AverageSalary != 70000 {
			t.Fatalf("expected average salary 70000, got %v", metrics.AverageSalary)
		}
		if metrics.PresentCount != 1 || metrics.AttendanceRate != 50 {
			t.Fatalf("unexpected attendance figures: %+v", metrics)
		}
	}
}

func TestDashboardService_AnonymousDenied(t *testing.T) {
	store := seededStore(t)
	recorder := &recorderStub{}
	svc := NewDashboardService(store, store, store).UseMetrics(recorder)

	_, err := svc.Dashboard(context.Background(), Principal{})
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	if len(recorder.denied) != 1 || recorder.denied[0] != "Dashboard:view" {
		t.Fatalf("expected one recorded page denial, got %v", recorder.denied)
	}
}
