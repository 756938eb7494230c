package application

import (
	"context"
	"errors"
	"testing"
)

func TestDepartmentService_ManagementIsAdminOnly(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	svc := NewDepartmentService(store, store, sequentialIDs(10))
	input := DepartmentInput{Name: "Legal", Budget: 150000, EmployeeCount: 3, AverageSalary: 90000}

	if _, err := svc.AddDepartment(ctx, hrPrincipal, input); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected HR to be denied, got %v", err)
	}
	if _, err := svc.UpdateDepartment(ctx, hrPrincipal, "1", DepartmentPatch{Budget: ptr(1.0)}); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected HR update to be denied, got %v", err)
	}
	if err := svc.DeleteDepartment(ctx, hrPrincipal, "1"); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected HR delete to be denied, got %v", err)
	}

	views, err := svc.ListDepartments(ctx, hrPrincipal)
	if err != nil {
		t.Fatalf("HR should list departments, got %v", err)
	}
	if len(views) != 5 {
		t.Fatalf("expected 5 departments, got %d", len(views))
	}

	if _, err := svc.ListDepartments(ctx, employeePrincipal); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected Employee role to be denied, got %v", err)
	}
}

func TestDepartmentService_CRUD(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	svc := NewDepartmentService(store, store, sequentialIDs(10))

	added, err := svc.AddDepartment(ctx, adminPrincipal, DepartmentInput{Name: " Legal ", Budget: 150000, EmployeeCount: 3, AverageSalary: 90000})
	if err != nil {
		t.Fatalf("AddDepartment returned error: %v", err)
	}
	if added.ID != "10" || added.Name != "Legal" {
		t.Fatalf("unexpected department %#v", added)
	}

	updated, err := svc.UpdateDepartment(ctx, adminPrincipal, "10", DepartmentPatch{EmployeeCount: ptr(4)})
	if err != nil {
		t.Fatalf("UpdateDepartment returned error: %v", err)
	}
	if updated.EmployeeCount != 4 || updated.Budget != 150000 || updated.Name != "Legal" {
		t.Fatalf("patch must only change employee count, got %#v", updated)
	}

	if _, err := svc.UpdateDepartment(ctx, adminPrincipal, "missing", DepartmentPatch{Name: ptr("x")}); err != nil {
		t.Fatalf("absent id update should be a no-op, got %v", err)
	}

	if err := svc.DeleteDepartment(ctx, adminPrincipal, "10"); err != nil {
		t.Fatalf("DeleteDepartment returned error: %v", err)
	}
	if err := svc.DeleteDepartment(ctx, adminPrincipal, "10"); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
	if _, err := svc.GetDepartment(ctx, adminPrincipal, "10"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDepartmentService_Validation(t *testing.T) {
	store := seededStore(t)
	svc := NewDepartmentService(store, store, sequentialIDs(10))

	_, err := svc.AddDepartment(context.Background(), adminPrincipal, DepartmentInput{Name: "", Budget: -1, EmployeeCount: -2, AverageSalary: -3})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(vErr.FieldErrors) != 4 {
		t.Fatalf("expected four field errors, got %v", vErr.FieldErrors)
	}

	departments, _ := store.ListDepartments(context.Background())
	if len(departments) != 5 {
		t.Fatalf("store must be unchanged, got %d departments", len(departments))
	}
}

func TestDepartmentService_ViewsCarryDerivedFigures(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	svc := NewDepartmentService(store, store, nil)

	view, err := svc.GetDepartment(ctx, adminPrincipal, "1")
	if err != nil {
		t.Fatalf("GetDepartment returned error: %v", err)
	}

	if view.Utilization.Text() != "225.0%" || view.Utilization.BarWidth != 100 {
		t.Fatalf("unexpected utilization %+v", view.Utilization)
	}
	if view.EmployeeCount != 15 {
		t.Fatalf("manual employee count must be kept, got %d", view.EmployeeCount)
	}
	if view.Headcount.Employees != 1 || view.Headcount.AverageSalary != 75000 {
		t.Fatalf("unexpected live headcount %+v", view.Headcount)
	}
}
