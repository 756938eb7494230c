package application

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/example/empmanager/internal/access"
	"github.com/example/empmanager/internal/persistence"
	"github.com/example/empmanager/internal/persistence/memory"
)

var (
	adminPrincipal    = Principal{UserID: "admin", Name: "Admin User", Role: access.RoleAdmin}
	hrPrincipal       = Principal{UserID: "2", Name: "Jane Smith", Role: access.RoleHR}
	employeePrincipal = Principal{UserID: "1", Name: "John Doe", Role: access.RoleEmployee}
)

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.New()
	if err := persistence.Seed(context.Background(), store); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return store
}

func sequentialIDs(start int) func() string {
	var mu sync.Mutex
	next := start
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		id := fmt.Sprintf("%d", next)
		next++
		return id
	}
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func ptr[T any](v T) *T {
	return &v
}

type recorderStub struct {
	mu        sync.Mutex
	mutations []string
	checkIns  []persistence.AttendanceStatus
	denied    []string
	logins    []string
}

func (r *recorderStub) RecordMutation(entity access.Entity, action access.Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutations = append(r.mutations, string(entity)+":"+string(action))
}

func (r *recorderStub) RecordCheckIn(status persistence.AttendanceStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkIns = append(r.checkIns, status)
}

func (r *recorderStub) RecordDenied(entity access.Entity, action access.Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.denied = append(r.denied, string(entity)+":"+string(action))
}

func (r *recorderStub) RecordLogin(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logins = append(r.logins, outcome)
}
