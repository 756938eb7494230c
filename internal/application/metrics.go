package application

import (
	"github.com/example/empmanager/internal/access"
	"github.com/example/empmanager/internal/persistence"
)

// MetricsRecorder receives counters for completed operations. Implementations
// must be safe for concurrent use.
type MetricsRecorder interface {
	RecordMutation(entity access.Entity, action access.Action)
	RecordCheckIn(status persistence.AttendanceStatus)
	RecordDenied(entity access.Entity, action access.Action)
	RecordLogin(outcome string)
}

// Login outcomes passed to MetricsRecorder.RecordLogin.
const (
	LoginSucceeded  = "success"
	LoginFailed     = "failure"
	LoginRegistered = "registered"
)

type noopRecorder struct{}

func (noopRecorder) RecordMutation(access.Entity, access.Action) {}
func (noopRecorder) RecordCheckIn(persistence.AttendanceStatus)   {}
func (noopRecorder) RecordDenied(access.Entity, access.Action)   {}
func (noopRecorder) RecordLogin(string)                           {}

func defaultRecorder(recorder MetricsRecorder) MetricsRecorder {
	if recorder != nil {
		return recorder
	}
	return noopRecorder{}
}

// guard checks the policy for principal and records a refusal.
type guard struct {
	policy  *access.Policy
	metrics MetricsRecorder
}

func newGuard(policy *access.Policy, recorder MetricsRecorder) guard {
	if policy == nil {
		policy = access.DefaultPolicy()
	}
	return guard{policy: policy, metrics: defaultRecorder(recorder)}
}

func (g guard) check(principal Principal, entity access.Entity, action access.Action) error {
	if err := g.policy.CheckAction(principal.Role, entity, action); err != nil {
		g.metrics.RecordDenied(entity, action)
		return denied(err)
	}
	return nil
}

func (g guard) checkPage(principal Principal, page access.Page) error {
	if err := g.policy.CheckPage(principal.Role, page); err != nil {
		g.metrics.RecordDenied(access.Entity(page), access.ActionView)
		return denied(err)
	}
	return nil
}
