// Package metrics counts record mutations, check-ins, access denials, and
// logins with prometheus counters on a private registry.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/example/empmanager/internal/access"
	"github.com/example/empmanager/internal/application"
	"github.com/example/empmanager/internal/persistence"
)

const namespace = "empmanager"

// Recorder implements application.MetricsRecorder.
type Recorder struct {
	registry  *prometheus.Registry
	mutations *prometheus.CounterVec
	checkIns  *prometheus.CounterVec
	denials   *prometheus.CounterVec
	logins    *prometheus.CounterVec
}

var _ application.MetricsRecorder = (*Recorder)(nil)

// New registers the counters on a fresh registry.
func New() (*Recorder, error) {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Successful store mutations by entity and action.",
		}, []string{"entity", "action"}),
		checkIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "check_ins_total",
			Help:      "Check-ins by resulting attendance status.",
		}, []string{"status"}),
		denials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_denied_total",
			Help:      "Operations refused by the access policy.",
		}, []string{"entity", "action"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login and registration attempts by outcome.",
		}, []string{"outcome"}),
	}

	for _, c := range []prometheus.Collector{r.mutations, r.checkIns, r.denials, r.logins} {
		if err := r.registry.Register(c); err != nil {
			return nil, fmt.Errorf("metrics: register collector: %w", err)
		}
	}
	return r, nil
}

// Registry exposes the registry holding the counters.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordMutation counts a successful create, update, delete, or check-out.
func (r *Recorder) RecordMutation(entity access.Entity, action access.Action) {
	r.mutations.WithLabelValues(string(entity), string(action)).Inc()
}

// RecordCheckIn counts a check-in with its status.
func (r *Recorder) RecordCheckIn(status persistence.AttendanceStatus) {
	r.checkIns.WithLabelValues(string(status)).Inc()
}

// RecordDenied counts a refused operation.
func (r *Recorder) RecordDenied(entity access.Entity, action access.Action) {
	r.denials.WithLabelValues(string(entity), string(action)).Inc()
}

// RecordLogin counts a login or registration outcome.
func (r *Recorder) RecordLogin(outcome string) {
	r.logins.WithLabelValues(outcome).Inc()
}

// Sample is one counter value with its labels rendered as k="v" pairs.
type Sample struct {
	Name   string
	Labels string
	Value  float64
}

// String renders the sample in exposition style.
func (s Sample) String() string {
	if s.Labels == "" {
		return fmt.Sprintf("%s %g", s.Name, s.Value)
	}
	return fmt.Sprintf("%s{%s} %g", s.Name, s.Labels, s.Value)
}

// Snapshot gathers every counter that has been incremented, sorted by name
// then labels.
func (r *Recorder) Snapshot() ([]Sample, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("metrics: gather: %w", err)
	}

	var samples []Sample
	for _, family := range families {
		for _, m := range family.GetMetric() {
			pairs := make([]string, 0, len(m.GetLabel()))
			for _, label := range m.GetLabel() {
				pairs = append(pairs, fmt.Sprintf("%s=%q", label.GetName(), label.GetValue()))
			}
			samples = append(samples, Sample{
				Name:   family.GetName(),
				Labels: strings.Join(pairs, ","),
				Value:  m.GetCounter().GetValue(),
			})
		}
	}

	sort.Slice(samples, func(i, j int) bool {
		if samples[i].Name != samples[j].Name {
			return samples[i].Name < samples[j].Name
		}
		return samples[i].Labels < samples[j].Labels
	})
	return samples, nil
}

// WriteText writes the snapshot to w, one sample per line.
func (r *Recorder) WriteText(w io.Writer) error {
	samples, err := r.Snapshot()
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		_, err = fmt.Fprintln(w, "no activity recorded")
		return err
	}
	for _, s := range samples {
		if _, err := fmt.Fprintln(w, s.String()); err != nil {
			return err
		}
	}
	return nil
}
