// Package metrics exposes Prometheus counters for the access gate.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gatekeeper"

// Metrics holds the collectors registered for the service.
type Metrics struct {
	Verifications *prometheus.CounterVec // by outcome reason, "ok" on success
	Redemptions   *prometheus.CounterVec // by outcome reason, "created" or "existing" on success
	AccessChecks  *prometheus.CounterVec // by result and source
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "code_verifications_total",
			Help:      "Invite code verification attempts by outcome.",
		}, []string{"outcome"}),
		Redemptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "code_redemptions_total",
			Help:      "Invite code redemption attempts by outcome.",
		}, []string{"outcome"}),
		AccessChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_checks_total",
			Help:      "Inner tier access decisions by result and credential source.",
		}, []string{"result", "source"}),
	}

	for _, c := range []prometheus.Collector{m.Verifications, m.Redemptions, m.AccessChecks} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) RecordVerification(outcome string) {
	if m == nil {
		return
	}
	m.Verifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordRedemption(outcome string) {
	if m == nil {
		return
	}
	m.Redemptions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordAccess(granted bool, source string) {
	if m == nil {
		return
	}
	result := "denied"
	if granted {
		result = "granted"
	}
	if source == "" {
		source = "none"
	}
	m.AccessChecks.WithLabelValues(result, source).Inc()
}
