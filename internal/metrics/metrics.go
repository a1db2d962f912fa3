// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics holds the Prometheus collectors for the fetch pipeline
// and the web UI. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Fetch outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeFailure = "failure"
	OutcomeInvalid = "invalid"
)

// Metrics groups the collectors.
type Metrics struct {
	fetches         *prometheus.CounterVec
	fetchDuration   prometheus.Histogram
	detailFallbacks prometheus.Counter
	staleDiscarded  prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rejected_theories",
			Name:      "fetches_total",
			Help:      "Submitted year lookups by outcome.",
		}, []string{"outcome"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rejected_theories",
			Name:      "fetch_duration_seconds",
			Help:      "Time spent on the search call plus all extract calls.",
			Buckets:   prometheus.DefBuckets,
		}),
		detailFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rejected_theories",
			Name:      "detail_fallbacks_total",
			Help:      "Extract fetches replaced by placeholder content.",
		}),
		staleDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rejected_theories",
			Name:      "stale_results_discarded_total",
			Help:      "Fetch results dropped because a newer submit superseded them.",
		}),
	}
	reg.MustRegister(m.fetches, m.fetchDuration, m.detailFallbacks, m.staleDiscarded)
	return m
}

// ObserveFetch records one lookup and how long it took.
func (m *Metrics) ObserveFetch(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(outcome).Inc()
	if outcome != OutcomeInvalid {
		m.fetchDuration.Observe(d.Seconds())
	}
}

// DetailFallback records one placeholder substitution.
func (m *Metrics) DetailFallback() {
	if m == nil {
		return
	}
	m.detailFallbacks.Inc()
}

// StaleDiscarded records one superseded fetch.
func (m *Metrics) StaleDiscarded() {
	if m == nil {
		return
	}
	m.staleDiscarded.Inc()
}
