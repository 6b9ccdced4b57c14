// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "updoot"

// VoteMetrics instruments the vote ledger.
//
//   - Transitions counts committed votes by ledger action (insert, update,
//     delete).
//   - Failures counts rolled back vote transactions.
//   - TxDuration is the wall time of each vote transaction, committed or not.
type VoteMetrics struct {
	Transitions *prometheus.CounterVec
	Failures    prometheus.Counter
	TxDuration  prometheus.Histogram
}

// NewVoteMetrics registers the ledger metrics on reg. Pass a fresh
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewVoteMetrics(reg prometheus.Registerer) *VoteMetrics {
	factory := promauto.With(reg)
	return &VoteMetrics{
		Transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "transitions_total",
				Help:      "Total number of committed votes by ledger action",
			},
			[]string{"action"},
		),
		Failures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "failures_total",
				Help:      "Total number of vote transactions rolled back",
			},
		),
		TxDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "tx_duration_seconds",
				Help:      "Histogram of vote transaction durations",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
			},
		),
	}
}

// Committed records a committed vote. Safe to call on a nil receiver.
func (m *VoteMetrics) Committed(action string, took time.Duration) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(action).Inc()
	m.TxDuration.Observe(took.Seconds())
}

// RolledBack records an aborted vote. Safe to call on a nil receiver.
func (m *VoteMetrics) RolledBack(took time.Duration) {
	if m == nil {
		return
	}
	m.Failures.Inc()
	m.TxDuration.Observe(took.Seconds())
}
