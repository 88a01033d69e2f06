// Copyright (C) 2025 Pulseboard Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the dashboard
// service: refresh outcomes and latency, rows loaded per refresh, and
// open-file attempts. Metrics are exposed on /metrics.
//
// All operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "pulseboard"

// DashboardMetrics holds the service's Prometheus collectors. Initialize
// once at startup via NewDashboardMetrics.
type DashboardMetrics struct {
	// RefreshesTotal counts refresh cycles by loader outcome
	// (ok, empty_input, input_missing, input_malformed).
	RefreshesTotal *prometheus.CounterVec

	// RefreshDurationSeconds measures end-to-end refresh latency.
	RefreshDurationSeconds prometheus.Histogram

	// RowsLoaded reports the unified row count of the last refresh.
	RowsLoaded prometheus.Gauge

	// OpenRequestsTotal counts open-file attempts by result
	// (opened, rejected, failed).
	OpenRequestsTotal *prometheus.CounterVec
}

// NewDashboardMetrics registers the collectors on reg. Passing nil yields
// unregistered collectors, which is what tests want.
func NewDashboardMetrics(reg prometheus.Registerer) *DashboardMetrics {
	factory := promauto.With(reg)
	return &DashboardMetrics{
		RefreshesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "refreshes_total",
			Help:      "Refresh cycles by loader outcome.",
		}, []string{"outcome"}),
		RefreshDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "refresh_duration_seconds",
			Help:      "End-to-end refresh latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		RowsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "rows_loaded",
			Help:      "Unified rows produced by the most recent refresh.",
		}),
		OpenRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "open_requests_total",
			Help:      "Open-file attempts by result.",
		}, []string{"result"}),
	}
}

// ObserveRefresh records one refresh cycle.
func (m *DashboardMetrics) ObserveRefresh(outcome string, rows int, seconds float64) {
	m.RefreshesTotal.WithLabelValues(outcome).Inc()
	m.RefreshDurationSeconds.Observe(seconds)
	m.RowsLoaded.Set(float64(rows))
}

// ObserveOpen records one open-file attempt.
func (m *DashboardMetrics) ObserveOpen(result string) {
	m.OpenRequestsTotal.WithLabelValues(result).Inc()
}
