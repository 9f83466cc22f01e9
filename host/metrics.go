// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Call outcomes recorded by Metrics
const (
	statusOK       = "ok"
	statusReverted = "reverted"
)

// Metrics counts precompile calls and the gas they burn, per precompile
// config key.
type Metrics struct {
	Calls      *prometheus.CounterVec
	GasUsed    *prometheus.HistogramVec
	Configured *prometheus.CounterVec
}

// NewMetrics registers the executor metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Calls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taxledger_precompile_calls_total",
				Help: "Total number of precompile calls",
			},
			[]string{"precompile", "status"},
		),
		GasUsed: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taxledger_precompile_gas_used",
				Help:    "Gas charged by successful precompile calls",
				Buckets: prometheus.ExponentialBuckets(100, 2, 14), // 100 to ~820k
			},
			[]string{"precompile"},
		),
		Configured: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taxledger_precompile_configured_total",
				Help: "Total number of precompile activations",
			},
			[]string{"precompile", "status"},
		),
	}
}

func (m *Metrics) observeCall(precompile string, gasUsed uint64, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.Calls.WithLabelValues(precompile, statusReverted).Inc()
		return
	}
	m.Calls.WithLabelValues(precompile, statusOK).Inc()
	m.GasUsed.WithLabelValues(precompile).Observe(float64(gasUsed))
}

func (m *Metrics) observeConfigure(precompile string, err error) {
	if m == nil {
		return
	}
	status := statusOK
	if err != nil {
		status = statusReverted
	}
	m.Configured.WithLabelValues(precompile, status).Inc()
}
