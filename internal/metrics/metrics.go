// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bioroute"

// Metrics groups the collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	calculations        *prometheus.CounterVec
	calculationDuration prometheus.Histogram
	routeNodes          prometheus.Histogram
	catalogReloads      *prometheus.CounterVec
	catalogVersion      *prometheus.GaugeVec
	scenarios           *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry
// together with the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		calculations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "calculations_total",
				Help:      "Route calculations by outcome (ok or the engine error kind).",
			},
			[]string{"outcome"},
		),
		calculationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "calculation_duration_seconds",
				Help:      "Time spent evaluating a route.",
				Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
			},
		),
		routeNodes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "route_nodes",
				Help:      "Number of nodes in calculated routes.",
				Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128, 256, 512},
			},
		),
		catalogReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_reloads_total",
				Help:      "Catalog reload attempts by result.",
			},
			[]string{"result"},
		),
		catalogVersion: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "catalog_info",
				Help:      "Active catalog version; the value is the technology count.",
			},
			[]string{"version"},
		),
		scenarios: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scenario_operations_total",
				Help:      "Scenario store operations by kind.",
			},
			[]string{"operation"},
		),
	}

	m.registry.MustRegister(
		m.calculations,
		m.calculationDuration,
		m.routeNodes,
		m.catalogReloads,
		m.catalogVersion,
		m.scenarios,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCalculation records one calculation. outcome is "ok" or an error kind.
func (m *Metrics) ObserveCalculation(outcome string, nodes int, d time.Duration) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues(outcome).Inc()
	m.calculationDuration.Observe(d.Seconds())
	m.routeNodes.Observe(float64(nodes))
}

// ObserveCatalog records a catalog load or reload attempt
func (m *Metrics) ObserveCatalog(version string, technologies int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.catalogReloads.WithLabelValues("error").Inc()
		return
	}
	m.catalogReloads.WithLabelValues("ok").Inc()
	m.catalogVersion.Reset()
	m.catalogVersion.WithLabelValues(version).Set(float64(technologies))
}

// ObserveScenario counts a scenario store operation
func (m *Metrics) ObserveScenario(operation string) {
	if m == nil {
		return
	}
	m.scenarios.WithLabelValues(operation).Inc()
}
