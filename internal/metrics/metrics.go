// SPDX-License-Identifier: MIT

// Package metrics holds the Prometheus collectors of the rankreduce service.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/katalvlaran/rankreduce/rankreduce"
)

// Registry groups the collectors on a private prometheus.Registry, so that
// several servers (or tests) never collide on the default registerer.
type Registry struct {
	reg *prometheus.Registry

	// Decompositions counts finished decompositions by algorithm and classification.
	Decompositions *prometheus.CounterVec
	// Failures counts rejected decompositions by algorithm and reason.
	Failures *prometheus.CounterVec
	// Duration observes Create wall time in seconds.
	Duration *prometheus.HistogramVec
	// Residual observes ‖B·Bᵀ − C‖²_F.
	Residual *prometheus.HistogramVec
	// Iterations observes EZI refits and SAP optimizer iterations.
	Iterations *prometheus.HistogramVec
	// Requests counts HTTP requests by route and status code.
	Requests *prometheus.CounterVec
	// RateLimited counts requests refused by the rate limiter.
	RateLimited prometheus.Counter
	// InFlight is the number of decompositions running right now.
	InFlight prometheus.Gauge
}

// NewRegistry creates and registers every collector.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		Decompositions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rankreduce_decompositions_total",
				Help: "Finished decompositions by algorithm and classification",
			},
			[]string{"algorithm", "classification"},
		),

		Failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rankreduce_failures_total",
				Help: "Decompositions that returned an error, by algorithm and reason",
			},
			[]string{"algorithm", "reason"},
		),

		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rankreduce_duration_seconds",
				Help:    "Wall time of one decomposition in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
			[]string{"algorithm"},
		),

		Residual: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rankreduce_residual",
				Help:    "Squared Frobenius residual of B·Bᵀ against the input",
				Buckets: prometheus.ExponentialBuckets(1e-10, 10, 12),
			},
			[]string{"algorithm"},
		),

		Iterations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rankreduce_iterations",
				Help:    "Refits (EZI) or optimizer major iterations (SAP) per decomposition",
				Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 500, 1000, 5000},
			},
			[]string{"algorithm"},
		),

		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rankreduce_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),

		RateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "rankreduce_http_rate_limited_total",
				Help: "HTTP requests refused by the rate limiter",
			},
		),

		InFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "rankreduce_in_flight",
				Help: "Decompositions currently running",
			},
		),
	}
	r.reg.MustRegister(
		r.Decompositions, r.Failures, r.Duration, r.Residual,
		r.Iterations, r.Requests, r.RateLimited, r.InFlight,
	)

	return r
}

// Gatherer exposes the underlying registry, mostly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// ObserveDecomposition records one Create call. err is the call's error.
func (r *Registry) ObserveDecomposition(kind rankreduce.Kind, st rankreduce.State, elapsed time.Duration, err error) {
	algo := kind.String()
	if err != nil {
		r.Failures.WithLabelValues(algo, failureReason(err)).Inc()
		return
	}
	r.Decompositions.WithLabelValues(algo, st.Classification.String()).Inc()
	r.Duration.WithLabelValues(algo).Observe(elapsed.Seconds())
	r.Residual.WithLabelValues(algo).Observe(st.Residual)
	r.Iterations.WithLabelValues(algo).Observe(float64(st.Iterations))
}

// ObserveRequest records one HTTP response.
func (r *Registry) ObserveRequest(route string, code int) {
	r.Requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, rankreduce.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, rankreduce.ErrNumericalFailure):
		return "numerical_failure"
	default:
		return "other"
	}
}
