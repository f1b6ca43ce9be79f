// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the engine. A nil *Metrics is
// valid and disables recording, so components never need to guard.
type Metrics struct {
	// Source metrics
	SourceRequests     *prometheus.CounterVec
	SourceErrors       *prometheus.CounterVec
	SourceCallDuration *prometheus.HistogramVec

	// Resolution metrics
	ResolutionFallbacks prometheus.Counter
	TokensSkipped       prometheus.Counter

	// Facade metrics
	AnalysesTotal *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance registered against reg. Pass
// prometheus.DefaultRegisterer in production; tests use a fresh
// prometheus.NewRegistry to avoid duplicate registration.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "market_engine"
	}
	factory := promauto.With(reg)

	return &Metrics{
		SourceRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "requests_total",
			Help:      "Total number of upstream source calls by source and operation",
		}, []string{"source", "operation"}),
		SourceErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "errors_total",
			Help:      "Total number of failed upstream source calls by error kind",
		}, []string{"source", "operation", "kind"}),
		SourceCallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "call_duration_seconds",
			Help:      "Upstream source call latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source", "operation"}),
		ResolutionFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "fallbacks_total",
			Help:      "Total number of times a source failed and the next one was tried",
		}),
		TokensSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trending",
			Name:      "tokens_skipped_total",
			Help:      "Total number of trending pairs dropped because resolution failed",
		}),
		AnalysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "facade",
			Name:      "analyses_total",
			Help:      "Total number of facade operations by kind and outcome",
		}, []string{"operation", "outcome"}),
	}
}

// ObserveSourceCall records one upstream call.
func (m *Metrics) ObserveSourceCall(source, operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.SourceRequests.WithLabelValues(source, operation).Inc()
	m.SourceCallDuration.WithLabelValues(source, operation).Observe(d.Seconds())
	if err != nil {
		m.SourceErrors.WithLabelValues(source, operation, errorKind(err)).Inc()
	}
}

// RecordFallback records that a source failed and resolution moved on.
func (m *Metrics) RecordFallback() {
	if m == nil {
		return
	}
	m.ResolutionFallbacks.Inc()
}

// RecordSkippedToken records a trending pair dropped after resolution failed.
func (m *Metrics) RecordSkippedToken() {
	if m == nil {
		return
	}
	m.TokensSkipped.Inc()
}

// RecordAnalysis records one facade operation.
func (m *Metrics) RecordAnalysis(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.AnalysesTotal.WithLabelValues(operation, outcome).Inc()
}

// ErrorKinder lets error producers report a metric label for their sentinel
// kind without this package importing them.
type ErrorKinder interface {
	ErrorKind() string
}

func errorKind(err error) string {
	var ek ErrorKinder
	if errors.As(err, &ek) {
		return ek.ErrorKind()
	}
	return "other"
}
