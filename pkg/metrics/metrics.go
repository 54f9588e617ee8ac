// Package metrics provides Prometheus collectors for engine operations and
// external existence checks. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/agentstation/modelsync/pkg/errors"
	"github.com/agentstation/modelsync/pkg/lookup"
)

// Outcome labels for operations.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
	ResultFailed   = "failed" // Non-violation error, e.g. cancellation
)

// Metrics records engine and lookup activity.
type Metrics struct {
	// Operation outcomes by operation, model kind and result
	Operations *prometheus.CounterVec

	// Violations by operation, model kind and violation kind
	Violations *prometheus.CounterVec

	// Operation latency including the join of pending lookups
	OperationLatency *prometheus.HistogramVec

	// External existence checks by reference kind and outcome
	Lookups *prometheus.CounterVec

	// Latency of the checks that reached the gateway
	LookupLatency *prometheus.HistogramVec
}

// New creates a Metrics instance registered with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a Metrics instance registered with reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "modelsync_operations_total",
			Help: "Total engine operations by operation, model kind and result",
		}, []string{"operation", "model", "result"}), // operation: "validate", "merge", "update"

		Violations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "modelsync_violations_total",
			Help: "Total rejected operations by violation kind",
		}, []string{"operation", "model", "kind"}),

		OperationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "modelsync_operation_duration_seconds",
			Help:    "Duration of engine operations including pending lookups",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation", "model"}),

		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "modelsync_lookups_total",
			Help: "Total external existence checks by reference kind and outcome",
		}, []string{"kind", "outcome"}), // outcome: "found", "not_found", "error"

		LookupLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "modelsync_lookup_duration_seconds",
			Help:    "Duration of external existence checks by reference kind",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"kind"}),
	}
}

// ObserveOperation records the outcome of one engine operation.
// It satisfies validation.Observer.
func (m *Metrics) ObserveOperation(op, model string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := ResultAccepted
	if err != nil {
		result = ResultFailed
		if fe, ok := errors.AsFieldError(err); ok {
			result = ResultRejected
			m.Violations.WithLabelValues(op, model, string(fe.Kind)).Inc()
		}
	}
	m.Operations.WithLabelValues(op, model, result).Inc()
	m.OperationLatency.WithLabelValues(op, model).Observe(elapsed.Seconds())
}

// ObserveLookup records one external existence check.
// It satisfies lookup.Observer.
func (m *Metrics) ObserveLookup(kind lookup.Kind, outcome lookup.Outcome, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(string(kind), string(outcome)).Inc()
	m.LookupLatency.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}
