package lookup

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agentstation/modelsync/pkg/errors"
)

var tracer = otel.Tracer("modelsync.lookup")

// Trace wraps a gateway so every check runs inside a lookup.CheckExists span.
// Misses are recorded as a span attribute, not as span errors.
func Trace(next Gateway) Gateway {
	return GatewayFunc(func(ctx context.Context, kind Kind, id string) (*Reference, error) {
		ctx, span := tracer.Start(ctx, "lookup.CheckExists",
			trace.WithAttributes(
				attribute.String("lookup.kind", string(kind)),
				attribute.String("lookup.id", id),
			),
		)
		defer span.End()

		ref, err := next.CheckExists(ctx, kind, id)
		switch {
		case err == nil:
			span.SetAttributes(attribute.Bool("lookup.found", true))
		case errors.IsNotFound(err):
			span.SetAttributes(attribute.Bool("lookup.found", false))
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return ref, err
	})
}

// Outcome classifies the answer of a single check.
type Outcome string

// Check outcomes.
const (
	OutcomeFound    Outcome = "found"
	OutcomeNotFound Outcome = "not_found"
	OutcomeError    Outcome = "error"
)

// OutcomeOf classifies a gateway error.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeFound
	case errors.IsNotFound(err):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}

// Observer receives one report per check that reached the wrapped gateway.
type Observer interface {
	ObserveLookup(kind Kind, outcome Outcome, elapsed time.Duration)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(kind Kind, outcome Outcome, elapsed time.Duration)

// ObserveLookup calls f(kind, outcome, elapsed).
func (f ObserverFunc) ObserveLookup(kind Kind, outcome Outcome, elapsed time.Duration) {
	f(kind, outcome, elapsed)
}

// Observe wraps a gateway and reports every check to o. A nil observer
// returns next unchanged.
func Observe(next Gateway, o Observer) Gateway {
	if o == nil {
		return next
	}
	return GatewayFunc(func(ctx context.Context, kind Kind, id string) (*Reference, error) {
		start := time.Now()
		ref, err := next.CheckExists(ctx, kind, id)
		o.ObserveLookup(kind, OutcomeOf(err), time.Since(start))
		return ref, err
	})
}
