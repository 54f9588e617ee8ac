package modelsync

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/modelsync/pkg/constants"
	"github.com/agentstation/modelsync/pkg/errors"
	"github.com/agentstation/modelsync/pkg/lookup"
	"github.com/agentstation/modelsync/pkg/metrics"
)

// Option is a function that configures a Client.
type Option func(*options) error

// options holds the Client configuration.
type options struct {
	gateway              lookup.Gateway     // answers existence checks
	ids                  lookup.IDGenerator // mints element identities
	maxConcurrentLookups int                // checks in flight per call
	lookupTimeout        time.Duration      // bound on a single check
	tracing              bool               // wrap checks in spans
	metrics              *metrics.Metrics   // nil disables metrics
	logger               *zerolog.Logger    // nil uses the context logger
}

// defaults returns the default Client configuration.
func defaults() *options {
	return &options{
		ids:                  lookup.UUIDs,
		maxConcurrentLookups: constants.MaxConcurrentLookups,
		lookupTimeout:        constants.DefaultLookupTimeout,
	}
}

// apply applies the given options in order and stops at the first error.
func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithGateway configures the gateway that answers existence checks.
func WithGateway(gw lookup.Gateway) Option {
	return func(o *options) error {
		if gw == nil {
			return errors.NewConfigError("gateway", "gateway cannot be nil", nil)
		}
		o.gateway = gw
		return nil
	}
}

// WithIDGenerator configures how identities of new collection elements are minted.
func WithIDGenerator(ids lookup.IDGenerator) Option {
	return func(o *options) error {
		if ids == nil {
			return errors.NewConfigError("ids", "id generator cannot be nil", nil)
		}
		o.ids = ids
		return nil
	}
}

// WithMaxConcurrentLookups bounds how many existence checks run at once per call.
func WithMaxConcurrentLookups(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return errors.NewConfigError("lookups", "max concurrent lookups must be positive", nil)
		}
		o.maxConcurrentLookups = n
		return nil
	}
}

// WithLookupTimeout bounds each existence check. Zero disables the bound.
func WithLookupTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.NewConfigError("lookups", "lookup timeout cannot be negative", nil)
		}
		o.lookupTimeout = d
		return nil
	}
}

// WithTracing configures whether existence checks are wrapped in OpenTelemetry spans.
func WithTracing(enabled bool) Option {
	return func(o *options) error {
		o.tracing = enabled
		return nil
	}
}

// WithMetrics configures the collectors operations and checks are reported to.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) error {
		o.metrics = m
		return nil
	}
}

// WithLogger configures the logger attached to every call.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}
