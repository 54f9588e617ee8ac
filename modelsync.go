// Package modelsync provides the main entry point for the model
// reconciliation engine. It validates domain models, merges partial updates
// into existing models (patch) and replaces them (update), reporting the
// first violation with the exact field path it occurred at.
//
// A Client binds the external collaborators every call needs: the gateway
// that answers existence checks for referenced entities, the generator that
// mints identities for new collection elements, and optional logging,
// tracing and metrics.
//
// Example usage:
//
//	gw, err := lookup.LoadFile("fixtures.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	c, err := modelsync.New(
//	    modelsync.WithGateway(gw),
//	    modelsync.WithMaxConcurrentLookups(4),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Patch an existing task; absent fields keep their current values
//	merged, err := modelsync.Merge(ctx, c, current, patch)
//	if fe, ok := errors.AsFieldError(err); ok {
//	    log.Printf("rejected at %s: %s", fe.Path, fe.Message)
//	}
package modelsync

import (
	"context"

	"github.com/agentstation/modelsync/pkg/errors"
	"github.com/agentstation/modelsync/pkg/logging"
	"github.com/agentstation/modelsync/pkg/lookup"
	"github.com/agentstation/modelsync/pkg/reconcile"
	"github.com/agentstation/modelsync/pkg/validation"
)

// Client runs validate, merge and update calls against a fixed set of
// collaborators. It is safe for concurrent use.
type Client struct {
	options *options

	// gateway is the configured gateway with timeout, tracing and metrics
	// applied. Each call memoizes it afresh.
	gateway lookup.Gateway

	// Event hooks for operation outcomes
	hooks *hooks
}

// New creates a new Client with the given options. A gateway is required.
func New(opts ...Option) (*Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}
	if o.gateway == nil {
		return nil, errors.NewConfigError("client", "a lookup gateway is required", nil)
	}

	gw := lookup.Timeout(o.gateway, o.lookupTimeout)
	if o.tracing {
		gw = lookup.Trace(gw)
	}
	if o.metrics != nil {
		gw = lookup.Observe(gw, o.metrics)
	}

	c := &Client{
		options: o,
		gateway: gw,
		hooks:   newHooks(),
	}

	log := logging.Debug()
	log.Bool("tracing", o.tracing).
		Bool("metrics", o.metrics != nil).
		Int("max_concurrent_lookups", o.maxConcurrentLookups).
		Msg("Client created")

	return c, nil
}

// NewContext creates the root validation context for one call. Existence
// checks are memoized for the lifetime of the returned context.
func (c *Client) NewContext(ctx context.Context) *validation.Context {
	if c.options.logger != nil {
		ctx = logging.WithLogger(ctx, c.options.logger)
	}
	lookups := validation.Lookups{
		Gateway: lookup.Memoize(c.gateway),
		IDs:     c.options.ids,
	}
	return validation.NewContext(ctx, lookups,
		validation.WithMaxConcurrency(c.options.maxConcurrentLookups),
		validation.WithObserver(observer{c}),
	)
}

// Validate checks m and normalizes it in place.
func Validate[T any, P reconcile.Model[T]](ctx context.Context, c *Client, m P) error {
	return reconcile.Validate(c.NewContext(ctx), m)
}

// Merge applies source to target with patch semantics and returns the
// validated result. Target is never modified.
func Merge[T any, P reconcile.Record[T]](ctx context.Context, c *Client, target, source P) (P, error) {
	return reconcile.Merge(c.NewContext(ctx), target, source)
}

// Update replaces target with source, keeping target's system-owned fields,
// and returns the validated result. Target is never modified.
func Update[T any, P reconcile.Record[T]](ctx context.Context, c *Client, target, source P) (P, error) {
	return reconcile.Update(c.NewContext(ctx), target, source)
}
