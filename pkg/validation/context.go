// Package validation carries the per-call state of a reconciliation: the
// field path of the node being visited, the lookup collaborators, and the
// asynchronous obligations (cross-reference checks) scheduled during the
// traversal.
//
// A Context is never mutated. WithField and WithIndex derive new contexts that
// share the call's obligation set, so sibling sub-validations can run
// concurrently without corrupting each other's paths.
package validation

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/modelsync/pkg/constants"
	"github.com/agentstation/modelsync/pkg/errors"
	"github.com/agentstation/modelsync/pkg/fieldpath"
	"github.com/agentstation/modelsync/pkg/lookup"
)

// Lookups bundles the external collaborators a validation consumes.
type Lookups struct {
	Gateway lookup.Gateway
	IDs     lookup.IDGenerator
}

// Observer receives the outcome of every engine operation run on a context.
type Observer interface {
	ObserveOperation(op, model string, err error, elapsed time.Duration)
}

// Context is the validation state at one node of the model graph.
type Context struct {
	path fieldpath.Path
	env  *env
}

// env is shared by every context derived from the same root.
type env struct {
	ctx      context.Context
	cancel   context.CancelFunc
	lookups  Lookups
	observer Observer

	group *errgroup.Group
	mu    sync.Mutex
	slots []*obligation
	done  bool
}

type options struct {
	maxConcurrency int
	observer       Observer
}

// Option configures a root Context.
type Option func(*options)

// WithMaxConcurrency bounds how many obligations run at once. Values below
// one fall back to the default.
func WithMaxConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConcurrency = n
		}
	}
}

// WithObserver reports operation outcomes to o.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		opts.observer = o
	}
}

// NewContext creates a fresh root context with an empty path. Every
// validate, merge or update call needs its own root.
func NewContext(ctx context.Context, lookups Lookups, opts ...Option) *Context {
	o := options{maxConcurrency: constants.MaxConcurrentLookups}
	for _, opt := range opts {
		opt(&o)
	}
	if lookups.IDs == nil {
		lookups.IDs = lookup.UUIDs
	}

	ctx, cancel := context.WithCancel(ctx)
	group := &errgroup.Group{}
	group.SetLimit(o.maxConcurrency)

	return &Context{
		env: &env{
			ctx:      ctx,
			cancel:   cancel,
			lookups:  lookups,
			observer: o.observer,
			group:    group,
		},
	}
}

// WithField derives a context one field deeper.
func (c *Context) WithField(name string) *Context {
	return &Context{path: c.path.Field(name), env: c.env}
}

// WithIndex derives a context for a collection element.
func (c *Context) WithIndex(i int) *Context {
	return &Context{path: c.path.Index(i), env: c.env}
}

// Path returns the path of the node this context visits.
func (c *Context) Path() fieldpath.Path {
	return c.path
}

// Lookups returns the collaborators bound to the call.
func (c *Context) Lookups() Lookups {
	return c.env.lookups
}

// NewID mints a fresh identity.
func (c *Context) NewID() string {
	return c.env.lookups.IDs.NewID()
}

// Ctx returns the standard context of the call. It is cancelled once the
// call has settled on a result.
func (c *Context) Ctx() context.Context {
	return c.env.ctx
}

// Observer returns the observer bound to the call, or nil.
func (c *Context) Observer() Observer {
	return c.env.observer
}

// Violation returns a field violation at path.field.
func (c *Context) Violation(field string, value any, message string) *errors.FieldError {
	return errors.NewFieldViolation(c.at(field), value, message)
}

// Inconsistent returns a consistency violation at path.field.
func (c *Context) Inconsistent(field string, value any, message string) *errors.FieldError {
	return errors.NewConsistencyViolation(c.at(field), value, message)
}

func (c *Context) at(field string) fieldpath.Path {
	if field == "" {
		return c.path
	}
	return c.path.Field(field)
}
