package modelsync

import (
	"sync"
	"time"

	"github.com/agentstation/modelsync/pkg/errors"
	"github.com/agentstation/modelsync/pkg/reconcile"
	"github.com/agentstation/modelsync/pkg/validation"
)

// Hook function types for operation outcomes
type (
	// AcceptedHook is called when an operation produces a valid model
	AcceptedHook func(op reconcile.Operation, kind string)

	// RejectedHook is called when an operation fails with a violation
	RejectedHook func(op reconcile.Operation, kind string, violation *errors.FieldError)
)

// hooks manages event callbacks for operation outcomes
type hooks struct {
	mu         sync.RWMutex
	onAccepted []AcceptedHook
	onRejected []RejectedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnAccepted registers a callback for accepted operations
func (c *Client) OnAccepted(fn AcceptedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onAccepted = append(c.hooks.onAccepted, fn)
}

// OnRejected registers a callback for rejected operations
func (c *Client) OnRejected(fn RejectedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onRejected = append(c.hooks.onRejected, fn)
}

// trigger calls the hooks matching the outcome. Errors that are not
// violations, such as cancellation, trigger nothing.
func (h *hooks) trigger(op reconcile.Operation, kind string, err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if err == nil {
		for _, hook := range h.onAccepted {
			hook(op, kind)
		}
		return
	}
	if fe, ok := errors.AsFieldError(err); ok {
		for _, hook := range h.onRejected {
			hook(op, kind, fe)
		}
	}
}

// observer fans operation outcomes out to metrics and hooks.
type observer struct {
	c *Client
}

var _ validation.Observer = observer{}

// ObserveOperation implements validation.Observer.
func (o observer) ObserveOperation(op, kind string, err error, elapsed time.Duration) {
	o.c.options.metrics.ObserveOperation(op, kind, err, elapsed)
	o.c.hooks.trigger(reconcile.Operation(op), kind, err)
}
