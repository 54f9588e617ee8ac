package validation

import (
	"context"
)

// obligation is one asynchronous check. Its slot in env.slots fixes its
// position in traversal order.
type obligation struct {
	done chan struct{}
	err  error
}

// Go schedules fn as an asynchronous obligation of the call. Obligations run
// concurrently, up to the configured limit; Go blocks while the limit is
// reached. fn receives the call's standard context and must not schedule
// further obligations.
//
// Once the call has settled, Go is a no-op.
func (c *Context) Go(fn func(ctx context.Context) error) {
	e := c.env
	ob := &obligation{done: make(chan struct{})}

	e.mu.Lock()
	if e.done {
		e.mu.Unlock()
		return
	}
	e.slots = append(e.slots, ob)
	e.mu.Unlock()

	e.group.Go(func() error {
		defer close(ob.done)
		if err := e.ctx.Err(); err != nil {
			ob.err = err
			return nil
		}
		ob.err = fn(e.ctx)
		return nil
	})
}

// Wait joins every scheduled obligation in scheduling order. It returns the
// first failure in that order as soon as all earlier obligations have
// succeeded; later obligations are cancelled and their results ignored.
//
// Wait settles the call: afterwards the standard context is cancelled and
// Go no longer schedules anything.
func (c *Context) Wait() error {
	e := c.env
	defer c.Abandon()

	for i := 0; ; i++ {
		e.mu.Lock()
		if i >= len(e.slots) {
			e.done = true
			e.mu.Unlock()
			return nil
		}
		ob := e.slots[i]
		e.mu.Unlock()

		<-ob.done
		if ob.err != nil {
			return ob.err
		}
	}
}

// Abandon settles the call without joining: pending obligations are
// cancelled and their results will never be read. It is used when a
// synchronous check fails before the traversal completes.
func (c *Context) Abandon() {
	e := c.env
	e.mu.Lock()
	e.done = true
	e.mu.Unlock()
	e.cancel()
}

// Settled reports whether the call has been joined or abandoned. A settled
// context schedules nothing, so it cannot validate another model.
func (c *Context) Settled() bool {
	e := c.env
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done
}

// Scheduled returns how many obligations have been scheduled on the call.
func (c *Context) Scheduled() int {
	e := c.env
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.slots)
}
