package lookup

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/agentstation/modelsync/pkg/errors"
)

type result struct {
	ref *Reference
	err error
}

// memoized collapses repeated checks of the same entity into one call.
type memoized struct {
	next   Gateway
	group  singleflight.Group
	mu     sync.Mutex
	cached map[string]result
}

// Memoize wraps a gateway so that concurrent and repeated checks of the same
// kind/id pair reach next once. Answers, including misses, are kept for the
// lifetime of the returned gateway; cancellations are not.
//
// Wrap once per validation call. A memoized gateway shared across calls would
// hide entities created or deleted in between.
func Memoize(next Gateway) Gateway {
	if m, ok := next.(*memoized); ok {
		return m
	}
	return &memoized{next: next, cached: make(map[string]result)}
}

func (m *memoized) CheckExists(ctx context.Context, kind Kind, id string) (*Reference, error) {
	key := string(kind) + "\x00" + id

	m.mu.Lock()
	r, ok := m.cached[key]
	m.mu.Unlock()
	if ok {
		return r.ref, r.err
	}

	v, err, _ := m.group.Do(key, func() (any, error) {
		m.mu.Lock()
		r, ok := m.cached[key]
		m.mu.Unlock()
		if ok {
			return r.ref, r.err
		}

		ref, err := m.next.CheckExists(ctx, kind, id)
		if err == nil || !transient(ctx, err) {
			m.mu.Lock()
			m.cached[key] = result{ref: ref, err: err}
			m.mu.Unlock()
		}
		return ref, err
	})
	ref, _ := v.(*Reference)
	return ref, err
}

func transient(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
