package lookup

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agentstation/modelsync/pkg/errors"
)

type entityKey struct {
	kind Kind
	id   string
}

// Memory is a thread-safe in-memory Gateway.
type Memory struct {
	mu       sync.RWMutex
	refs     map[entityKey]*Reference
	failures map[entityKey]error
	delays   map[entityKey]time.Duration
	calls    atomic.Int64
}

// NewMemory creates an empty in-memory gateway.
func NewMemory() *Memory {
	return &Memory{
		refs:     make(map[entityKey]*Reference),
		failures: make(map[entityKey]error),
		delays:   make(map[entityKey]time.Duration),
	}
}

// Put stores a reference, replacing any previous one with the same kind and id.
func (m *Memory) Put(ref Reference) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := ref
	m.refs[entityKey{ref.Kind, ref.ID}] = &stored
	return m
}

// PutProfiles stores profile references.
func (m *Memory) PutProfiles(ids ...string) *Memory {
	for _, id := range ids {
		m.Put(Reference{Kind: KindProfile, ID: id})
	}
	return m
}

// PutApps stores app references.
func (m *Memory) PutApps(ids ...string) *Memory {
	for _, id := range ids {
		m.Put(Reference{Kind: KindApp, ID: id})
	}
	return m
}

// PutTaskType stores a task type reference with its attribute schema.
func (m *Memory) PutTaskType(id string, schema *Schema) *Memory {
	return m.Put(Reference{Kind: KindTaskType, ID: id, Schema: schema})
}

// Delete removes a reference.
func (m *Memory) Delete(kind Kind, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.refs, entityKey{kind, id})
}

// Fail makes every check of kind/id return err. A nil err clears the failure.
func (m *Memory) Fail(kind Kind, id string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, entityKey{kind, id})
		return
	}
	m.failures[entityKey{kind, id}] = err
}

// Delay makes every check of kind/id wait d before answering.
func (m *Memory) Delay(kind Kind, id string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays[entityKey{kind, id}] = d
}

// Calls returns how many checks have been served.
func (m *Memory) Calls() int64 {
	return m.calls.Load()
}

// Len returns the number of stored references.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.refs)
}

// CheckExists implements Gateway.
func (m *Memory) CheckExists(ctx context.Context, kind Kind, id string) (*Reference, error) {
	m.calls.Add(1)
	key := entityKey{kind, id}

	m.mu.RLock()
	delay := m.delays[key]
	failure := m.failures[key]
	ref, ok := m.refs[key]
	m.mu.RUnlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if failure != nil {
		return nil, failure
	}
	if !ok {
		return nil, errors.NewNotFoundError(string(kind), id)
	}
	out := *ref
	return &out, nil
}
