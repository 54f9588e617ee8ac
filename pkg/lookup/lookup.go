// Package lookup defines the external collaborators the reconciliation engine
// consumes: a Gateway answering existence and shape queries about referenced
// entities, and an IDGenerator minting identities for new records.
//
// The engine never knows how a Gateway reaches other services. This package
// ships an in-memory gateway (tests, fixtures) and decorators that add
// per-call de-duplication, tracing and observation to any gateway.
package lookup

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Kind names the type of a referenced entity.
type Kind string

// String returns the string representation of a Kind.
func (k Kind) String() string {
	return string(k)
}

// Referenced entity kinds.
const (
	KindProfile  Kind = "profile"   // User profiles referenced by members
	KindApp      Kind = "app"       // Applications owning tasks and task types
	KindTaskType Kind = "task_type" // Task types declaring attribute schemas
)

// Kinds returns every known kind.
func Kinds() []Kind {
	return []Kind{KindProfile, KindApp, KindTaskType}
}

// Reference is the positive answer to an existence check.
type Reference struct {
	Kind   Kind    `json:"kind" yaml:"kind"`
	ID     string  `json:"id" yaml:"id"`
	Schema *Schema `json:"schema,omitempty" yaml:"schema,omitempty"` // Shape metadata, set for task types
}

// Gateway answers existence and shape queries about referenced entities.
//
// A miss must be reported as an error matching errors.ErrNotFound. Any other
// error is treated as a failed check; the engine never retries.
type Gateway interface {
	CheckExists(ctx context.Context, kind Kind, id string) (*Reference, error)
}

// GatewayFunc adapts a function to the Gateway interface.
type GatewayFunc func(ctx context.Context, kind Kind, id string) (*Reference, error)

// CheckExists calls f(ctx, kind, id).
func (f GatewayFunc) CheckExists(ctx context.Context, kind Kind, id string) (*Reference, error) {
	return f(ctx, kind, id)
}

// IDGenerator mints identities for records that lack one.
type IDGenerator interface {
	NewID() string
}

// IDGeneratorFunc adapts a function to the IDGenerator interface.
type IDGeneratorFunc func() string

// NewID calls f().
func (f IDGeneratorFunc) NewID() string {
	return f()
}

// UUIDs generates random (version 4) UUID strings.
var UUIDs IDGenerator = IDGeneratorFunc(uuid.NewString)

// Sequence returns a deterministic generator producing prefix1, prefix2, ...
// It is safe for concurrent use.
func Sequence(prefix string) IDGenerator {
	var n atomic.Int64
	return IDGeneratorFunc(func() string {
		return prefix + strconv.FormatInt(n.Add(1), 10)
	})
}
