// Package reconcile is the generic engine behind validate, merge (patch
// semantics) and update (replace semantics) of nested models.
//
// Models take part by implementing small capability traits on their pointer
// types: Validatable for every node, Record for root models and Element for
// members of identity-keyed collections. The drivers in this package compose
// those traits; they never inspect model fields themselves.
package reconcile

import (
	"reflect"
	"strings"
	"time"

	"github.com/agentstation/modelsync/pkg/errors"
	"github.com/agentstation/modelsync/pkg/lookup"
	"github.com/agentstation/modelsync/pkg/logging"
	"github.com/agentstation/modelsync/pkg/validation"
)

// Operation names an engine operation.
type Operation string

// String returns the string representation of an Operation.
func (op Operation) String() string {
	return string(op)
}

// Engine operations.
const (
	OpValidate Operation = "validate"
	OpMerge    Operation = "merge"
	OpUpdate   Operation = "update"
)

// Validatable is implemented by every node the engine can validate.
//
// Validate walks the node depth-first. Synchronous violations are returned
// immediately; cross-reference checks are scheduled on vc and joined by the
// driver. Validate may normalize the node in place (trimming, dropping blank
// keywords, assigning identities).
type Validatable interface {
	Validate(vc *validation.Context) error
}

// Model is a pointer to a validatable T.
type Model[T any] interface {
	*T
	Validatable
}

// Record is the capability set of a root model.
//
// MergeWith returns a new T combining the receiver with source under patch
// semantics: absent source fields keep the receiver's values. ReplaceWith
// returns a copy of source whose system-owned fields (identity, timestamps)
// come from the receiver. Neither mutates the receiver or source, and both
// accept a nil receiver as an empty default.
type Record[T any] interface {
	Model[T]
	MergeWith(source *T, ids lookup.IDGenerator) *T
	ReplaceWith(source *T, ids lookup.IDGenerator) *T
}

// Kinded models report their kind to logs and metrics.
type Kinded interface {
	ModelKind() string
}

// Validate validates m in place and joins every cross-reference check it
// scheduled. The first violation in traversal order is returned.
func Validate[T any, P Model[T]](vc *validation.Context, m P) error {
	return run(vc, OpValidate, KindOf(m), func() error {
		if m == nil {
			return vc.Violation("model", nil, "is required")
		}
		return validateTree(vc, m)
	})
}

// Merge applies source to target with patch semantics and validates the
// candidate. A nil source returns target itself without validating. On
// failure the result is nil and target is untouched.
func Merge[T any, P Record[T]](vc *validation.Context, target, source P) (P, error) {
	if source == nil {
		return target, nil
	}
	var out P
	err := run(vc, OpMerge, KindOf(source), func() error {
		candidate := P(target.MergeWith(source, vc.Lookups().IDs))
		if err := validateTree(vc, candidate); err != nil {
			return err
		}
		out = candidate
		return nil
	})
	return out, err
}

// Update replaces target with source, keeping target's system-owned fields,
// and validates the candidate. A nil source returns target itself without
// validating. On failure the result is nil and target is untouched.
func Update[T any, P Record[T]](vc *validation.Context, target, source P) (P, error) {
	if source == nil {
		return target, nil
	}
	var out P
	err := run(vc, OpUpdate, KindOf(source), func() error {
		candidate := P(target.ReplaceWith(source, vc.Lookups().IDs))
		if err := validateTree(vc, candidate); err != nil {
			return err
		}
		out = candidate
		return nil
	})
	return out, err
}

// validateTree runs the synchronous traversal, then the join. A synchronous
// violation settles the call at once and abandons pending checks. A context
// settled by an earlier call is refused.
func validateTree(vc *validation.Context, m Validatable) error {
	if vc.Settled() {
		return errors.NewConfigError("validation", "context already settled, create one per call", nil)
	}
	if err := m.Validate(vc); err != nil {
		vc.Abandon()
		return err
	}
	return vc.Wait()
}

func run(vc *validation.Context, op Operation, kind string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	logger := logging.ForOperation(vc.Ctx(), string(op), kind)
	if err != nil {
		event := logger.Debug().Err(err)
		if fe, ok := errors.AsFieldError(err); ok {
			event = event.Stringer("path", fe.Path).Str("violation", string(fe.Kind))
		}
		event.Dur("duration", elapsed).Msg("model rejected")
	} else {
		logger.Debug().
			Int("lookups", vc.Scheduled()).
			Dur("duration", elapsed).
			Msg("model accepted")
	}

	if o := vc.Observer(); o != nil {
		o.ObserveOperation(string(op), kind, err, elapsed)
	}
	return err
}

// KindOf returns the kind a model reports, or its lower-cased type name.
func KindOf(m any) string {
	if k, ok := m.(Kinded); ok {
		return k.ModelKind()
	}
	t := reflect.TypeOf(m)
	if t == nil {
		return "unknown"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return strings.ToLower(t.Name())
}
