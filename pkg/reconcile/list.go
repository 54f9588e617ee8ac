package reconcile

import (
	"github.com/agentstation/modelsync/pkg/errors"
	"github.com/agentstation/modelsync/pkg/lookup"
	"github.com/agentstation/modelsync/pkg/validation"
)

// Element is the capability set of a collection member.
//
// IdentityKey reports the stable key used for matching and duplicate
// detection; false means the element is anonymous. EnsureIdentity assigns a
// generated identity when the element type generates one and has none yet;
// natural-key elements leave it a no-op.
type Element[T any] interface {
	Model[T]
	IdentityKey() (string, bool)
	MergeWith(source *T, ids lookup.IDGenerator) *T
	Clone() *T
	EnsureIdentity(ids lookup.IDGenerator)
}

// ValidateList validates every element at field[i], in order, then assigns
// missing identities and checks keys. When two elements share a key the
// later one is reported.
func ValidateList[T any, P Element[T]](vc *validation.Context, field string, items []T) error {
	lc := vc.WithField(field)
	ids := vc.Lookups().IDs
	seen := make(map[string]int, len(items))

	for i := range items {
		ec := lc.WithIndex(i)
		item := P(&items[i])
		if err := item.Validate(ec); err != nil {
			return err
		}
		item.EnsureIdentity(ids)

		key, ok := item.IdentityKey()
		if !ok {
			continue
		}
		if first, dup := seen[key]; dup {
			return errors.NewDuplicateIdentity(ec.Path(), key, first)
		}
		seen[key] = i
	}
	return nil
}

// ReconcileList merges source into target under patch semantics and returns
// the new list with the plan that produced it.
//
// The output follows source order. A source element whose key matches a
// target element is merged into that element; any other source element is
// merged into an empty default and given an identity if it still lacks one.
// Target elements no source element matched are dropped. A nil source keeps
// a copy of target.
func ReconcileList[T any, P Element[T]](target, source []T, ids lookup.IDGenerator) ([]T, *Plan) {
	if source == nil {
		return CloneList[T, P](target), keepAll[T, P](target)
	}

	plan := PlanList[T, P](target, source)
	out := make([]T, len(source))
	for i, step := range plan.Steps {
		var merged *T
		if step.Action == ActionKept {
			merged = P(&target[step.TargetIndex]).MergeWith(&source[i], ids)
		} else {
			merged = P(new(T)).MergeWith(&source[i], ids)
			P(merged).EnsureIdentity(ids)
			if key, ok := P(merged).IdentityKey(); ok {
				plan.Steps[i].Key = key
			}
		}
		out[i] = *merged
	}
	return out, plan
}

// MergeList is ReconcileList without the plan.
func MergeList[T any, P Element[T]](target, source []T, ids lookup.IDGenerator) []T {
	out, _ := ReconcileList[T, P](target, source, ids)
	return out
}

// ReplaceList copies source wholesale and assigns missing identities. No
// element is matched against the previous list.
func ReplaceList[T any, P Element[T]](source []T, ids lookup.IDGenerator) []T {
	if source == nil {
		return nil
	}
	out := make([]T, len(source))
	for i := range source {
		c := P(&source[i]).Clone()
		P(c).EnsureIdentity(ids)
		out[i] = *c
	}
	return out
}

// CloneList deep-copies a list.
func CloneList[T any, P Element[T]](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	for i := range items {
		out[i] = *P(&items[i]).Clone()
	}
	return out
}

func keepAll[T any, P Element[T]](items []T) *Plan {
	plan := &Plan{Steps: make([]Step, len(items))}
	for i := range items {
		key, _ := P(&items[i]).IdentityKey()
		plan.Steps[i] = Step{Action: ActionKept, Key: key, SourceIndex: i, TargetIndex: i}
	}
	return plan
}
