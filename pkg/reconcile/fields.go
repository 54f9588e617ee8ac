package reconcile

import (
	"maps"
	"slices"

	"github.com/agentstation/modelsync/pkg/lookup"
)

// Scalar returns source unless it is the zero value, which encodes absence.
func Scalar[V comparable](target, source V) V {
	var zero V
	if source == zero {
		return target
	}
	return source
}

// Pointer returns a copy of source, or of target when source is absent.
func Pointer[V any](target, source *V) *V {
	if source == nil {
		return ClonePointer(target)
	}
	return ClonePointer(source)
}

// ClonePointer copies the value behind p.
func ClonePointer[V any](p *V) *V {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Strings returns a copy of source, or of target when source is nil. An
// empty non-nil source clears the list.
func Strings(target, source []string) []string {
	if source == nil {
		return slices.Clone(target)
	}
	return slices.Clone(source)
}

// Nested merges a nested record. An absent source keeps a copy of target; an
// absent target merges source into an empty default.
func Nested[T any, P interface {
	*T
	MergeWith(source *T, ids lookup.IDGenerator) *T
	Clone() *T
}](target, source P, ids lookup.IDGenerator) P {
	if source == nil {
		if target == nil {
			return nil
		}
		return P(target.Clone())
	}
	base := target
	if base == nil {
		base = P(new(T))
	}
	return P(base.MergeWith(source, ids))
}

// CloneNested copies a nested record.
func CloneNested[T any, P interface {
	*T
	Clone() *T
}](p P) P {
	if p == nil {
		return nil
	}
	return P(p.Clone())
}

// Attributes merges a schema-free attribute bag as a JSON merge patch: keys
// in source replace keys in target, nil values delete keys, and nested
// objects merge recursively. A nil source keeps a copy of target.
func Attributes(target, source map[string]any) map[string]any {
	if source == nil {
		return CloneAttributes(target)
	}
	out := CloneAttributes(target)
	if out == nil {
		out = make(map[string]any, len(source))
	}
	for k, v := range source {
		if v == nil {
			delete(out, k)
			continue
		}
		patch, ok := v.(map[string]any)
		if !ok {
			out[k] = cloneValue(v)
			continue
		}
		existing, _ := out[k].(map[string]any)
		out[k] = Attributes(existing, patch)
	}
	return out
}

// CloneAttributes deep-copies an attribute bag.
func CloneAttributes(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := maps.Clone(m)
	for k, v := range out {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneAttributes(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return slices.Clone(t)
	}
	return v
}
