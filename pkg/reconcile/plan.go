package reconcile

import (
	"fmt"
	"strings"
)

// Action is what the list reconciler does with one element.
type Action string

// String returns the string representation of an Action.
func (a Action) String() string {
	return string(a)
}

// Reconciliation actions.
const (
	ActionKept    Action = "kept"    // Matched a target element and merged into it
	ActionAdded   Action = "added"   // New element, identity assigned if missing
	ActionRemoved Action = "removed" // Target element absent from source
)

// Step records the fate of one element.
type Step struct {
	Action      Action `json:"action" yaml:"action"`
	Key         string `json:"key,omitempty" yaml:"key,omitempty"`
	SourceIndex int    `json:"source_index" yaml:"source_index"` // -1 for removed elements
	TargetIndex int    `json:"target_index" yaml:"target_index"` // -1 for added elements
}

// Plan is the reconciliation record of one list: one step per output
// position, in source order, followed by the removed target elements.
type Plan struct {
	Steps   []Step `json:"steps" yaml:"steps"`
	Removed []Step `json:"removed,omitempty" yaml:"removed,omitempty"`
}

// PlanList matches source elements to target elements by identity key.
// When target holds the same key twice the first occurrence is matched.
// Anonymous elements never match.
func PlanList[T any, P Element[T]](target, source []T) *Plan {
	byKey := make(map[string]int, len(target))
	for i := range target {
		if key, ok := P(&target[i]).IdentityKey(); ok {
			if _, seen := byKey[key]; !seen {
				byKey[key] = i
			}
		}
	}

	plan := &Plan{Steps: make([]Step, len(source))}
	matched := make(map[int]bool, len(source))
	for i := range source {
		key, ok := P(&source[i]).IdentityKey()
		if ti, hit := byKey[key]; ok && hit {
			plan.Steps[i] = Step{Action: ActionKept, Key: key, SourceIndex: i, TargetIndex: ti}
			matched[ti] = true
			continue
		}
		plan.Steps[i] = Step{Action: ActionAdded, Key: key, SourceIndex: i, TargetIndex: -1}
	}

	for i := range target {
		if matched[i] {
			continue
		}
		key, _ := P(&target[i]).IdentityKey()
		plan.Removed = append(plan.Removed, Step{Action: ActionRemoved, Key: key, SourceIndex: -1, TargetIndex: i})
	}
	return plan
}

// Counts returns how many elements were kept, added and removed.
func (p *Plan) Counts() (kept, added, removed int) {
	for _, s := range p.Steps {
		if s.Action == ActionKept {
			kept++
		} else {
			added++
		}
	}
	return kept, added, len(p.Removed)
}

// String summarizes the plan, e.g. "kept 2, added 1, removed 0".
func (p *Plan) String() string {
	kept, added, removed := p.Counts()
	return fmt.Sprintf("kept %d, added %d, removed %d", kept, added, removed)
}

// Describe renders one line per step.
func (p *Plan) Describe() string {
	var b strings.Builder
	for _, s := range p.Steps {
		fmt.Fprintf(&b, "[%d] %s %s\n", s.SourceIndex, s.Action, s.Key)
	}
	for _, s := range p.Removed {
		fmt.Fprintf(&b, "    %s %s\n", s.Action, s.Key)
	}
	return b.String()
}
