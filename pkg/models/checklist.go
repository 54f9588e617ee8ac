package models

import (
	"github.com/agentstation/modelsync/pkg/lookup"
	"github.com/agentstation/modelsync/pkg/reconcile"
	"github.com/agentstation/modelsync/pkg/validation"
)

// ChecklistItem is one step of a task checklist.
type ChecklistItem struct {
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`               // Generated when missing
	Label string `json:"label" yaml:"label" validate:"required,max=256"` // What to do
	Done  *bool  `json:"done,omitempty" yaml:"done,omitempty"`           // Completion flag
}

// Validate implements reconcile.Validatable.
func (c *ChecklistItem) Validate(vc *validation.Context) error {
	validation.Trim(&c.Label)
	return validation.Struct(vc, c)
}

// IdentityKey implements reconcile.Element.
func (c *ChecklistItem) IdentityKey() (string, bool) {
	return c.ID, c.ID != ""
}

// EnsureIdentity implements reconcile.Element.
func (c *ChecklistItem) EnsureIdentity(ids lookup.IDGenerator) {
	if c.ID == "" {
		c.ID = ids.NewID()
	}
}

// Clone returns a deep copy. A nil receiver yields an empty item.
func (c *ChecklistItem) Clone() *ChecklistItem {
	if c == nil {
		return &ChecklistItem{}
	}
	out := *c
	out.Done = reconcile.ClonePointer(c.Done)
	return &out
}

// MergeWith implements reconcile.Element.
func (c *ChecklistItem) MergeWith(source *ChecklistItem, _ lookup.IDGenerator) *ChecklistItem {
	out := c.Clone()
	out.ID = keepID(out.ID, source.ID)
	out.Label = reconcile.Scalar(out.Label, source.Label)
	out.Done = reconcile.Pointer(out.Done, source.Done)
	return out
}
