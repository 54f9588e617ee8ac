package models

import (
	"github.com/agentstation/modelsync/pkg/constants"
	"github.com/agentstation/modelsync/pkg/lookup"
	"github.com/agentstation/modelsync/pkg/reconcile"
	"github.com/agentstation/modelsync/pkg/validation"
)

// Reminder fires a notification some minutes before an event starts.
type Reminder struct {
	ID            string `json:"id,omitempty" yaml:"id,omitempty"`
	Label         string `json:"label,omitempty" yaml:"label,omitempty" validate:"max=256"`
	OffsetMinutes *int   `json:"offset_minutes,omitempty" yaml:"offset_minutes,omitempty" validate:"-"` // Up to four weeks
}

// Validate implements reconcile.Validatable.
func (r *Reminder) Validate(vc *validation.Context) error {
	validation.Trim(&r.Label)
	if err := validation.Struct(vc, r); err != nil {
		return err
	}
	return validation.Range(vc, "offset_minutes", r.OffsetMinutes, 0, constants.MaxReminderOffsetMinutes)
}

// IdentityKey implements reconcile.Element.
func (r *Reminder) IdentityKey() (string, bool) {
	return r.ID, r.ID != ""
}

// EnsureIdentity implements reconcile.Element.
func (r *Reminder) EnsureIdentity(ids lookup.IDGenerator) {
	if r.ID == "" {
		r.ID = ids.NewID()
	}
}

// Clone returns a deep copy. A nil receiver yields an empty reminder.
func (r *Reminder) Clone() *Reminder {
	if r == nil {
		return &Reminder{}
	}
	out := *r
	out.OffsetMinutes = reconcile.ClonePointer(r.OffsetMinutes)
	return &out
}

// MergeWith implements reconcile.Element.
func (r *Reminder) MergeWith(source *Reminder, _ lookup.IDGenerator) *Reminder {
	out := r.Clone()
	out.ID = keepID(out.ID, source.ID)
	out.Label = reconcile.Scalar(out.Label, source.Label)
	out.OffsetMinutes = reconcile.Pointer(out.OffsetMinutes, source.OffsetMinutes)
	return out
}
