package models

import (
	"github.com/agentstation/utc"

	"github.com/agentstation/modelsync/pkg/lookup"
	"github.com/agentstation/modelsync/pkg/reconcile"
	"github.com/agentstation/modelsync/pkg/validation"
)

// Team is a named group of members.
type Team struct {
	ID          string    `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string    `json:"name,omitempty" yaml:"name,omitempty" validate:"max=256"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty" validate:"max=4096"`
	Members     []Member  `json:"members,omitempty" yaml:"members,omitempty" validate:"-"`
	CreatedAt   *utc.Time `json:"created_at,omitempty" yaml:"created_at,omitempty" validate:"-"`
	UpdatedAt   *utc.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty" validate:"-"`
}

// ModelKind implements reconcile.Kinded.
func (tm *Team) ModelKind() string {
	return string(KindTeam)
}

// Validate implements reconcile.Validatable.
func (tm *Team) Validate(vc *validation.Context) error {
	validation.Trim(&tm.Name)
	validation.Trim(&tm.Description)
	if err := validation.Struct(vc, tm); err != nil {
		return err
	}
	return reconcile.ValidateList[Member](vc, "members", tm.Members)
}

// Clone returns a deep copy. A nil receiver yields an empty team.
func (tm *Team) Clone() *Team {
	if tm == nil {
		return &Team{}
	}
	out := *tm
	out.Members = reconcile.CloneList[Member](tm.Members)
	out.CreatedAt = reconcile.ClonePointer(tm.CreatedAt)
	out.UpdatedAt = reconcile.ClonePointer(tm.UpdatedAt)
	return &out
}

// MergeWith implements reconcile.Record with patch semantics.
func (tm *Team) MergeWith(source *Team, ids lookup.IDGenerator) *Team {
	out := tm.Clone()
	out.ID = keepID(out.ID, source.ID)
	out.Name = reconcile.Scalar(out.Name, source.Name)
	out.Description = reconcile.Scalar(out.Description, source.Description)
	out.Members = reconcile.MergeList[Member](out.Members, source.Members, ids)
	out.CreatedAt = keepTime(out.CreatedAt, source.CreatedAt)
	out.UpdatedAt = keepTime(out.UpdatedAt, source.UpdatedAt)
	return out
}

// ReplaceWith implements reconcile.Record with replace semantics.
func (tm *Team) ReplaceWith(source *Team, ids lookup.IDGenerator) *Team {
	base := tm.Clone()
	out := source.Clone()
	out.ID = keepID(base.ID, source.ID)
	out.CreatedAt = keepTime(base.CreatedAt, source.CreatedAt)
	out.UpdatedAt = keepTime(base.UpdatedAt, source.UpdatedAt)
	out.Members = reconcile.ReplaceList[Member](source.Members, ids)
	return out
}
