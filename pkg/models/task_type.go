package models

import (
	"github.com/agentstation/utc"

	"github.com/agentstation/modelsync/pkg/constants"
	"github.com/agentstation/modelsync/pkg/lookup"
	"github.com/agentstation/modelsync/pkg/reconcile"
	"github.com/agentstation/modelsync/pkg/validation"
)

// TaskType declares the attributes tasks of this type carry.
type TaskType struct {
	ID          string                `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string                `json:"name" yaml:"name"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	AppID       string                `json:"app_id,omitempty" yaml:"app_id,omitempty"`         // Owning app, optional
	Attributes  []AttributeDefinition `json:"attributes,omitempty" yaml:"attributes,omitempty"` // Keyed by name
	CreatedAt   *utc.Time             `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt   *utc.Time             `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// ModelKind implements reconcile.Kinded.
func (tt *TaskType) ModelKind() string {
	return string(KindTaskType)
}

// Validate implements reconcile.Validatable.
func (tt *TaskType) Validate(vc *validation.Context) error {
	if err := validation.Text(vc, "name", &tt.Name, true, constants.MaxLabelLength); err != nil {
		return err
	}
	if err := validation.Text(vc, "description", &tt.Description, false, constants.MaxDescriptionLength); err != nil {
		return err
	}
	validation.Trim(&tt.AppID)
	vc.Reference("app_id", lookup.KindApp, tt.AppID, nil)
	return reconcile.ValidateList[AttributeDefinition](vc, "attributes", tt.Attributes)
}

// Schema returns the attribute schema tasks of this type are checked against.
func (tt *TaskType) Schema() *lookup.Schema {
	schema := &lookup.Schema{Attributes: make([]lookup.AttributeSpec, 0, len(tt.Attributes))}
	for i := range tt.Attributes {
		schema.Attributes = append(schema.Attributes, tt.Attributes[i].Spec())
	}
	return schema
}

// Reference returns the answer a gateway gives for this task type.
func (tt *TaskType) Reference() lookup.Reference {
	return lookup.Reference{Kind: lookup.KindTaskType, ID: tt.ID, Schema: tt.Schema()}
}

// Clone returns a deep copy. A nil receiver yields an empty task type.
func (tt *TaskType) Clone() *TaskType {
	if tt == nil {
		return &TaskType{}
	}
	out := *tt
	out.Attributes = reconcile.CloneList[AttributeDefinition](tt.Attributes)
	out.CreatedAt = reconcile.ClonePointer(tt.CreatedAt)
	out.UpdatedAt = reconcile.ClonePointer(tt.UpdatedAt)
	return &out
}

// MergeWith implements reconcile.Record with patch semantics.
func (tt *TaskType) MergeWith(source *TaskType, ids lookup.IDGenerator) *TaskType {
	out := tt.Clone()
	out.ID = keepID(out.ID, source.ID)
	out.Name = reconcile.Scalar(out.Name, source.Name)
	out.Description = reconcile.Scalar(out.Description, source.Description)
	out.AppID = reconcile.Scalar(out.AppID, source.AppID)
	out.Attributes = reconcile.MergeList[AttributeDefinition](out.Attributes, source.Attributes, ids)
	out.CreatedAt = keepTime(out.CreatedAt, source.CreatedAt)
	out.UpdatedAt = keepTime(out.UpdatedAt, source.UpdatedAt)
	return out
}

// ReplaceWith implements reconcile.Record with replace semantics.
func (tt *TaskType) ReplaceWith(source *TaskType, ids lookup.IDGenerator) *TaskType {
	base := tt.Clone()
	out := source.Clone()
	out.ID = keepID(base.ID, source.ID)
	out.CreatedAt = keepTime(base.CreatedAt, source.CreatedAt)
	out.UpdatedAt = keepTime(base.UpdatedAt, source.UpdatedAt)
	out.Attributes = reconcile.ReplaceList[AttributeDefinition](source.Attributes, ids)
	return out
}
