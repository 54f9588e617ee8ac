package models

import (
	"regexp"

	"github.com/agentstation/modelsync/pkg/constants"
	"github.com/agentstation/modelsync/pkg/lookup"
	"github.com/agentstation/modelsync/pkg/reconcile"
	"github.com/agentstation/modelsync/pkg/validation"
)

var attributeName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// AttributeDefinition declares one attribute tasks of a type must carry.
type AttributeDefinition struct {
	Name     string               `json:"name" yaml:"name"`                           // Identity key, snake_case
	Type     lookup.AttributeType `json:"type" yaml:"type"`                           // Declared value type
	Required *bool                `json:"required,omitempty" yaml:"required,omitempty"` // Defaults to optional
	Label    string               `json:"label,omitempty" yaml:"label,omitempty"`     // Display name
	Values   []string             `json:"values,omitempty" yaml:"values,omitempty"`   // Allowed values, string attributes only
}

// Validate implements reconcile.Validatable.
func (a *AttributeDefinition) Validate(vc *validation.Context) error {
	if err := validation.Required(vc, "name", &a.Name); err != nil {
		return err
	}
	if err := validation.Pattern(vc, "name", a.Name, attributeName); err != nil {
		return err
	}
	if a.Type == "" {
		return vc.Violation("type", "", "is required")
	}
	if err := validation.Enum(vc, "type", a.Type, lookup.AttributeTypes()...); err != nil {
		return err
	}
	if err := validation.Text(vc, "label", &a.Label, false, constants.MaxLabelLength); err != nil {
		return err
	}
	values, err := validation.Keywords(vc, "values", a.Values)
	a.Values = values
	if err != nil {
		return err
	}
	if len(a.Values) > 0 && a.Type != lookup.AttributeString {
		return vc.Inconsistent("values", a.Values, "are only allowed for string attributes")
	}
	return nil
}

// IdentityKey implements reconcile.Element. The key is the normalized name.
func (a *AttributeDefinition) IdentityKey() (string, bool) {
	key := a.Name
	validation.Trim(&key)
	return key, key != ""
}

// EnsureIdentity implements reconcile.Element. Definitions are keyed by name.
func (a *AttributeDefinition) EnsureIdentity(lookup.IDGenerator) {}

// Clone returns a deep copy. A nil receiver yields an empty definition.
func (a *AttributeDefinition) Clone() *AttributeDefinition {
	if a == nil {
		return &AttributeDefinition{}
	}
	out := *a
	out.Required = reconcile.ClonePointer(a.Required)
	out.Values = reconcile.Strings(nil, a.Values)
	return &out
}

// MergeWith implements reconcile.Element.
func (a *AttributeDefinition) MergeWith(source *AttributeDefinition, _ lookup.IDGenerator) *AttributeDefinition {
	out := a.Clone()
	out.Name = keepID(out.Name, source.Name)
	out.Type = reconcile.Scalar(out.Type, source.Type)
	out.Required = reconcile.Pointer(out.Required, source.Required)
	out.Label = reconcile.Scalar(out.Label, source.Label)
	out.Values = reconcile.Strings(out.Values, source.Values)
	return out
}

// Spec converts the definition to the shape used by attribute checks.
func (a *AttributeDefinition) Spec() lookup.AttributeSpec {
	return lookup.AttributeSpec{
		Name:     a.Name,
		Type:     a.Type,
		Required: a.Required != nil && *a.Required,
		Values:   reconcile.Strings(nil, a.Values),
	}
}
