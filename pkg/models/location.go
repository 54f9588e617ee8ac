package models

import (
	"github.com/agentstation/modelsync/pkg/lookup"
	"github.com/agentstation/modelsync/pkg/reconcile"
	"github.com/agentstation/modelsync/pkg/validation"
)

// Location is where a task takes place. Coordinates are optional but come
// in pairs.
type Location struct {
	Name      string   `json:"name,omitempty" yaml:"name,omitempty" validate:"max=256"`
	Latitude  *float64 `json:"latitude,omitempty" yaml:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude,omitempty" yaml:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
}

// Validate implements reconcile.Validatable.
func (l *Location) Validate(vc *validation.Context) error {
	validation.Trim(&l.Name)
	if err := validation.Struct(vc, l); err != nil {
		return err
	}
	switch {
	case l.Latitude != nil && l.Longitude == nil:
		return vc.Inconsistent("longitude", nil, "must be set together with latitude")
	case l.Latitude == nil && l.Longitude != nil:
		return vc.Inconsistent("latitude", nil, "must be set together with longitude")
	}
	return nil
}

// Clone returns a deep copy. A nil receiver yields an empty location.
func (l *Location) Clone() *Location {
	if l == nil {
		return &Location{}
	}
	out := *l
	out.Latitude = reconcile.ClonePointer(l.Latitude)
	out.Longitude = reconcile.ClonePointer(l.Longitude)
	return &out
}

// MergeWith merges source into a copy of l.
func (l *Location) MergeWith(source *Location, _ lookup.IDGenerator) *Location {
	out := l.Clone()
	out.Name = reconcile.Scalar(out.Name, source.Name)
	out.Latitude = reconcile.Pointer(out.Latitude, source.Latitude)
	out.Longitude = reconcile.Pointer(out.Longitude, source.Longitude)
	return out
}
