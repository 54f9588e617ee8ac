package models

import (
	"github.com/agentstation/utc"

	"github.com/agentstation/modelsync/pkg/constants"
	"github.com/agentstation/modelsync/pkg/lookup"
	"github.com/agentstation/modelsync/pkg/reconcile"
	"github.com/agentstation/modelsync/pkg/validation"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

// String returns the string representation of an EventStatus.
func (s EventStatus) String() string {
	return string(s)
}

// Event statuses.
const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusActive    EventStatus = "active"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// Event is a scheduled occurrence. Every field is optional.
type Event struct {
	ID        string      `json:"id,omitempty" yaml:"id,omitempty"`
	Title     string      `json:"title,omitempty" yaml:"title,omitempty"`
	StartTime *utc.Time   `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	EndTime   *utc.Time   `json:"end_time,omitempty" yaml:"end_time,omitempty"` // Not before StartTime
	Status    EventStatus `json:"status,omitempty" yaml:"status,omitempty"`
	AllDay    *bool       `json:"all_day,omitempty" yaml:"all_day,omitempty"`
	Reminders []Reminder  `json:"reminders,omitempty" yaml:"reminders,omitempty"`
	CreatedAt *utc.Time   `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt *utc.Time   `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// ModelKind implements reconcile.Kinded.
func (e *Event) ModelKind() string {
	return string(KindEvent)
}

// Validate implements reconcile.Validatable.
func (e *Event) Validate(vc *validation.Context) error {
	if err := validation.Text(vc, "title", &e.Title, false, constants.MaxLabelLength); err != nil {
		return err
	}
	if err := validation.TimeOrder(vc, "start_time", "end_time", e.StartTime, e.EndTime); err != nil {
		return err
	}
	if err := validation.Enum(vc, "status", e.Status,
		EventStatusScheduled, EventStatusActive, EventStatusCompleted, EventStatusCancelled); err != nil {
		return err
	}
	return reconcile.ValidateList[Reminder](vc, "reminders", e.Reminders)
}

// Clone returns a deep copy. A nil receiver yields an empty event.
func (e *Event) Clone() *Event {
	if e == nil {
		return &Event{}
	}
	out := *e
	out.StartTime = reconcile.ClonePointer(e.StartTime)
	out.EndTime = reconcile.ClonePointer(e.EndTime)
	out.AllDay = reconcile.ClonePointer(e.AllDay)
	out.Reminders = reconcile.CloneList[Reminder](e.Reminders)
	out.CreatedAt = reconcile.ClonePointer(e.CreatedAt)
	out.UpdatedAt = reconcile.ClonePointer(e.UpdatedAt)
	return &out
}

// MergeWith implements reconcile.Record with patch semantics.
func (e *Event) MergeWith(source *Event, ids lookup.IDGenerator) *Event {
	out := e.Clone()
	out.ID = keepID(out.ID, source.ID)
	out.Title = reconcile.Scalar(out.Title, source.Title)
	out.StartTime = reconcile.Pointer(out.StartTime, source.StartTime)
	out.EndTime = reconcile.Pointer(out.EndTime, source.EndTime)
	out.Status = reconcile.Scalar(out.Status, source.Status)
	out.AllDay = reconcile.Pointer(out.AllDay, source.AllDay)
	out.Reminders = reconcile.MergeList[Reminder](out.Reminders, source.Reminders, ids)
	out.CreatedAt = keepTime(out.CreatedAt, source.CreatedAt)
	out.UpdatedAt = keepTime(out.UpdatedAt, source.UpdatedAt)
	return out
}

// ReplaceWith implements reconcile.Record with replace semantics.
func (e *Event) ReplaceWith(source *Event, ids lookup.IDGenerator) *Event {
	base := e.Clone()
	out := source.Clone()
	out.ID = keepID(base.ID, source.ID)
	out.CreatedAt = keepTime(base.CreatedAt, source.CreatedAt)
	out.UpdatedAt = keepTime(base.UpdatedAt, source.UpdatedAt)
	out.Reminders = reconcile.ReplaceList[Reminder](source.Reminders, ids)
	return out
}
