package models

import (
	"github.com/agentstation/utc"

	"github.com/agentstation/modelsync/pkg/constants"
	"github.com/agentstation/modelsync/pkg/lookup"
	"github.com/agentstation/modelsync/pkg/reconcile"
	"github.com/agentstation/modelsync/pkg/validation"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

// String returns the string representation of a TaskStatus.
func (s TaskStatus) String() string {
	return string(s)
}

// Task statuses.
const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// Task is a unit of work of a given task type. Its attributes are
// schema-free at this level and checked against the schema the referenced
// task type declares.
type Task struct {
	// Identity
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`         // System-owned
	TypeID string `json:"type_id" yaml:"type_id"`                   // Referenced task type
	AppID  string `json:"app_id,omitempty" yaml:"app_id,omitempty"` // Owning app, optional

	// Content
	Label       string     `json:"label" yaml:"label"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Status      TaskStatus `json:"status,omitempty" yaml:"status,omitempty"`
	Priority    *int       `json:"priority,omitempty" yaml:"priority,omitempty"` // 1 (highest) to 5
	Keywords    []string   `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// Scheduling
	StartTime *utc.Time `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	EndTime   *utc.Time `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	Location  *Location `json:"location,omitempty" yaml:"location,omitempty"`

	// Collections
	Members   []Member        `json:"members,omitempty" yaml:"members,omitempty"`
	Checklist []ChecklistItem `json:"checklist,omitempty" yaml:"checklist,omitempty"`

	// Typed attributes
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`

	// Timestamps, system-owned
	CreatedAt *utc.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt *utc.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// ModelKind implements reconcile.Kinded.
func (t *Task) ModelKind() string {
	return string(KindTask)
}

// Validate implements reconcile.Validatable.
//
// The attributes are checked against the schema of the task type the task
// references now, on every validation, so changing TypeID revalidates them.
func (t *Task) Validate(vc *validation.Context) error {
	if err := validation.Required(vc, "type_id", &t.TypeID); err != nil {
		return err
	}
	attrs := t.Attributes
	vc.Reference("type_id", lookup.KindTaskType, t.TypeID, func(ref *lookup.Reference) error {
		return validation.Attributes(vc, "attributes", attrs, ref.Schema)
	})
	validation.Trim(&t.AppID)
	vc.Reference("app_id", lookup.KindApp, t.AppID, nil)

	if err := validation.Text(vc, "label", &t.Label, true, constants.MaxLabelLength); err != nil {
		return err
	}
	if err := validation.Text(vc, "description", &t.Description, false, constants.MaxDescriptionLength); err != nil {
		return err
	}
	if err := validation.Enum(vc, "status", t.Status,
		TaskStatusOpen, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled); err != nil {
		return err
	}
	if err := validation.Range(vc, "priority", t.Priority, constants.MinPriority, constants.MaxPriority); err != nil {
		return err
	}
	keywords, err := validation.Keywords(vc, "keywords", t.Keywords)
	t.Keywords = keywords
	if err != nil {
		return err
	}
	if err := validation.TimeOrder(vc, "start_time", "end_time", t.StartTime, t.EndTime); err != nil {
		return err
	}
	if t.Location != nil {
		if err := t.Location.Validate(vc.WithField("location")); err != nil {
			return err
		}
	}
	if err := reconcile.ValidateList[Member](vc, "members", t.Members); err != nil {
		return err
	}
	return reconcile.ValidateList[ChecklistItem](vc, "checklist", t.Checklist)
}

// Clone returns a deep copy. A nil receiver yields an empty task.
func (t *Task) Clone() *Task {
	if t == nil {
		return &Task{}
	}
	out := *t
	out.Priority = reconcile.ClonePointer(t.Priority)
	out.Keywords = reconcile.Strings(nil, t.Keywords)
	out.StartTime = reconcile.ClonePointer(t.StartTime)
	out.EndTime = reconcile.ClonePointer(t.EndTime)
	out.Location = reconcile.CloneNested(t.Location)
	out.Members = reconcile.CloneList[Member](t.Members)
	out.Checklist = reconcile.CloneList[ChecklistItem](t.Checklist)
	out.Attributes = reconcile.CloneAttributes(t.Attributes)
	out.CreatedAt = reconcile.ClonePointer(t.CreatedAt)
	out.UpdatedAt = reconcile.ClonePointer(t.UpdatedAt)
	return &out
}

// MergeWith implements reconcile.Record with patch semantics.
func (t *Task) MergeWith(source *Task, ids lookup.IDGenerator) *Task {
	out := t.Clone()
	out.ID = keepID(out.ID, source.ID)
	out.TypeID = reconcile.Scalar(out.TypeID, source.TypeID)
	out.AppID = reconcile.Scalar(out.AppID, source.AppID)
	out.Label = reconcile.Scalar(out.Label, source.Label)
	out.Description = reconcile.Scalar(out.Description, source.Description)
	out.Status = reconcile.Scalar(out.Status, source.Status)
	out.Priority = reconcile.Pointer(out.Priority, source.Priority)
	out.Keywords = reconcile.Strings(out.Keywords, source.Keywords)
	out.StartTime = reconcile.Pointer(out.StartTime, source.StartTime)
	out.EndTime = reconcile.Pointer(out.EndTime, source.EndTime)
	out.Location = reconcile.Nested(out.Location, source.Location, ids)
	out.Members = reconcile.MergeList[Member](out.Members, source.Members, ids)
	out.Checklist = reconcile.MergeList[ChecklistItem](out.Checklist, source.Checklist, ids)
	out.Attributes = reconcile.Attributes(out.Attributes, source.Attributes)
	out.CreatedAt = keepTime(out.CreatedAt, source.CreatedAt)
	out.UpdatedAt = keepTime(out.UpdatedAt, source.UpdatedAt)
	return out
}

// ReplaceWith implements reconcile.Record with replace semantics.
func (t *Task) ReplaceWith(source *Task, ids lookup.IDGenerator) *Task {
	base := t.Clone()
	out := source.Clone()
	out.ID = keepID(base.ID, source.ID)
	out.CreatedAt = keepTime(base.CreatedAt, source.CreatedAt)
	out.UpdatedAt = keepTime(base.UpdatedAt, source.UpdatedAt)
	out.Members = reconcile.ReplaceList[Member](source.Members, ids)
	out.Checklist = reconcile.ReplaceList[ChecklistItem](source.Checklist, ids)
	return out
}
