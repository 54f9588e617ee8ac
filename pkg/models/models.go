// Package models holds the concrete records the engine reconciles: tasks,
// task types, teams and events, and the sub-records they nest.
//
// Optional values are encoded explicitly: strings use the empty string for
// absence, other optional scalars and nested records are pointers, and nil
// collections are absent while empty ones are present. Every root record
// implements reconcile.Record and every keyed sub-record reconcile.Element.
package models

import (
	"github.com/agentstation/utc"

	"github.com/agentstation/modelsync/pkg/reconcile"
)

// Kind names a root model type.
type Kind string

// String returns the string representation of a Kind.
func (k Kind) String() string {
	return string(k)
}

// Root model kinds.
const (
	KindTask     Kind = "task"      // Work items
	KindTaskType Kind = "task_type" // Task types and their attribute schemas
	KindTeam     Kind = "team"      // Groups of members
	KindEvent    Kind = "event"     // Scheduled events with reminders
)

// Kinds returns every root model kind.
func Kinds() []Kind {
	return []Kind{KindTask, KindTaskType, KindTeam, KindEvent}
}

// keepID returns the target identity, or the source one when the target
// has none yet.
func keepID(target, source string) string {
	if target != "" {
		return target
	}
	return source
}

// keepTime returns a copy of the target timestamp, or of the source one when
// the target has none.
func keepTime(target, source *utc.Time) *utc.Time {
	if target != nil {
		return reconcile.ClonePointer(target)
	}
	return reconcile.ClonePointer(source)
}
