package models

import (
	"github.com/agentstation/utc"

	"github.com/agentstation/modelsync/pkg/lookup"
	"github.com/agentstation/modelsync/pkg/reconcile"
	"github.com/agentstation/modelsync/pkg/validation"
)

// Role is the part a member plays.
type Role string

// String returns the string representation of a Role.
func (r Role) String() string {
	return string(r)
}

// Member roles.
const (
	RoleOwner    Role = "owner"    // Owns the task or team
	RoleAssignee Role = "assignee" // Works on the task
	RoleWatcher  Role = "watcher"  // Follows changes
)

// Member is a profile taking part in a task or team. Members are identified
// by the referenced profile, so a profile appears at most once per list.
type Member struct {
	UserID   string    `json:"user_id" yaml:"user_id"`                         // Referenced profile (identity key)
	Role     Role      `json:"role,omitempty" yaml:"role,omitempty"`           // Optional role
	JoinedAt *utc.Time `json:"joined_at,omitempty" yaml:"joined_at,omitempty"` // When the member joined
}

// Validate implements reconcile.Validatable.
func (m *Member) Validate(vc *validation.Context) error {
	if err := validation.Required(vc, "user_id", &m.UserID); err != nil {
		return err
	}
	vc.Reference("user_id", lookup.KindProfile, m.UserID, nil)
	return validation.Enum(vc, "role", m.Role, RoleOwner, RoleAssignee, RoleWatcher)
}

// IdentityKey implements reconcile.Element. The key is the normalized user
// id, so " u1" and "u1" name the same member before validation trims.
func (m *Member) IdentityKey() (string, bool) {
	key := m.UserID
	validation.Trim(&key)
	return key, key != ""
}

// EnsureIdentity implements reconcile.Element. Members use a natural key
// and never receive a generated one.
func (m *Member) EnsureIdentity(lookup.IDGenerator) {}

// Clone returns a deep copy. A nil receiver yields an empty member.
func (m *Member) Clone() *Member {
	if m == nil {
		return &Member{}
	}
	out := *m
	out.JoinedAt = reconcile.ClonePointer(m.JoinedAt)
	return &out
}

// MergeWith implements reconcile.Element.
func (m *Member) MergeWith(source *Member, _ lookup.IDGenerator) *Member {
	out := m.Clone()
	out.UserID = keepID(out.UserID, source.UserID)
	out.Role = reconcile.Scalar(out.Role, source.Role)
	out.JoinedAt = reconcile.Pointer(out.JoinedAt, source.JoinedAt)
	return out
}
