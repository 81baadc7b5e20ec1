package types

import "fmt"

// ActionKind represents one administrative operation kind. The vocabulary is a
// fixed, closed set: values outside it are rejected at parse time, never dropped.
type ActionKind string

const (
	ActionCreateChannel         ActionKind = "create_channel"
	ActionDeleteChannel         ActionKind = "delete_channel"
	ActionCreateRole            ActionKind = "create_role"
	ActionDeleteRole            ActionKind = "delete_role"
	ActionAssignRole            ActionKind = "assign_role"
	ActionRemoveRole            ActionKind = "remove_role"
	ActionLockChannel           ActionKind = "lock_channel"
	ActionUnlockChannel         ActionKind = "unlock_channel"
	ActionCreateCategory        ActionKind = "create_category"
	ActionSetChannelPermissions ActionKind = "set_channel_permissions"
)

// AllActionKinds returns all valid action kinds
func AllActionKinds() []ActionKind {
	return []ActionKind{
		ActionCreateChannel,
		ActionDeleteChannel,
		ActionCreateRole,
		ActionDeleteRole,
		ActionAssignRole,
		ActionRemoveRole,
		ActionLockChannel,
		ActionUnlockChannel,
		ActionCreateCategory,
		ActionSetChannelPermissions,
	}
}

// IsValid checks if the action kind is valid
func (k ActionKind) IsValid() bool {
	switch k {
	case ActionCreateChannel,
		ActionDeleteChannel,
		ActionCreateRole,
		ActionDeleteRole,
		ActionAssignRole,
		ActionRemoveRole,
		ActionLockChannel,
		ActionUnlockChannel,
		ActionCreateCategory,
		ActionSetChannelPermissions:
		return true
	default:
		return false
	}
}

// IsDestructive reports whether the kind deletes or irreversibly alters server
// state. Destructive kinds require human confirmation before execution.
func (k ActionKind) IsDestructive() bool {
	switch k {
	case ActionDeleteChannel, ActionDeleteRole:
		return true
	default:
		return false
	}
}

// String returns the string representation of the action kind
func (k ActionKind) String() string {
	return string(k)
}

// ParseActionKind parses a string into an ActionKind
func ParseActionKind(s string) (ActionKind, error) {
	kind := ActionKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid action kind: %s", s)
	}
	return kind, nil
}
