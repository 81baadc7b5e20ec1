package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Business010101/aimodbot/pkg/domain/types"
)

// Action represents one typed administrative operation parsed from a natural
// language instruction. Actions are only constructed through ParseAction or a
// command handler followed by Validate; an Action that fails its kind's schema
// is never handed to execution.
type Action struct {
	Kind   types.ActionKind `json:"kind"`
	Target string           `json:"target,omitempty"`
	Params ActionParams     `json:"params,omitempty"`
}

// ActionParams holds kind-specific optional fields of an Action
type ActionParams struct {
	// Type is the channel type for create_channel (defaults to text)
	Type types.ChannelType `json:"type,omitempty"`
	// Category is the parent category name for create_channel
	Category string `json:"category,omitempty"`
	// Color is a 6-hex-digit role color for create_role (no leading '#')
	Color string `json:"color,omitempty"`
	// Role is the role name for assign_role / remove_role
	Role string `json:"role,omitempty"`
	// Subject is the role or user a permission change applies to
	Subject string `json:"subject,omitempty"`
	// TargetType disambiguates Subject between role and user
	TargetType types.TargetType `json:"target_type,omitempty"`
	// Permissions maps permission names to allow (true) / deny (false)
	Permissions map[string]bool `json:"permissions,omitempty"`
}

// String returns a one-line human-readable description of the action
func (a Action) String() string {
	switch a.Kind {
	case types.ActionCreateChannel:
		desc := fmt.Sprintf("create %s channel %q", a.Params.Type, a.Target)
		if a.Params.Category != "" {
			desc += fmt.Sprintf(" in category %q", a.Params.Category)
		}
		return desc
	case types.ActionDeleteChannel:
		return fmt.Sprintf("delete channel %q", a.Target)
	case types.ActionCreateRole:
		if a.Params.Color != "" {
			return fmt.Sprintf("create role %q with color #%s", a.Target, a.Params.Color)
		}
		return fmt.Sprintf("create role %q", a.Target)
	case types.ActionDeleteRole:
		return fmt.Sprintf("delete role %q", a.Target)
	case types.ActionAssignRole:
		return fmt.Sprintf("assign role %q to %q", a.Params.Role, a.Target)
	case types.ActionRemoveRole:
		return fmt.Sprintf("remove role %q from %q", a.Params.Role, a.Target)
	case types.ActionLockChannel:
		return fmt.Sprintf("lock channel %q", a.Target)
	case types.ActionUnlockChannel:
		return fmt.Sprintf("unlock channel %q", a.Target)
	case types.ActionCreateCategory:
		return fmt.Sprintf("create category %q", a.Target)
	case types.ActionSetChannelPermissions:
		names := make([]string, 0, len(a.Params.Permissions))
		for name := range a.Params.Permissions {
			names = append(names, name)
		}
		sort.Strings(names)
		perms := make([]string, 0, len(names))
		for _, name := range names {
			perms = append(perms, fmt.Sprintf("%s=%t", name, a.Params.Permissions[name]))
		}
		return fmt.Sprintf("set permissions for %q in channel %q (%s)",
			a.Params.Subject, a.Target, strings.Join(perms, ", "))
	default:
		return string(a.Kind)
	}
}

// ActionList is an ordered batch of Actions from one translated instruction.
// The order is the execution order and is preserved end-to-end.
type ActionList []Action

// RequiresConfirmation reports whether any action in the list is destructive
// under the given policy. Gating is per-list: one destructive member requires
// confirmation for the whole batch. A nil policy uses the built-in
// destructiveness classification.
func (l ActionList) RequiresConfirmation(p *Policy) bool {
	for _, a := range l {
		if p.IsDestructive(a.Kind) {
			return true
		}
	}
	return false
}
