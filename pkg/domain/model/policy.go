package model

import (
	"time"

	"github.com/Business010101/aimodbot/pkg/domain/types"
)

// DefaultPendingTTL is how long a confirmation prompt stays valid
const DefaultPendingTTL = 2 * time.Minute

// Policy configures confirmation behavior. The built-in destructiveness
// classification (delete_channel, delete_role) applies unless a deployment
// overrides the set via a policy file.
type Policy struct {
	// DestructiveKinds overrides the set of kinds requiring confirmation.
	// Empty means the built-in ActionKind.IsDestructive classification.
	DestructiveKinds []types.ActionKind

	// PendingTTL is how long a pending entry may await confirmation.
	// Zero means DefaultPendingTTL.
	PendingTTL time.Duration
}

// IsDestructive reports whether the kind requires confirmation under this
// policy. Safe to call on a nil policy.
func (p *Policy) IsDestructive(kind types.ActionKind) bool {
	if p == nil || len(p.DestructiveKinds) == 0 {
		return kind.IsDestructive()
	}
	for _, k := range p.DestructiveKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// TTL returns the pending entry lifetime under this policy. Safe to call on a
// nil policy.
func (p *Policy) TTL() time.Duration {
	if p == nil || p.PendingTTL <= 0 {
		return DefaultPendingTTL
	}
	return p.PendingTTL
}
