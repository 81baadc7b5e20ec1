package usecase

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/Business010101/aimodbot/pkg/domain/model"
)

// Capabilities is the requester's effective permission set, resolved by the
// transport layer from the interaction member
type Capabilities struct {
	ManageGuild   bool
	Administrator bool
}

// Authorize checks the requester against the plan. Any plan needs the manage
// guild capability; plans with a destructive action additionally need
// administrator. Administrator implies manage guild.
func Authorize(caps Capabilities, actions model.ActionList, policy *model.Policy) error {
	if !caps.ManageGuild && !caps.Administrator {
		return goerr.Wrap(ErrMissingCapability, "manage guild capability required")
	}

	for _, a := range actions {
		if policy.IsDestructive(a.Kind) && !caps.Administrator {
			return goerr.Wrap(ErrMissingCapability, "administrator capability required for destructive action",
				goerr.V(KindKey, a.Kind))
		}
	}

	return nil
}
