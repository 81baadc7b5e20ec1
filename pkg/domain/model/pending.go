package model

import (
	"time"

	"github.com/Business010101/aimodbot/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// PendingEntry associates a confirmation token with a translated action list
// awaiting human confirmation. Entries are advisory: they live only in process
// memory and may be dropped without persistence.
type PendingEntry struct {
	Token       types.ConfirmToken
	GuildID     string
	RequesterID string
	Instruction string
	Actions     ActionList
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Validate checks the entry has everything needed for later resolution
func (e *PendingEntry) Validate() error {
	if err := e.Token.Validate(); err != nil {
		return goerr.Wrap(err, "invalid pending entry")
	}
	if e.RequesterID == "" {
		return goerr.New("pending entry requires a requester ID")
	}
	if len(e.Actions) == 0 {
		return goerr.New("pending entry requires at least one action")
	}
	return nil
}

// Expired reports whether the entry's confirmation window has passed.
// A zero ExpiresAt never expires.
func (e *PendingEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}
