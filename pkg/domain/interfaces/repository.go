package interfaces

import (
	"context"

	"github.com/Business010101/aimodbot/pkg/domain/model"
	"github.com/Business010101/aimodbot/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Sentinel errors shared by all repository backends
var (
	ErrPendingNotFound = goerr.New("pending action not found")
	ErrNotOwner        = goerr.New("pending action belongs to a different user")
)

// Repository aggregates the storage backends of the bot
type Repository interface {
	Pending() PendingRepository
	History() HistoryRepository
	Close() error
}

// PendingRepository is the store bridging the asynchronous human confirmation
// step. Entries are short-lived and never persisted: losing them on restart is
// accepted, re-issuing an instruction is cheap.
type PendingRepository interface {
	// Put stores an entry, overwriting any existing entry for the token
	Put(ctx context.Context, entry *model.PendingEntry) error

	// TakeIfOwner atomically looks up and removes the entry for token.
	// Returns ErrPendingNotFound if no live entry exists, or ErrNotOwner
	// (leaving the entry intact) if requesterID is not the entry's
	// requester. The check-owner-and-remove step is indivisible so that two
	// concurrent confirmation clicks resolve to exactly one winner.
	TakeIfOwner(ctx context.Context, token types.ConfirmToken, requesterID string) (*model.PendingEntry, error)

	// Discard removes the entry for token without returning it
	Discard(ctx context.Context, token types.ConfirmToken) error
}

// HistoryRepository records executed command batches for auditing
type HistoryRepository interface {
	Create(ctx context.Context, record *model.CommandRecord) (*model.CommandRecord, error)
	List(ctx context.Context, guildID string, limit int) ([]*model.CommandRecord, error)
}
