package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Business010101/aimodbot/pkg/domain/interfaces"
	"github.com/Business010101/aimodbot/pkg/domain/model"
	"github.com/Business010101/aimodbot/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// PendingStore is the in-memory pending action store. It is exported so that
// the Firestore-backed repository can embed it: pending entries are transient
// by contract and never touch a persistent backend.
type PendingStore struct {
	mu      sync.Mutex
	entries map[types.ConfirmToken]*model.PendingEntry

	// now is replaceable for expiry tests
	now func() time.Time
}

var _ interfaces.PendingRepository = &PendingStore{}

func NewPendingStore() *PendingStore {
	return &PendingStore{
		entries: make(map[types.ConfirmToken]*model.PendingEntry),
		now:     time.Now,
	}
}

func copyPendingEntry(e *model.PendingEntry) *model.PendingEntry {
	copied := &model.PendingEntry{
		Token:       e.Token,
		GuildID:     e.GuildID,
		RequesterID: e.RequesterID,
		Instruction: e.Instruction,
		CreatedAt:   e.CreatedAt,
		ExpiresAt:   e.ExpiresAt,
	}
	copied.Actions = make(model.ActionList, len(e.Actions))
	copy(copied.Actions, e.Actions)
	return copied
}

func (s *PendingStore) Put(ctx context.Context, entry *model.PendingEntry) error {
	if err := entry.Validate(); err != nil {
		return goerr.Wrap(err, "invalid pending entry")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.Token] = copyPendingEntry(entry)
	return nil
}

// TakeIfOwner holds the lock across the owner check and the removal so that
// the two steps are one indivisible operation. Expired entries are dropped on
// access and reported as not found.
func (s *PendingStore) TakeIfOwner(ctx context.Context, token types.ConfirmToken, requesterID string) (*model.PendingEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[token]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrPendingNotFound, "no pending entry for token",
			goerr.V("token", token))
	}

	if entry.Expired(s.now()) {
		delete(s.entries, token)
		return nil, goerr.Wrap(interfaces.ErrPendingNotFound, "pending entry expired",
			goerr.V("token", token))
	}

	if entry.RequesterID != requesterID {
		// Entry stays intact: a rogue click must not consume it
		return nil, goerr.Wrap(interfaces.ErrNotOwner, "requester does not own pending entry",
			goerr.V("token", token))
	}

	delete(s.entries, token)
	return copyPendingEntry(entry), nil
}

func (s *PendingStore) Discard(ctx context.Context, token types.ConfirmToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, token)
	return nil
}
