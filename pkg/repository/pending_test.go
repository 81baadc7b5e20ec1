package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Business010101/aimodbot/pkg/domain/interfaces"
	"github.com/Business010101/aimodbot/pkg/domain/model"
	"github.com/Business010101/aimodbot/pkg/domain/types"
	"github.com/Business010101/aimodbot/pkg/repository/memory"
	"github.com/m-mizutani/gt"
)

func newPendingEntry(token types.ConfirmToken, requesterID string) *model.PendingEntry {
	return &model.PendingEntry{
		Token:       token,
		GuildID:     "G100",
		RequesterID: requesterID,
		Instruction: "delete the spam channel",
		Actions: model.ActionList{
			{Kind: types.ActionDeleteChannel, Target: "spam"},
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestPendingStore(t *testing.T) {
	ctx := context.Background()

	t.Run("owner takes entry exactly once", func(t *testing.T) {
		store := memory.NewPendingStore()
		gt.NoError(t, store.Put(ctx, newPendingEntry("msg-1", "U100"))).Required()

		taken, err := store.TakeIfOwner(ctx, "msg-1", "U100")
		gt.NoError(t, err).Required()
		gt.Value(t, taken.RequesterID).Equal("U100")
		gt.Array(t, taken.Actions).Length(1)

		// Second take must fail: the entry is gone
		_, err = store.TakeIfOwner(ctx, "msg-1", "U100")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, interfaces.ErrPendingNotFound)).True()
	})

	t.Run("non-owner is rejected and entry stays intact", func(t *testing.T) {
		store := memory.NewPendingStore()
		gt.NoError(t, store.Put(ctx, newPendingEntry("msg-2", "U100"))).Required()

		_, err := store.TakeIfOwner(ctx, "msg-2", "U999")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, interfaces.ErrNotOwner)).True()

		// The rogue attempt must not consume the entry
		taken, err := store.TakeIfOwner(ctx, "msg-2", "U100")
		gt.NoError(t, err).Required()
		gt.Value(t, taken.Token).Equal(types.ConfirmToken("msg-2"))
	})

	t.Run("unknown token", func(t *testing.T) {
		store := memory.NewPendingStore()
		_, err := store.TakeIfOwner(ctx, "no-such-token", "U100")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, interfaces.ErrPendingNotFound)).True()
	})

	t.Run("put overwrites existing entry for token", func(t *testing.T) {
		store := memory.NewPendingStore()
		gt.NoError(t, store.Put(ctx, newPendingEntry("msg-3", "U100")))

		replacement := newPendingEntry("msg-3", "U200")
		replacement.Instruction = "delete the old role"
		gt.NoError(t, store.Put(ctx, replacement))

		_, err := store.TakeIfOwner(ctx, "msg-3", "U100")
		gt.Bool(t, errors.Is(err, interfaces.ErrNotOwner)).True()

		taken, err := store.TakeIfOwner(ctx, "msg-3", "U200")
		gt.NoError(t, err).Required()
		gt.Value(t, taken.Instruction).Equal("delete the old role")
	})

	t.Run("discard removes silently", func(t *testing.T) {
		store := memory.NewPendingStore()
		gt.NoError(t, store.Put(ctx, newPendingEntry("msg-4", "U100")))
		gt.NoError(t, store.Discard(ctx, "msg-4"))
		gt.NoError(t, store.Discard(ctx, "msg-4")) // idempotent

		_, err := store.TakeIfOwner(ctx, "msg-4", "U100")
		gt.Bool(t, errors.Is(err, interfaces.ErrPendingNotFound)).True()
	})

	t.Run("invalid entry rejected", func(t *testing.T) {
		store := memory.NewPendingStore()
		gt.Error(t, store.Put(ctx, &model.PendingEntry{Token: "msg-5"}))
	})

	t.Run("concurrent takes resolve to one winner", func(t *testing.T) {
		store := memory.NewPendingStore()
		gt.NoError(t, store.Put(ctx, newPendingEntry("msg-race", "U100"))).Required()

		const attempts = 32
		var wg sync.WaitGroup
		var mu sync.Mutex
		var wins int

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := store.TakeIfOwner(ctx, "msg-race", "U100"); err == nil {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		gt.Value(t, wins).Equal(1)
	})
}
