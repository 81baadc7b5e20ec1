package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Business010101/aimodbot/pkg/domain/interfaces"
	"github.com/Business010101/aimodbot/pkg/domain/model"
	"github.com/Business010101/aimodbot/pkg/domain/types"
	"github.com/Business010101/aimodbot/pkg/repository/memory"
	"github.com/m-mizutani/gt"
)

func TestPendingExpiry(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

	entry := &model.PendingEntry{
		Token:       "msg-1",
		GuildID:     "G100",
		RequesterID: "U100",
		Instruction: "delete the spam channel",
		Actions: model.ActionList{
			{Kind: types.ActionDeleteChannel, Target: "spam"},
		},
		CreatedAt: base,
		ExpiresAt: base.Add(2 * time.Minute),
	}

	t.Run("take before deadline succeeds", func(t *testing.T) {
		store := memory.NewPendingStore()
		store.SetNowFunc(func() time.Time { return base.Add(time.Minute) })
		gt.NoError(t, store.Put(ctx, entry)).Required()

		taken, err := store.TakeIfOwner(ctx, "msg-1", "U100")
		gt.NoError(t, err).Required()
		gt.Value(t, taken.Token).Equal(types.ConfirmToken("msg-1"))
	})

	t.Run("take after deadline reports not found", func(t *testing.T) {
		store := memory.NewPendingStore()
		gt.NoError(t, store.Put(ctx, entry)).Required()
		store.SetNowFunc(func() time.Time { return base.Add(3 * time.Minute) })

		_, err := store.TakeIfOwner(ctx, "msg-1", "U100")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, interfaces.ErrPendingNotFound)).True()

		// Expiry removes the entry, so the owner cannot revive it
		store.SetNowFunc(func() time.Time { return base })
		_, err = store.TakeIfOwner(ctx, "msg-1", "U100")
		gt.Bool(t, errors.Is(err, interfaces.ErrPendingNotFound)).True()
	})

	t.Run("zero deadline never expires", func(t *testing.T) {
		store := memory.NewPendingStore()
		forever := &model.PendingEntry{
			Token:       "msg-2",
			GuildID:     "G100",
			RequesterID: "U100",
			Instruction: "rename things",
			Actions:     entry.Actions,
			CreatedAt:   base,
		}
		gt.NoError(t, store.Put(ctx, forever)).Required()
		store.SetNowFunc(func() time.Time { return base.Add(24 * time.Hour) })

		_, err := store.TakeIfOwner(ctx, "msg-2", "U100")
		gt.NoError(t, err)
	})
}
