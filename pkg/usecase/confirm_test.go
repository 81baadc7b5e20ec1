package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/Business010101/aimodbot/pkg/domain/interfaces"
	"github.com/Business010101/aimodbot/pkg/domain/model"
	"github.com/Business010101/aimodbot/pkg/domain/types"
	"github.com/Business010101/aimodbot/pkg/repository/memory"
	"github.com/Business010101/aimodbot/pkg/usecase"
)

func destructivePlan() model.ActionList {
	return model.ActionList{
		{Kind: types.ActionDeleteChannel, Target: "spam"},
	}
}

func TestConfirmFlow(t *testing.T) {
	ctx := context.Background()

	setup := func() (*usecase.ConfirmUseCase, *mockGuild, interfaces.Repository) {
		repo := memory.New()
		guild := newMockGuild()
		guild.channels["spam"] = "ch-1"
		uc := usecase.NewConfirmUseCase(repo, usecase.NewExecuteUseCase(guild), nil)
		return uc, guild, repo
	}

	t.Run("destructive plan requires confirmation", func(t *testing.T) {
		uc, _, _ := setup()
		gt.Bool(t, uc.RequiresConfirmation(destructivePlan())).True()
		gt.Bool(t, uc.RequiresConfirmation(model.ActionList{
			{Kind: types.ActionCreateChannel, Target: "general"},
		})).False()
	})

	t.Run("policy overrides destructive set", func(t *testing.T) {
		repo := memory.New()
		policy := &model.Policy{DestructiveKinds: []types.ActionKind{types.ActionCreateRole}}
		uc := usecase.NewConfirmUseCase(repo, usecase.NewExecuteUseCase(newMockGuild()), policy)

		gt.Bool(t, uc.RequiresConfirmation(model.ActionList{
			{Kind: types.ActionCreateRole, Target: "Admin"},
		})).True()
		gt.Bool(t, uc.RequiresConfirmation(destructivePlan())).False()
	})

	t.Run("register then confirm executes and records", func(t *testing.T) {
		uc, guild, repo := setup()

		entry, err := uc.RegisterPending(ctx, "msg-1", "G100", "U100", "delete spam", destructivePlan())
		gt.NoError(t, err).Required()
		gt.Bool(t, entry.ExpiresAt.After(entry.CreatedAt)).True()

		outcomes, err := uc.Confirm(ctx, "msg-1", "U100")
		gt.NoError(t, err).Required()
		gt.Array(t, outcomes).Length(1)
		gt.Bool(t, outcomes[0].Succeeded).True()
		gt.Value(t, guild.calls).Equal([]string{"DeleteChannel(ch-1)"})

		records, err := repo.History().List(ctx, "G100", 10)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(1)
		gt.Bool(t, records[0].Confirmed).True()
		gt.Value(t, records[0].Instruction).Equal("delete spam")
	})

	t.Run("confirm by non-requester is rejected without executing", func(t *testing.T) {
		uc, guild, _ := setup()

		_, err := uc.RegisterPending(ctx, "msg-2", "G100", "U100", "delete spam", destructivePlan())
		gt.NoError(t, err).Required()

		_, err = uc.Confirm(ctx, "msg-2", "U999")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, interfaces.ErrNotOwner)).True()
		gt.Array(t, guild.calls).Length(0)

		// The plan survives for the real requester
		outcomes, err := uc.Confirm(ctx, "msg-2", "U100")
		gt.NoError(t, err).Required()
		gt.Array(t, outcomes).Length(1)
	})

	t.Run("double confirm executes once", func(t *testing.T) {
		uc, guild, _ := setup()

		_, err := uc.RegisterPending(ctx, "msg-3", "G100", "U100", "delete spam", destructivePlan())
		gt.NoError(t, err).Required()

		var wg sync.WaitGroup
		var mu sync.Mutex
		var wins int
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := uc.Confirm(ctx, "msg-3", "U100"); err == nil {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		gt.Value(t, wins).Equal(1)
		gt.Array(t, guild.calls).Length(1)
	})

	t.Run("decline discards without executing", func(t *testing.T) {
		uc, guild, _ := setup()

		_, err := uc.RegisterPending(ctx, "msg-4", "G100", "U100", "delete spam", destructivePlan())
		gt.NoError(t, err).Required()

		_, err = uc.Confirm(ctx, "msg-4", "U999")
		gt.Bool(t, errors.Is(err, interfaces.ErrNotOwner)).True()

		gt.NoError(t, uc.Decline(ctx, "msg-4", "U100"))
		gt.Array(t, guild.calls).Length(0)

		_, err = uc.Confirm(ctx, "msg-4", "U100")
		gt.Bool(t, errors.Is(err, interfaces.ErrPendingNotFound)).True()
	})

	t.Run("decline by non-requester keeps the plan", func(t *testing.T) {
		uc, _, _ := setup()

		_, err := uc.RegisterPending(ctx, "msg-5", "G100", "U100", "delete spam", destructivePlan())
		gt.NoError(t, err).Required()

		err = uc.Decline(ctx, "msg-5", "U999")
		gt.Bool(t, errors.Is(err, interfaces.ErrNotOwner)).True()

		outcomes, err := uc.Confirm(ctx, "msg-5", "U100")
		gt.NoError(t, err).Required()
		gt.Array(t, outcomes).Length(1)
	})

	t.Run("expire drops the plan", func(t *testing.T) {
		uc, _, _ := setup()

		_, err := uc.RegisterPending(ctx, "msg-6", "G100", "U100", "delete spam", destructivePlan())
		gt.NoError(t, err).Required()

		gt.NoError(t, uc.Expire(ctx, "msg-6"))
		gt.NoError(t, uc.Expire(ctx, "msg-6")) // idempotent

		_, err = uc.Confirm(ctx, "msg-6", "U100")
		gt.Bool(t, errors.Is(err, interfaces.ErrPendingNotFound)).True()
	})

	t.Run("immediate run records unconfirmed history", func(t *testing.T) {
		uc, guild, repo := setup()

		outcomes := uc.RunImmediate(ctx, "G100", "U100", "make general", model.ActionList{
			{Kind: types.ActionCreateChannel, Target: "general"},
		})
		gt.Array(t, outcomes).Length(1)
		gt.Bool(t, outcomes[0].Succeeded).True()
		gt.Array(t, guild.calls).Length(1)

		records, err := repo.History().List(ctx, "G100", 10)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(1)
		gt.Bool(t, records[0].Confirmed).False()
	})
}

func TestFormatOutcomes(t *testing.T) {
	outcomes := []model.ActionOutcome{
		{Action: model.Action{Kind: types.ActionCreateChannel, Target: "general", Params: model.ActionParams{Type: types.ChannelTypeText}}, Succeeded: true},
		{Action: model.Action{Kind: types.ActionDeleteChannel, Target: "spam"}, Succeeded: false, Error: "channel not found"},
	}

	text := usecase.FormatOutcomes(outcomes)
	gt.String(t, text).Contains(`✅ create text channel "general"`)
	gt.String(t, text).Contains(`❌ delete channel "spam": channel not found`)
	gt.String(t, text).Contains("1 succeeded, 1 failed")
}

func TestFormatPlan(t *testing.T) {
	text := usecase.FormatPlan(model.ActionList{
		{Kind: types.ActionCreateCategory, Target: "Gaming"},
		{Kind: types.ActionDeleteRole, Target: "Old"},
	})
	gt.Value(t, text).Equal("1. create category \"Gaming\"\n2. delete role \"Old\"")
}
