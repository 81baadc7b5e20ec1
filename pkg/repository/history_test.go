package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/Business010101/aimodbot/pkg/domain/model"
	"github.com/Business010101/aimodbot/pkg/domain/types"
	"github.com/Business010101/aimodbot/pkg/repository/memory"
	"github.com/m-mizutani/gt"
)

func TestHistoryRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create fills ID and timestamp", func(t *testing.T) {
		repo := memory.New()
		rec := &model.CommandRecord{
			GuildID:     "G100",
			RequesterID: "U100",
			Instruction: "create a channel called general",
			Actions: model.ActionList{
				{Kind: types.ActionCreateChannel, Target: "general"},
			},
			Outcomes: []model.ActionOutcome{
				{Action: model.Action{Kind: types.ActionCreateChannel, Target: "general"}, Succeeded: true},
			},
		}

		created, err := repo.History().Create(ctx, rec)
		gt.NoError(t, err).Required()
		gt.String(t, created.ID).NotEqual("")
		gt.Bool(t, created.CreatedAt.IsZero()).False()

		// The input record must not be mutated
		gt.Value(t, rec.ID).Equal("")
	})

	t.Run("create requires guild", func(t *testing.T) {
		repo := memory.New()
		_, err := repo.History().Create(ctx, &model.CommandRecord{RequesterID: "U100"})
		gt.Error(t, err)
	})

	t.Run("list returns newest first and respects limit", func(t *testing.T) {
		repo := memory.New()
		base := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
		for i := 0; i < 5; i++ {
			_, err := repo.History().Create(ctx, &model.CommandRecord{
				GuildID:     "G100",
				RequesterID: "U100",
				Instruction: "instruction",
				CreatedAt:   base.Add(time.Duration(i) * time.Minute),
			})
			gt.NoError(t, err).Required()
		}

		records, err := repo.History().List(ctx, "G100", 3)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(3)
		gt.Value(t, records[0].CreatedAt).Equal(base.Add(4 * time.Minute))
		gt.Value(t, records[2].CreatedAt).Equal(base.Add(2 * time.Minute))
	})

	t.Run("list is scoped to guild", func(t *testing.T) {
		repo := memory.New()
		_, err := repo.History().Create(ctx, &model.CommandRecord{GuildID: "G100", RequesterID: "U100"})
		gt.NoError(t, err).Required()
		_, err = repo.History().Create(ctx, &model.CommandRecord{GuildID: "G200", RequesterID: "U100"})
		gt.NoError(t, err).Required()

		records, err := repo.History().List(ctx, "G200", 10)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(1)
		gt.Value(t, records[0].GuildID).Equal("G200")
	})
}
