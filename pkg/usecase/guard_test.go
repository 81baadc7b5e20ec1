package usecase_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/Business010101/aimodbot/pkg/domain/model"
	"github.com/Business010101/aimodbot/pkg/domain/types"
	"github.com/Business010101/aimodbot/pkg/usecase"
)

func TestAuthorize(t *testing.T) {
	plain := model.ActionList{{Kind: types.ActionCreateChannel, Target: "general"}}
	destructive := model.ActionList{{Kind: types.ActionDeleteRole, Target: "Old"}}

	t.Run("manage guild covers non-destructive plans", func(t *testing.T) {
		caps := usecase.Capabilities{ManageGuild: true}
		gt.NoError(t, usecase.Authorize(caps, plain, nil))
	})

	t.Run("no capability is rejected", func(t *testing.T) {
		err := usecase.Authorize(usecase.Capabilities{}, plain, nil)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrMissingCapability)).True()
	})

	t.Run("destructive plan needs administrator", func(t *testing.T) {
		caps := usecase.Capabilities{ManageGuild: true}
		err := usecase.Authorize(caps, destructive, nil)
		gt.Bool(t, errors.Is(err, usecase.ErrMissingCapability)).True()

		caps.Administrator = true
		gt.NoError(t, usecase.Authorize(caps, destructive, nil))
	})

	t.Run("policy widens the destructive set", func(t *testing.T) {
		policy := &model.Policy{DestructiveKinds: []types.ActionKind{types.ActionCreateRole}}
		caps := usecase.Capabilities{ManageGuild: true}

		err := usecase.Authorize(caps, model.ActionList{
			{Kind: types.ActionCreateRole, Target: "Admin"},
		}, policy)
		gt.Bool(t, errors.Is(err, usecase.ErrMissingCapability)).True()
	})
}
