package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Business010101/aimodbot/pkg/domain/model"
	"github.com/Business010101/aimodbot/pkg/domain/types"
	"github.com/Business010101/aimodbot/pkg/service/discord"
	"github.com/Business010101/aimodbot/pkg/utils/logging"
)

// ExecuteUseCase applies a validated action list to a guild. Actions run
// strictly in list order and each failure is isolated: one broken action
// never aborts the rest of the plan.
type ExecuteUseCase struct {
	discord discord.Service
}

func NewExecuteUseCase(discordSvc discord.Service) *ExecuteUseCase {
	return &ExecuteUseCase{discord: discordSvc}
}

// execution carries per-run state: categories created earlier in the same
// plan are addressable by name for later create_channel actions.
type execution struct {
	guildID           string
	createdCategories map[string]string
}

// Execute runs the actions one by one and reports an outcome per action. The
// returned slice always has one element per input action, in input order.
func (uc *ExecuteUseCase) Execute(ctx context.Context, guildID string, actions model.ActionList) []model.ActionOutcome {
	run := &execution{
		guildID:           guildID,
		createdCategories: make(map[string]string),
	}

	outcomes := make([]model.ActionOutcome, 0, len(actions))
	for _, action := range actions {
		ref, err := uc.apply(ctx, run, action)

		outcome := model.ActionOutcome{
			Action:    action,
			Succeeded: err == nil,
			ResultRef: ref,
		}
		if err != nil {
			outcome.Error = err.Error()
			logging.From(ctx).Warn("action failed",
				"guildID", guildID,
				"kind", action.Kind,
				"target", action.Target,
				"error", err,
			)
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

func (uc *ExecuteUseCase) apply(ctx context.Context, run *execution, action model.Action) (string, error) {
	switch action.Kind {
	case types.ActionCreateChannel:
		return uc.createChannel(ctx, run, action)
	case types.ActionDeleteChannel:
		ch, err := uc.discord.FindChannel(ctx, run.guildID, action.Target)
		if err != nil {
			return "", err
		}
		return ch.ID, uc.discord.DeleteChannel(ctx, ch.ID)

	case types.ActionCreateCategory:
		cat, err := uc.discord.CreateCategory(ctx, run.guildID, action.Target)
		if err != nil {
			return "", err
		}
		run.createdCategories[strings.ToLower(action.Target)] = cat.ID
		return cat.ID, nil

	case types.ActionCreateRole:
		color, err := parseRoleColor(action.Params.Color)
		if err != nil {
			return "", err
		}
		role, err := uc.discord.CreateRole(ctx, run.guildID, action.Target, color)
		if err != nil {
			return "", err
		}
		return role.ID, nil

	case types.ActionDeleteRole:
		role, err := uc.discord.FindRole(ctx, run.guildID, action.Target)
		if err != nil {
			return "", err
		}
		return role.ID, uc.discord.DeleteRole(ctx, run.guildID, role.ID)

	case types.ActionAssignRole:
		return uc.changeMemberRole(ctx, run, action, uc.discord.AddMemberRole)
	case types.ActionRemoveRole:
		return uc.changeMemberRole(ctx, run, action, uc.discord.RemoveMemberRole)

	case types.ActionLockChannel:
		ch, err := uc.discord.FindChannel(ctx, run.guildID, action.Target)
		if err != nil {
			return "", err
		}
		return ch.ID, uc.discord.LockChannel(ctx, run.guildID, ch.ID)

	case types.ActionUnlockChannel:
		ch, err := uc.discord.FindChannel(ctx, run.guildID, action.Target)
		if err != nil {
			return "", err
		}
		return ch.ID, uc.discord.UnlockChannel(ctx, run.guildID, ch.ID)

	case types.ActionSetChannelPermissions:
		return uc.setChannelPermissions(ctx, run, action)

	default:
		return "", goerr.New("unsupported action kind", goerr.V(KindKey, action.Kind))
	}
}

func (uc *ExecuteUseCase) createChannel(ctx context.Context, run *execution, action model.Action) (string, error) {
	parentID := ""
	if category := action.Params.Category; category != "" {
		id, err := uc.resolveCategory(ctx, run, category)
		if err != nil {
			return "", err
		}
		parentID = id
	}

	kind := action.Params.Type
	if kind == "" {
		kind = types.ChannelTypeText
	}

	ch, err := uc.discord.CreateChannel(ctx, run.guildID, action.Target, kind, parentID)
	if err != nil {
		return "", err
	}
	return ch.ID, nil
}

// resolveCategory finds the category by name, preferring categories created
// earlier in the same plan. A category that does not exist yet is created on
// demand so that "make a Gaming category with a lobby channel" works even when
// the model references the category by name only.
func (uc *ExecuteUseCase) resolveCategory(ctx context.Context, run *execution, name string) (string, error) {
	if id, ok := run.createdCategories[strings.ToLower(name)]; ok {
		return id, nil
	}

	ch, err := uc.discord.FindChannel(ctx, run.guildID, name)
	if err == nil {
		return ch.ID, nil
	}
	if !errors.Is(err, discord.ErrNotFound) {
		return "", err
	}

	cat, err := uc.discord.CreateCategory(ctx, run.guildID, name)
	if err != nil {
		return "", err
	}
	run.createdCategories[strings.ToLower(name)] = cat.ID
	return cat.ID, nil
}

func (uc *ExecuteUseCase) changeMemberRole(
	ctx context.Context,
	run *execution,
	action model.Action,
	change func(ctx context.Context, guildID, userID, roleID string) error,
) (string, error) {
	member, err := uc.discord.FindMember(ctx, run.guildID, action.Target)
	if err != nil {
		return "", err
	}
	role, err := uc.discord.FindRole(ctx, run.guildID, action.Params.Role)
	if err != nil {
		return "", err
	}
	return member.UserID, change(ctx, run.guildID, member.UserID, role.ID)
}

func (uc *ExecuteUseCase) setChannelPermissions(ctx context.Context, run *execution, action model.Action) (string, error) {
	ch, err := uc.discord.FindChannel(ctx, run.guildID, action.Target)
	if err != nil {
		return "", err
	}

	var targetID string
	switch action.Params.TargetType {
	case types.TargetTypeUser:
		member, err := uc.discord.FindMember(ctx, run.guildID, action.Params.Subject)
		if err != nil {
			return "", err
		}
		targetID = member.UserID
	default:
		role, err := uc.discord.FindRole(ctx, run.guildID, action.Params.Subject)
		if err != nil {
			return "", err
		}
		targetID = role.ID
	}

	allow, deny, err := discord.PermissionBits(action.Params.Permissions)
	if err != nil {
		return "", err
	}

	return ch.ID, uc.discord.SetChannelPermissions(ctx, ch.ID, targetID, action.Params.TargetType, allow, deny)
}

// parseRoleColor converts a 6-digit hex string to an RGB int. An empty color
// returns -1, which the Discord layer maps to the platform default.
func parseRoleColor(color string) (int, error) {
	if color == "" {
		return -1, nil
	}
	v, err := strconv.ParseInt(color, 16, 32)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid role color", goerr.V("color", color))
	}
	return int(v), nil
}
