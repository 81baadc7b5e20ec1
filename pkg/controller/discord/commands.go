package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Business010101/aimodbot/pkg/domain/model"
	"github.com/Business010101/aimodbot/pkg/domain/types"
)

// commandPermissions limits command visibility to members who can manage the
// guild. The usecase layer re-checks capabilities; this only trims the UI.
var commandPermissions int64 = discordgo.PermissionManageServer

func commandDefinitions() []*discordgo.ApplicationCommand {
	channelTypeChoices := []*discordgo.ApplicationCommandOptionChoice{
		{Name: "text", Value: string(types.ChannelTypeText)},
		{Name: "voice", Value: string(types.ChannelTypeVoice)},
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:                     "admin",
			Description:              "Run an administrative instruction written in natural language",
			DefaultMemberPermissions: &commandPermissions,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "instruction",
					Description: "What to do, in plain language",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "auto_confirm",
					Description: "Execute destructive actions without a confirmation prompt",
				},
			},
		},
		{
			Name:                     "mod",
			Description:              "Run a single administrative action directly",
			DefaultMemberPermissions: &commandPermissions,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create-channel",
					Description: "Create a text or voice channel",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Channel name", Required: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "type", Description: "Channel type", Choices: channelTypeChoices},
						{Type: discordgo.ApplicationCommandOptionString, Name: "category", Description: "Category to place the channel under"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete-channel",
					Description: "Delete a channel",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Channel name", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create-category",
					Description: "Create a channel category",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Category name", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create-role",
					Description: "Create a role",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Role name", Required: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "color", Description: "6-digit hex RGB, e.g. ff0000"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete-role",
					Description: "Delete a role",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Role name", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "assign-role",
					Description: "Grant a role to a member",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "user", Description: "Username or user ID", Required: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "role", Description: "Role name", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove-role",
					Description: "Revoke a role from a member",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "user", Description: "Username or user ID", Required: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "role", Description: "Role name", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "lock",
					Description: "Stop everyone from sending messages in a channel",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "channel", Description: "Channel name", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "unlock",
					Description: "Allow sending messages in a locked channel again",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "channel", Description: "Channel name", Required: true},
					},
				},
			},
		},
		{
			Name:                     "history",
			Description:              "Show recent administrative commands run in this server",
			DefaultMemberPermissions: &commandPermissions,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "limit",
					Description: "How many records to show (default 5)",
				},
			},
		},
	}
}

// directAction builds the single action a /mod subcommand stands for
func directAction(sub *discordgo.ApplicationCommandInteractionDataOption) (*model.Action, error) {
	opt := func(name string) string {
		for _, o := range sub.Options {
			if o.Name == name {
				return o.StringValue()
			}
		}
		return ""
	}

	var action model.Action
	switch sub.Name {
	case "create-channel":
		action = model.Action{
			Kind:   types.ActionCreateChannel,
			Target: opt("name"),
			Params: model.ActionParams{
				Type:     types.ChannelType(opt("type")),
				Category: opt("category"),
			},
		}
		if action.Params.Type == "" {
			action.Params.Type = types.ChannelTypeText
		}
	case "delete-channel":
		action = model.Action{Kind: types.ActionDeleteChannel, Target: opt("name")}
	case "create-category":
		action = model.Action{Kind: types.ActionCreateCategory, Target: opt("name")}
	case "create-role":
		action = model.Action{
			Kind:   types.ActionCreateRole,
			Target: opt("name"),
			Params: model.ActionParams{Color: strings.TrimPrefix(opt("color"), "#")},
		}
	case "delete-role":
		action = model.Action{Kind: types.ActionDeleteRole, Target: opt("name")}
	case "assign-role":
		action = model.Action{
			Kind:   types.ActionAssignRole,
			Target: opt("user"),
			Params: model.ActionParams{Role: opt("role")},
		}
	case "remove-role":
		action = model.Action{
			Kind:   types.ActionRemoveRole,
			Target: opt("user"),
			Params: model.ActionParams{Role: opt("role")},
		}
	case "lock":
		action = model.Action{Kind: types.ActionLockChannel, Target: opt("channel")}
	case "unlock":
		action = model.Action{Kind: types.ActionUnlockChannel, Target: opt("channel")}
	default:
		return nil, model.ErrUnknownActionKind
	}

	if err := model.ValidateAction(&action); err != nil {
		return nil, err
	}
	return &action, nil
}
