package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/Business010101/aimodbot/pkg/service/discord"
)

// Discord holds configuration for the Discord bot connection
type Discord struct {
	token   string
	appID   string
	guildID string
}

func (x *Discord) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "discord-token",
			Usage:       "Discord bot token",
			Category:    "Discord",
			Sources:     cli.EnvVars("AIMODBOT_DISCORD_TOKEN"),
			Destination: &x.token,
		},
		&cli.StringFlag{
			Name:        "discord-app-id",
			Usage:       "Discord application ID (for slash command registration)",
			Category:    "Discord",
			Sources:     cli.EnvVars("AIMODBOT_DISCORD_APP_ID"),
			Destination: &x.appID,
		},
		&cli.StringFlag{
			Name:        "discord-guild-id",
			Usage:       "Guild ID for guild-scoped command registration (empty registers globally)",
			Category:    "Discord",
			Sources:     cli.EnvVars("AIMODBOT_DISCORD_GUILD_ID"),
			Destination: &x.guildID,
		},
	}
}

func (x Discord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("token.len", len(x.token)),
		slog.String("app_id", x.appID),
		slog.String("guild_id", x.guildID),
	)
}

// AppID returns the Discord application ID
func (x *Discord) AppID() string {
	return x.appID
}

// GuildID returns the guild scope for command registration
func (x *Discord) GuildID() string {
	return x.guildID
}

// Configure creates the Discord client from the configured flags
func (x *Discord) Configure() (*discord.Client, error) {
	if x.token == "" {
		return nil, goerr.Wrap(ErrInvalidConfig, "discord-token is required")
	}
	if x.appID == "" {
		return nil, goerr.Wrap(ErrInvalidConfig, "discord-app-id is required")
	}

	return discord.New(x.token)
}
