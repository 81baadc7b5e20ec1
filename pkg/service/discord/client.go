package discord

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/m-mizutani/goerr/v2"

	"github.com/Business010101/aimodbot/pkg/domain/types"
)

// memberSearchLimit bounds the number of candidates fetched per name lookup
const memberSearchLimit = 25

// Client implements Service on top of a discordgo gateway session. The
// session is also used by the interaction controller, which needs the raw
// *discordgo.Session for command registration and responses.
type Client struct {
	session *discordgo.Session
}

var _ Service = &Client{}

// New creates a Discord client with the provided bot token. The gateway
// connection is not opened until Open is called.
func New(token string) (*Client, error) {
	if token == "" {
		return nil, goerr.New("Discord bot token is required")
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Discord session")
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages

	return &Client{session: session}, nil
}

// Session exposes the underlying gateway session for the controller layer
func (c *Client) Session() *discordgo.Session {
	return c.session
}

// Open connects to the Discord gateway
func (c *Client) Open() error {
	if err := c.session.Open(); err != nil {
		return goerr.Wrap(err, "failed to open Discord gateway connection")
	}
	return nil
}

// Close disconnects from the Discord gateway
func (c *Client) Close() error {
	if err := c.session.Close(); err != nil {
		return goerr.Wrap(err, "failed to close Discord gateway connection")
	}
	return nil
}

// BotUser returns the authenticated bot user, or nil before the gateway
// handshake completes
func (c *Client) BotUser() *discordgo.User {
	if c.session.State == nil {
		return nil
	}
	return c.session.State.User
}

// BotUsername returns the bot account name, or empty before the gateway
// handshake completes
func (c *Client) BotUsername() string {
	if u := c.BotUser(); u != nil {
		return u.Username
	}
	return ""
}

// GuildCount returns the number of guilds visible to the session
func (c *Client) GuildCount() int {
	if c.session.State == nil {
		return 0
	}
	return len(c.session.State.Guilds)
}

// Latency returns the gateway heartbeat round trip time
func (c *Client) Latency() time.Duration {
	return c.session.HeartbeatLatency()
}

func (c *Client) FindChannel(ctx context.Context, guildID, name string) (*Channel, error) {
	channels, err := c.session.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list guild channels", goerr.V("guildID", guildID))
	}

	for _, ch := range channels {
		if strings.EqualFold(ch.Name, name) {
			return &Channel{ID: ch.ID, Name: ch.Name, Type: ch.Type, ParentID: ch.ParentID}, nil
		}
	}

	return nil, goerr.Wrap(ErrNotFound, "channel not found", goerr.V("guildID", guildID), goerr.V("name", name))
}

func (c *Client) CreateChannel(ctx context.Context, guildID, name string, kind types.ChannelType, parentID string) (*Channel, error) {
	channelType := discordgo.ChannelTypeGuildText
	if kind == types.ChannelTypeVoice {
		channelType = discordgo.ChannelTypeGuildVoice
	}

	ch, err := c.session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     channelType,
		ParentID: parentID,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create channel",
			goerr.V("guildID", guildID), goerr.V("name", name), goerr.V("type", kind))
	}

	return &Channel{ID: ch.ID, Name: ch.Name, Type: ch.Type, ParentID: ch.ParentID}, nil
}

func (c *Client) CreateCategory(ctx context.Context, guildID, name string) (*Channel, error) {
	ch, err := c.session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name: name,
		Type: discordgo.ChannelTypeGuildCategory,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create category",
			goerr.V("guildID", guildID), goerr.V("name", name))
	}

	return &Channel{ID: ch.ID, Name: ch.Name, Type: ch.Type}, nil
}

func (c *Client) DeleteChannel(ctx context.Context, channelID string) error {
	if _, err := c.session.ChannelDelete(channelID, discordgo.WithContext(ctx)); err != nil {
		return goerr.Wrap(err, "failed to delete channel", goerr.V("channelID", channelID))
	}
	return nil
}

func (c *Client) FindRole(ctx context.Context, guildID, name string) (*Role, error) {
	roles, err := c.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list guild roles", goerr.V("guildID", guildID))
	}

	for _, r := range roles {
		if strings.EqualFold(r.Name, name) {
			return &Role{ID: r.ID, Name: r.Name, Color: r.Color}, nil
		}
	}

	return nil, goerr.Wrap(ErrNotFound, "role not found", goerr.V("guildID", guildID), goerr.V("name", name))
}

func (c *Client) CreateRole(ctx context.Context, guildID, name string, color int) (*Role, error) {
	params := &discordgo.RoleParams{Name: name}
	if color >= 0 {
		params.Color = &color
	}

	r, err := c.session.GuildRoleCreate(guildID, params, discordgo.WithContext(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create role",
			goerr.V("guildID", guildID), goerr.V("name", name))
	}

	return &Role{ID: r.ID, Name: r.Name, Color: r.Color}, nil
}

func (c *Client) DeleteRole(ctx context.Context, guildID, roleID string) error {
	if err := c.session.GuildRoleDelete(guildID, roleID, discordgo.WithContext(ctx)); err != nil {
		return goerr.Wrap(err, "failed to delete role",
			goerr.V("guildID", guildID), goerr.V("roleID", roleID))
	}
	return nil
}

func (c *Client) FindMember(ctx context.Context, guildID, name string) (*Member, error) {
	// A pure snowflake is treated as a user ID
	if isSnowflake(name) {
		m, err := c.session.GuildMember(guildID, name, discordgo.WithContext(ctx))
		if err == nil {
			return memberOf(m), nil
		}
	}

	members, err := c.session.GuildMembersSearch(guildID, name, memberSearchLimit, discordgo.WithContext(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search guild members",
			goerr.V("guildID", guildID), goerr.V("name", name))
	}

	for _, m := range members {
		if strings.EqualFold(m.User.Username, name) || strings.EqualFold(m.Nick, name) {
			return memberOf(m), nil
		}
	}
	// Fall back to the first prefix match when nothing matched exactly
	if len(members) == 1 {
		return memberOf(members[0]), nil
	}

	return nil, goerr.Wrap(ErrNotFound, "member not found", goerr.V("guildID", guildID), goerr.V("name", name))
}

func memberOf(m *discordgo.Member) *Member {
	return &Member{UserID: m.User.ID, Username: m.User.Username, Nick: m.Nick}
}

func isSnowflake(s string) bool {
	if len(s) < 15 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (c *Client) AddMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := c.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return goerr.Wrap(err, "failed to add role to member",
			goerr.V("guildID", guildID), goerr.V("userID", userID), goerr.V("roleID", roleID))
	}
	return nil
}

func (c *Client) RemoveMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := c.session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return goerr.Wrap(err, "failed to remove role from member",
			goerr.V("guildID", guildID), goerr.V("userID", userID), goerr.V("roleID", roleID))
	}
	return nil
}

func (c *Client) SetChannelPermissions(ctx context.Context, channelID, targetID string, kind types.TargetType, allow, deny int64) error {
	overwriteType := discordgo.PermissionOverwriteTypeRole
	if kind == types.TargetTypeUser {
		overwriteType = discordgo.PermissionOverwriteTypeMember
	}

	if err := c.session.ChannelPermissionSet(channelID, targetID, overwriteType, allow, deny, discordgo.WithContext(ctx)); err != nil {
		return goerr.Wrap(err, "failed to set channel permissions",
			goerr.V("channelID", channelID), goerr.V("targetID", targetID), goerr.V("targetType", kind))
	}
	return nil
}

// LockChannel denies send_messages for the everyone role. The everyone role
// shares its ID with the guild.
func (c *Client) LockChannel(ctx context.Context, guildID, channelID string) error {
	err := c.session.ChannelPermissionSet(channelID, guildID, discordgo.PermissionOverwriteTypeRole,
		0, discordgo.PermissionSendMessages, discordgo.WithContext(ctx))
	if err != nil {
		return goerr.Wrap(err, "failed to lock channel",
			goerr.V("guildID", guildID), goerr.V("channelID", channelID))
	}
	return nil
}

func (c *Client) UnlockChannel(ctx context.Context, guildID, channelID string) error {
	err := c.session.ChannelPermissionSet(channelID, guildID, discordgo.PermissionOverwriteTypeRole,
		discordgo.PermissionSendMessages, 0, discordgo.WithContext(ctx))
	if err != nil {
		return goerr.Wrap(err, "failed to unlock channel",
			goerr.V("guildID", guildID), goerr.V("channelID", channelID))
	}
	return nil
}
