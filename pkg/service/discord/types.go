package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/m-mizutani/goerr/v2"

	"github.com/Business010101/aimodbot/pkg/domain/types"
)

// ErrNotFound is returned when a channel, role, or member lookup has no match.
// Callers that create missing resources on demand check for it with errors.Is.
var ErrNotFound = goerr.New("not found")

// Service provides the guild administration surface of the Discord API.
// All name lookups are case-insensitive.
type Service interface {
	// FindChannel looks up a channel in the guild by name
	FindChannel(ctx context.Context, guildID, name string) (*Channel, error)

	// CreateChannel creates a text or voice channel. parentID is the category
	// to place it under; empty means top level. Returns the created channel.
	CreateChannel(ctx context.Context, guildID, name string, kind types.ChannelType, parentID string) (*Channel, error)

	// CreateCategory creates a channel category
	CreateCategory(ctx context.Context, guildID, name string) (*Channel, error)

	// DeleteChannel deletes a channel by ID
	DeleteChannel(ctx context.Context, channelID string) error

	// FindRole looks up a role in the guild by name
	FindRole(ctx context.Context, guildID, name string) (*Role, error)

	// CreateRole creates a role. color is an RGB value; pass a negative value
	// to use the Discord default.
	CreateRole(ctx context.Context, guildID, name string, color int) (*Role, error)

	// DeleteRole deletes a role by ID
	DeleteRole(ctx context.Context, guildID, roleID string) error

	// FindMember looks up a guild member by username, nickname, or user ID
	FindMember(ctx context.Context, guildID, name string) (*Member, error)

	// AddMemberRole grants a role to a member
	AddMemberRole(ctx context.Context, guildID, userID, roleID string) error

	// RemoveMemberRole revokes a role from a member
	RemoveMemberRole(ctx context.Context, guildID, userID, roleID string) error

	// SetChannelPermissions installs a permission overwrite on a channel for
	// the given role or member
	SetChannelPermissions(ctx context.Context, channelID, targetID string, kind types.TargetType, allow, deny int64) error

	// LockChannel denies message sending for the everyone role
	LockChannel(ctx context.Context, guildID, channelID string) error

	// UnlockChannel restores message sending for the everyone role
	UnlockChannel(ctx context.Context, guildID, channelID string) error
}

// Channel represents a Discord guild channel
type Channel struct {
	ID       string
	Name     string
	Type     discordgo.ChannelType
	ParentID string
}

// Role represents a Discord guild role
type Role struct {
	ID    string
	Name  string
	Color int
}

// Member represents a Discord guild member
type Member struct {
	UserID   string
	Username string
	Nick     string
}

// permissionBits maps the permission vocabulary to Discord permission flags.
// The vocabulary is closed: anything else is rejected at validation time.
var permissionBits = map[string]int64{
	"send_messages":   discordgo.PermissionSendMessages,
	"view_channel":    discordgo.PermissionViewChannel,
	"manage_messages": discordgo.PermissionManageMessages,
	"connect":         discordgo.PermissionVoiceConnect,
	"speak":           discordgo.PermissionVoiceSpeak,
}

// PermissionBits converts a permission name to bool map into Discord allow and
// deny bitmasks. Unknown names return an error rather than being dropped.
func PermissionBits(perms map[string]bool) (allow, deny int64, err error) {
	for name, granted := range perms {
		bit, ok := permissionBits[name]
		if !ok {
			return 0, 0, goerr.New("unknown permission name", goerr.V("permission", name))
		}
		if granted {
			allow |= bit
		} else {
			deny |= bit
		}
	}
	return allow, deny, nil
}
