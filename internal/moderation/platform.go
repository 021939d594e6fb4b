// Package moderation implements the moderation action pipeline: authorization,
// the passive warn listener, ban/mute enforcement and the banned-name list.
package moderation

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Embed colours used in replies.
const (
	ColorRed    = 0xFF0000
	ColorGreen  = 0x00FF00
	ColorYellow = 0xFFFF00
	ColorGray   = 0x979C9F
	ColorBrand  = 0x57F287
)

// EmbedField is a single name/value pair in an embed.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Embed is a platform-neutral rich message block.
type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
	Footer      string
}

// Message is an outgoing chat message.
type Message struct {
	Content string
	Embeds  []Embed
	// Reply references the triggering message when sent through a Responder.
	Reply bool
}

// User is a platform account.
type User struct {
	ID       snowflake.ID
	Username string
}

// Member is a user's membership in a guild.
type Member struct {
	User
	Roles []snowflake.ID
}

// Platform is the chat platform capability set the pipeline depends on.
type Platform interface {
	// SendDirectMessage returns ErrUnreachable if the user does not accept messages.
	SendDirectMessage(ctx context.Context, userID snowflake.ID, msg Message) error
	// Ban returns ErrForbidden if the bot lacks the privilege.
	Ban(ctx context.Context, guildID, userID snowflake.ID, reason string) error
	Unban(ctx context.Context, guildID, userID snowflake.ID, reason string) error
	// Timeout restricts the member until the given time, replacing any existing restriction.
	Timeout(ctx context.Context, guildID, userID snowflake.ID, until time.Time, reason string) error
	RemoveTimeout(ctx context.Context, guildID, userID snowflake.ID, reason string) error
	SendChannelMessage(ctx context.Context, channelID snowflake.ID, msg Message) error
	// Member returns ErrMemberNotFound if the user is not in the guild.
	Member(ctx context.Context, guildID, userID snowflake.ID) (*Member, error)
	User(ctx context.Context, userID snowflake.ID) (*User, error)
}

// Responder answers in the context an event arrived from.
type Responder interface {
	Respond(ctx context.Context, msg Message) error
}

// Mention formats a user mention.
func Mention(id snowflake.ID) string {
	return "<@" + id.String() + ">"
}
