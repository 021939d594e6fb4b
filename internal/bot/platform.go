package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sbu-community/sentinel/internal/bot/constants"
	"github.com/sbu-community/sentinel/internal/moderation"
	"go.uber.org/zap"
)

// Platform implements moderation.Platform on the Discord REST API.
type Platform struct {
	rest   rest.Rest
	logger *zap.Logger
}

// NewPlatform creates a Platform using the given REST client.
func NewPlatform(client rest.Rest, logger *zap.Logger) *Platform {
	return &Platform{
		rest:   client,
		logger: logger.Named("platform"),
	}
}

// SendDirectMessage opens a DM channel with the user and sends msg.
func (p *Platform) SendDirectMessage(ctx context.Context, userID snowflake.ID, msg moderation.Message) error {
	channel, err := p.rest.CreateDMChannel(userID, rest.WithCtx(ctx))
	if err != nil {
		return classifyError(err)
	}

	if _, err := p.rest.CreateMessage(channel.ID(), toMessageCreate(msg, 0), rest.WithCtx(ctx)); err != nil {
		return classifyError(err)
	}

	return nil
}

// Ban bans the user without deleting their message history.
func (p *Platform) Ban(ctx context.Context, guildID, userID snowflake.ID, reason string) error {
	return classifyError(p.rest.AddBan(guildID, userID, 0, requestOpts(ctx, reason)...))
}

// Unban lifts a guild ban.
func (p *Platform) Unban(ctx context.Context, guildID, userID snowflake.ID, reason string) error {
	return classifyError(p.rest.DeleteBan(guildID, userID, requestOpts(ctx, reason)...))
}

// Timeout sets the member's communication-disabled deadline, replacing any existing one.
func (p *Platform) Timeout(ctx context.Context, guildID, userID snowflake.ID, until time.Time, reason string) error {
	_, err := p.rest.UpdateMember(guildID, userID, discord.MemberUpdate{
		CommunicationDisabledUntil: json.NewNullablePtr(until),
	}, requestOpts(ctx, reason)...)

	return classifyError(err)
}

// RemoveTimeout clears the member's communication-disabled deadline.
func (p *Platform) RemoveTimeout(ctx context.Context, guildID, userID snowflake.ID, reason string) error {
	_, err := p.rest.UpdateMember(guildID, userID, discord.MemberUpdate{
		CommunicationDisabledUntil: json.NullPtr[time.Time](),
	}, requestOpts(ctx, reason)...)

	return classifyError(err)
}

// SendChannelMessage posts msg to a channel.
func (p *Platform) SendChannelMessage(ctx context.Context, channelID snowflake.ID, msg moderation.Message) error {
	_, err := p.rest.CreateMessage(channelID, toMessageCreate(msg, 0), rest.WithCtx(ctx))
	return classifyError(err)
}

// Member fetches a guild member.
func (p *Platform) Member(ctx context.Context, guildID, userID snowflake.ID) (*moderation.Member, error) {
	member, err := p.rest.GetMember(guildID, userID, rest.WithCtx(ctx))
	if err != nil {
		return nil, classifyError(err)
	}

	return &moderation.Member{
		User:  moderation.User{ID: member.User.ID, Username: member.User.Username},
		Roles: member.RoleIDs,
	}, nil
}

// User fetches any user by ID.
func (p *Platform) User(ctx context.Context, userID snowflake.ID) (*moderation.User, error) {
	user, err := p.rest.GetUser(userID, rest.WithCtx(ctx))
	if err != nil {
		return nil, classifyError(err)
	}

	return &moderation.User{ID: user.ID, Username: user.Username}, nil
}

func requestOpts(ctx context.Context, reason string) []rest.RequestOpt {
	opts := []rest.RequestOpt{rest.WithCtx(ctx)}
	if reason != "" {
		opts = append(opts, rest.WithReason(reason))
	}

	return opts
}

// classifyError maps Discord REST errors onto the moderation sentinel errors.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var restErr *rest.Error
	if !errors.As(err, &restErr) {
		return err
	}

	if restErr.Code == constants.CannotSendMessagesToUserCode {
		return fmt.Errorf("%w: %w", moderation.ErrUnreachable, err)
	}

	if restErr.Response == nil {
		return err
	}

	switch restErr.Response.StatusCode {
	case http.StatusForbidden:
		return fmt.Errorf("%w: %w", moderation.ErrForbidden, err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", moderation.ErrMemberNotFound, err)
	default:
		return err
	}
}
