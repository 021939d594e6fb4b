package moderation

import (
	"context"
	"errors"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sbu-community/sentinel/internal/registry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// IdentityResolver maps a display name to a canonical external identifier.
type IdentityResolver interface {
	Resolve(ctx context.Context, name string) (string, bool)
}

// BanListConfig configures a BanList.
type BanListConfig struct {
	// ChannelID receives the banned/unbanned announcements.
	ChannelID snowflake.ID
	// ProfileLink is a format string taking the canonical identifier.
	ProfileLink string
	// Footer is shown under announcements.
	Footer string
}

// BanListRequest is one banlist, bancheck or bandel command.
type BanListRequest struct {
	ActorID   snowflake.ID
	Name      string
	Reason    string
	Responder Responder
}

// BanList manages the registry of banned external identities.
type BanList struct {
	registry registry.Registry
	resolver IdentityResolver
	platform Platform
	config   BanListConfig
	tracer   trace.Tracer
	logger   *zap.Logger
}

// NewBanList creates a BanList.
func NewBanList(
	reg registry.Registry, resolver IdentityResolver, platform Platform, config BanListConfig, logger *zap.Logger,
) *BanList {
	return &BanList{
		registry: reg,
		resolver: resolver,
		platform: platform,
		config:   config,
		tracer:   otel.Tracer("moderation"),
		logger:   logger.Named("banlist"),
	}
}

// Register adds the named account to the registry and announces it.
func (b *BanList) Register(ctx context.Context, req BanListRequest) error {
	ctx, span := b.tracer.Start(ctx, "moderation.BanList.Register")
	defer span.End()

	externalID, err := b.resolve(ctx, span, req.Name)
	if err != nil {
		return err
	}

	exists, err := b.registry.Exists(ctx, externalID)
	if err != nil {
		return fmt.Errorf("failed to check registry: %w", err)
	}

	if exists {
		return newError(KindConflictInRegistry, "User is already banned", registry.ErrConflict)
	}

	member := registry.NewBannedMember(externalID, req.Reason, uint64(req.ActorID))
	if err := b.registry.Insert(ctx, member); err != nil {
		if errors.Is(err, registry.ErrConflict) {
			b.logger.Error("Registry insert conflicted after a negative existence check",
				zap.String("external_id", externalID),
				zap.Uint64("moderator_id", uint64(req.ActorID)))

			return newError(KindInvariantViolation, "User was banned concurrently, please check the list", err)
		}

		return fmt.Errorf("failed to insert banned member: %w", err)
	}

	b.logger.Info("Registered banned member",
		zap.String("name", req.Name),
		zap.String("external_id", externalID),
		zap.Uint64("moderator_id", uint64(req.ActorID)))

	b.announce(ctx, Embed{
		Title:  "Banned Member",
		Color:  ColorGray,
		Fields: b.announcementFields(req.Name, member.Reason, externalID),
		Footer: b.config.Footer,
	})

	return req.Responder.Respond(ctx, Message{
		Embeds: []Embed{{
			Title:       "Success",
			Description: fmt.Sprintf("User `%s` added to <#%s>", req.Name, b.config.ChannelID),
			Color:       ColorGreen,
		}},
		Reply: true,
	})
}

// Check looks up the named account. It returns nil and replies "User not found" when
// the account is not registered; the registry is never modified.
func (b *BanList) Check(ctx context.Context, req BanListRequest) (*registry.BannedMember, error) {
	ctx, span := b.tracer.Start(ctx, "moderation.BanList.Check")
	defer span.End()

	externalID, err := b.resolve(ctx, span, req.Name)
	if err != nil {
		return nil, err
	}

	member, err := b.registry.Get(ctx, externalID)
	if errors.Is(err, registry.ErrNotFound) {
		return nil, req.Responder.Respond(ctx, Message{
			Embeds: []Embed{{
				Title:       "User not found",
				Description: "User is not present in our banned list",
				Color:       ColorGreen,
			}},
			Reply: true,
		})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get banned member: %w", err)
	}

	moderator := snowflake.ID(member.ModeratorID).String()
	if user, err := b.platform.User(ctx, snowflake.ID(member.ModeratorID)); err == nil && user.Username != "" {
		moderator = user.Username
	}

	return member, req.Responder.Respond(ctx, Message{
		Embeds: []Embed{{
			Title:       "User found",
			Description: "User is present in our banned list",
			Color:       ColorRed,
			Fields:      []EmbedField{{Name: "Reason", Value: member.Reason}},
			Footer:      "Banned by " + moderator,
		}},
		Reply: true,
	})
}

// Remove deletes the named account from the registry and announces it.
func (b *BanList) Remove(ctx context.Context, req BanListRequest) error {
	ctx, span := b.tracer.Start(ctx, "moderation.BanList.Remove")
	defer span.End()

	externalID, err := b.resolve(ctx, span, req.Name)
	if err != nil {
		return err
	}

	if err := b.registry.Delete(ctx, externalID); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return newError(KindNotFoundInRegistry, "User is not present in our database", err)
		}

		return fmt.Errorf("failed to delete banned member: %w", err)
	}

	b.logger.Info("Removed banned member",
		zap.String("name", req.Name),
		zap.String("external_id", externalID),
		zap.Uint64("moderator_id", uint64(req.ActorID)))

	b.announce(ctx, Embed{
		Title:  "Unbanned Member",
		Color:  ColorBrand,
		Fields: b.announcementFields(req.Name, displayReason(req.Reason), externalID),
		Footer: b.config.Footer,
	})

	return req.Responder.Respond(ctx, Message{
		Embeds: []Embed{{
			Title:       "Success",
			Description: fmt.Sprintf("User `%s` was removed from the banned database", req.Name),
			Color:       ColorGreen,
		}},
		Reply: true,
	})
}

// resolve maps name to its canonical identifier or returns a user input error.
func (b *BanList) resolve(ctx context.Context, span trace.Span, name string) (string, error) {
	externalID, ok := b.resolver.Resolve(ctx, name)
	if !ok {
		return "", newError(KindUserInput, "Invalid IGN", nil)
	}

	span.SetAttributes(attribute.String("banlist.external_id", externalID))

	return externalID, nil
}

// announce posts to the banned-list channel. The registry is already updated, so failures are logged.
func (b *BanList) announce(ctx context.Context, embed Embed) {
	if err := b.platform.SendChannelMessage(ctx, b.config.ChannelID, Message{Embeds: []Embed{embed}}); err != nil {
		b.logger.Error("Failed to announce banned list change",
			zap.String("title", embed.Title),
			zap.Error(err))
	}
}

func (b *BanList) announcementFields(name, reason, externalID string) []EmbedField {
	fields := []EmbedField{
		{Name: "User IGN", Value: "`" + name + "`"},
		{Name: "Reason", Value: reason},
	}

	if b.config.ProfileLink != "" {
		fields = append(fields, EmbedField{Name: "UUID Converter", Value: fmt.Sprintf(b.config.ProfileLink, externalID)})
	}

	return fields
}
