// Package bot connects the moderation pipeline to the Discord gateway.
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sbu-community/sentinel/internal/bot/constants"
	"github.com/sbu-community/sentinel/internal/moderation"
	"github.com/sbu-community/sentinel/internal/registry"
	"github.com/sbu-community/sentinel/internal/setup/config"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// Bot owns the Discord client and hands every guild message to the Router.
type Bot struct {
	client  bot.Client
	router  *Router
	guildID snowflake.ID
	logger  *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	wg      conc.WaitGroup
}

// New builds the moderation components and configures the Discord client
// with the intents needed to read guild messages and member roles.
func New(
	cfg *config.Config, reg registry.Registry, resolver moderation.IdentityResolver, logger *zap.Logger,
) (*Bot, error) {
	ctx, cancel := context.WithCancel(context.Background())

	b := &Bot{
		guildID: snowflake.ID(cfg.Bot.Discord.GuildID),
		logger:  logger.Named("bot"),
		ctx:     ctx,
		cancel:  cancel,
	}

	client, err := disgo.New(cfg.Bot.Discord.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMessages,
				gateway.IntentMessageContent,
				gateway.IntentGuildMembers,
			),
		),
		bot.WithEventListeners(&events.ListenerAdapter{
			OnReady:              b.handleReady,
			OnGuildMessageCreate: b.handleGuildMessageCreate,
		}),
	)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create Discord client: %w", err)
	}

	b.client = client

	platform := NewPlatform(client.Rest(), logger)
	auditor := moderation.NewAuditor(platform, snowflake.ID(cfg.Bot.Channels.ModActionLog), logger)
	roles := moderation.RoleSet{
		Moderator:       snowflake.ID(cfg.Bot.Roles.Moderator),
		JuniorModerator: snowflake.ID(cfg.Bot.Roles.JuniorModerator),
	}

	executor := moderation.NewExecutor(platform, auditor, moderation.ExecutorConfig{
		ServerName: cfg.Bot.Ban.ServerName,
		AppealLink: cfg.Bot.Ban.AppealLink,
	}, logger)

	banList := moderation.NewBanList(reg, resolver, platform, moderation.BanListConfig{
		ChannelID:   snowflake.ID(cfg.Bot.Channels.BannedList),
		ProfileLink: cfg.Common.Lookup.ProfileLink,
		Footer:      cfg.Bot.Ban.ListFooter,
	}, logger)

	warn := moderation.NewWarnListener(platform, auditor,
		moderation.NewCooldownGate(time.Duration(cfg.Bot.Passive.CooldownSeconds)*time.Second),
		moderation.WarnListenerConfig{
			Trigger:   cfg.Bot.Commands.WarnTrigger,
			Roles:     roles,
			Responses: cfg.Bot.Passive.Responses,
		}, logger)

	b.router = NewRouter(cfg.Bot.Commands.Prefix, roles, platform, executor, banList, warn, logger)

	return b, nil
}

// Start opens the gateway connection.
func (b *Bot) Start() error {
	b.logger.Info("Starting bot", zap.Uint64("guild_id", uint64(b.guildID)))
	return b.client.OpenGateway(b.ctx)
}

// Close disconnects from the gateway and waits for in-flight events to finish.
// Handlers still running after ShutdownTimeout are cancelled.
func (b *Bot) Close() {
	b.logger.Info("Closing bot")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	b.client.Close(shutdownCtx)

	if !waitContext(shutdownCtx, b.wg.Wait) {
		b.logger.Warn("Timed out waiting for in-flight events",
			zap.Duration("timeout", constants.ShutdownTimeout))
	}

	b.cancel()
}

// waitContext runs wait in a goroutine and reports whether it returned before ctx ended.
func waitContext(ctx context.Context, wait func()) bool {
	done := make(chan struct{})
	go func() {
		wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}

func (b *Bot) handleReady(event *events.Ready) {
	b.logger.Info("Connected to gateway",
		zap.String("user", event.User.Username),
		zap.Int("guilds", len(event.Guilds)))
}

// handleGuildMessageCreate handles each message in its own goroutine so slow
// platform calls for one command never hold up another.
func (b *Bot) handleGuildMessageCreate(event *events.GuildMessageCreate) {
	if event.Message.Author.Bot || event.Message.Author.System {
		return
	}

	if b.guildID != 0 && event.GuildID != b.guildID {
		return
	}

	var roles []snowflake.ID
	if event.Message.Member != nil {
		roles = event.Message.Member.RoleIDs
	}

	in := Inbound{
		GuildID:     event.GuildID,
		ChannelID:   event.ChannelID,
		MessageID:   event.MessageID,
		AuthorID:    event.Message.Author.ID,
		AuthorRoles: roles,
		Content:     event.Message.Content,
		Responder: &messageResponder{
			rest:      b.client.Rest(),
			channelID: event.ChannelID,
			messageID: event.MessageID,
		},
	}

	b.wg.Go(func() {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Panic in message handler",
					zap.Any("panic", r),
					zap.Uint64("message_id", uint64(in.MessageID)))
			}

			b.logger.Debug("Message handled",
				zap.Uint64("message_id", uint64(in.MessageID)),
				zap.Duration("duration", time.Since(start)))
		}()

		b.router.Route(b.ctx, in)
	})
}
