package moderation

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sbu-community/sentinel/internal/moderation/enum"
	"go.uber.org/zap"
)

// DefaultWarnTrigger is the first token of a passive warn message.
const DefaultWarnTrigger = "!warn"

// WarnOutcome describes how a candidate warn message was handled.
type WarnOutcome int

const (
	// WarnIgnored means the message was not a warn, was malformed, or its target is exempt.
	WarnIgnored WarnOutcome = iota
	// WarnJoked means an unprivileged author received a passive reply.
	WarnJoked
	// WarnSuppressed means an unprivileged author hit the cooldown.
	WarnSuppressed
	// WarnLogged means an audit record was written.
	WarnLogged
)

// WarnCommand is a parsed warn message.
type WarnCommand struct {
	TargetID snowflake.ID
	Reason   string
}

// WarnEvent is an inbound message that may be a warn.
type WarnEvent struct {
	GuildID     snowflake.ID
	AuthorID    snowflake.ID
	AuthorRoles []snowflake.ID
	Content     string
	Responder   Responder
}

// ParseWarn parses "<trigger> <target> <reason...>" split on single spaces.
// The target may be a bare ID or a mention.
func ParseWarn(content, trigger string) (WarnCommand, bool) {
	tokens := strings.Split(content, " ")
	if len(tokens) < 3 || tokens[0] != trigger {
		return WarnCommand{}, false
	}

	rawID := strings.NewReplacer("<", "", "@", "", "!", "", ">", "").Replace(tokens[1])
	if rawID == "" || strings.TrimLeft(rawID, "0123456789") != "" {
		return WarnCommand{}, false
	}

	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		return WarnCommand{}, false
	}

	return WarnCommand{
		TargetID: snowflake.ID(id),
		Reason:   strings.Join(tokens[2:], " "),
	}, true
}

// WarnListenerConfig configures a WarnListener.
type WarnListenerConfig struct {
	Trigger   string
	Roles     RoleSet
	Responses []string
}

// WarnListener handles passive warn messages.
type WarnListener struct {
	platform Platform
	auditor  *Auditor
	gate     *CooldownGate
	config   WarnListenerConfig
	logger   *zap.Logger
	now      func() time.Time
	pick     func(n int) int
}

// NewWarnListener creates a WarnListener around the given cooldown gate.
func NewWarnListener(
	platform Platform, auditor *Auditor, gate *CooldownGate, config WarnListenerConfig, logger *zap.Logger,
) *WarnListener {
	if config.Trigger == "" {
		config.Trigger = DefaultWarnTrigger
	}

	return &WarnListener{
		platform: platform,
		auditor:  auditor,
		gate:     gate,
		config:   config,
		logger:   logger.Named("warn"),
		now:      time.Now,
		pick:     rand.IntN,
	}
}

// Handle evaluates one message. Any message starting with the trigger from an
// unprivileged author gets a passive reply, well-formed or not. Malformed warns
// from junior moderators are ignored without error.
func (l *WarnListener) Handle(ctx context.Context, event WarnEvent) (WarnOutcome, error) {
	if !strings.HasPrefix(event.Content, l.config.Trigger) {
		return WarnIgnored, nil
	}

	if !HasRole(event.AuthorRoles, l.config.Roles.JuniorModerator) {
		return l.joke(ctx, event)
	}

	cmd, ok := ParseWarn(event.Content, l.config.Trigger)
	if !ok {
		return WarnIgnored, nil
	}

	target, err := l.platform.Member(ctx, event.GuildID, cmd.TargetID)
	if errors.Is(err, ErrMemberNotFound) {
		return WarnIgnored, nil
	}

	if err != nil {
		return WarnIgnored, err
	}

	if HasRole(target.Roles, l.config.Roles.JuniorModerator) {
		return WarnIgnored, nil
	}

	record := NewAuditRecord(enum.ActionKindWarn, event.AuthorID, target.User, cmd.Reason)
	if err := l.auditor.Record(ctx, record); err != nil {
		return WarnIgnored, err
	}

	if err := event.Responder.Respond(ctx, Message{Content: "Log created"}); err != nil {
		l.logger.Warn("Failed to acknowledge warn", zap.Error(err))
	}

	return WarnLogged, nil
}

func (l *WarnListener) joke(ctx context.Context, event WarnEvent) (WarnOutcome, error) {
	if len(l.config.Responses) == 0 || !l.gate.TryAcquire(l.now()) {
		return WarnSuppressed, nil
	}

	response := l.config.Responses[l.pick(len(l.config.Responses))]
	if err := event.Responder.Respond(ctx, Message{Content: response, Reply: true}); err != nil {
		return WarnJoked, err
	}

	return WarnJoked, nil
}
