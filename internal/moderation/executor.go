package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sbu-community/sentinel/internal/moderation/enum"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ActionRequest is one moderation command after routing and authorization.
type ActionRequest struct {
	GuildID   snowflake.ID
	ActorID   snowflake.ID
	Target    User
	Reason    string
	Responder Responder
}

// ExecutorConfig holds the texts and limits used by the Executor.
type ExecutorConfig struct {
	// ServerName appears in the ban notice.
	ServerName string
	// AppealLink is sent after the ban notice.
	AppealLink string
}

// Executor performs ban, unban, mute and unmute with a fixed step order per action.
type Executor struct {
	platform Platform
	auditor  *Auditor
	config   ExecutorConfig
	tracer   trace.Tracer
	logger   *zap.Logger
	now      func() time.Time
}

// NewExecutor creates an Executor.
func NewExecutor(platform Platform, auditor *Auditor, config ExecutorConfig, logger *zap.Logger) *Executor {
	return &Executor{
		platform: platform,
		auditor:  auditor,
		config:   config,
		tracer:   otel.Tracer("moderation"),
		logger:   logger.Named("executor"),
		now:      time.Now,
	}
}

// Ban notifies the target, bans them, then records and confirms the action.
// A failed notification is reported to the actor and does not stop the ban.
// A failed ban aborts before anything is recorded.
func (e *Executor) Ban(ctx context.Context, req ActionRequest) error {
	ctx, span := e.startSpan(ctx, "moderation.Ban", req)
	defer span.End()

	reason := displayReason(req.Reason)

	if err := e.notifyBan(ctx, req.Target.ID, reason); err != nil {
		e.logger.Info("Ban notice not delivered",
			zap.Uint64("target_id", uint64(req.Target.ID)),
			zap.Error(err))
		span.AddEvent("notification failed")

		e.respond(ctx, req.Responder, Message{Content: "User cannot be dmed"})
	}

	if err := e.platform.Ban(ctx, req.GuildID, req.Target.ID, req.Reason); err != nil {
		return e.enforcementFailed(span, "ban", req, err)
	}

	record := NewAuditRecord(enum.ActionKindBan, req.ActorID, req.Target, req.Reason)
	e.audit(ctx, record)

	return req.Responder.Respond(ctx, Message{
		Embeds: []Embed{{Description: record.Summary()}},
		Reply:  true,
	})
}

// Unban lifts a platform ban, then records and confirms the action.
func (e *Executor) Unban(ctx context.Context, req ActionRequest) error {
	ctx, span := e.startSpan(ctx, "moderation.Unban", req)
	defer span.End()

	if err := e.platform.Unban(ctx, req.GuildID, req.Target.ID, req.Reason); err != nil {
		return e.enforcementFailed(span, "unban", req, err)
	}

	record := NewAuditRecord(enum.ActionKindUnban, req.ActorID, req.Target, req.Reason)
	e.audit(ctx, record)

	return req.Responder.Respond(ctx, Message{
		Embeds: []Embed{{Description: record.Summary()}},
	})
}

// Mute parses durationText and times the target out for exactly that long.
// Durations outside (0, MaxMuteDuration] are rejected before any platform call.
func (e *Executor) Mute(ctx context.Context, req ActionRequest, durationText string) error {
	ctx, span := e.startSpan(ctx, "moderation.Mute", req)
	defer span.End()

	duration, err := ParseTimespan(durationText)
	if err != nil {
		span.SetStatus(codes.Error, "invalid duration")
		return newError(KindUserInput, fmt.Sprintf("Invalid duration `%s`", durationText), err)
	}

	span.SetAttributes(attribute.String("mute.duration", duration.String()))

	if duration <= 0 {
		return newError(KindUserInput, "Mute duration must be greater than zero", nil)
	}

	if duration > MaxMuteDuration {
		return newError(KindUserInput, "Max mute duration is 28 days", nil)
	}

	until := e.now().Add(duration)
	if err := e.platform.Timeout(ctx, req.GuildID, req.Target.ID, until, req.Reason); err != nil {
		return e.enforcementFailed(span, "mute", req, err)
	}

	if err := req.Responder.Respond(ctx, Message{
		Content: fmt.Sprintf("%s has been muted for %s | Reason %s",
			Mention(req.Target.ID), FormatTimespan(duration), displayReason(req.Reason)),
		Reply: true,
	}); err != nil {
		e.logger.Warn("Failed to confirm mute", zap.Error(err))
	}

	record := NewAuditRecord(enum.ActionKindMute, req.ActorID, req.Target, req.Reason)
	record.Duration = duration
	e.audit(ctx, record)

	return nil
}

// Unmute removes any timeout on the target. Removing an absent timeout succeeds.
func (e *Executor) Unmute(ctx context.Context, req ActionRequest) error {
	ctx, span := e.startSpan(ctx, "moderation.Unmute", req)
	defer span.End()

	if err := e.platform.RemoveTimeout(ctx, req.GuildID, req.Target.ID, req.Reason); err != nil {
		return e.enforcementFailed(span, "unmute", req, err)
	}

	if err := req.Responder.Respond(ctx, Message{
		Content: Mention(req.Target.ID) + " has been unmuted.",
	}); err != nil {
		e.logger.Warn("Failed to confirm unmute", zap.Error(err))
	}

	e.audit(ctx, NewAuditRecord(enum.ActionKindUnmute, req.ActorID, req.Target, req.Reason))

	return nil
}

// notifyBan sends the ban notice and appeal link as two direct messages.
func (e *Executor) notifyBan(ctx context.Context, targetID snowflake.ID, reason string) error {
	notice := fmt.Sprintf("You have been banned from %s for %s", e.config.ServerName, reason)
	if err := e.platform.SendDirectMessage(ctx, targetID, Message{Content: notice}); err != nil {
		return newError(KindDeliveryFailure, "User cannot be dmed", err)
	}

	if e.config.AppealLink == "" {
		return nil
	}

	if err := e.platform.SendDirectMessage(ctx, targetID, Message{Content: "Appeal at " + e.config.AppealLink}); err != nil {
		return newError(KindDeliveryFailure, "User cannot be dmed", err)
	}

	return nil
}

// audit records the action. Enforcement already happened, so a failure here is only logged.
func (e *Executor) audit(ctx context.Context, record AuditRecord) {
	if err := e.auditor.Record(ctx, record); err != nil {
		e.logger.Error("Failed to record moderation action",
			zap.String("action", record.Kind.String()),
			zap.Uint64("target_id", uint64(record.TargetID)),
			zap.Error(err))
	}
}

func (e *Executor) enforcementFailed(span trace.Span, action string, req ActionRequest, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, action+" rejected")

	level := zap.WarnLevel
	if !errors.Is(err, ErrForbidden) {
		level = zap.ErrorLevel
	}

	e.logger.Log(level, "Enforcement call failed",
		zap.String("action", action),
		zap.Uint64("target_id", uint64(req.Target.ID)),
		zap.Error(err))

	return newError(KindEnforcementForbidden,
		fmt.Sprintf("Bot does not have permission to %s this member.", action), err)
}

func (e *Executor) respond(ctx context.Context, responder Responder, msg Message) {
	if err := responder.Respond(ctx, msg); err != nil {
		e.logger.Warn("Failed to respond", zap.Error(err))
	}
}

func (e *Executor) startSpan(ctx context.Context, name string, req ActionRequest) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.Int64("moderation.actor_id", int64(req.ActorID)),   //nolint:gosec // snowflakes fit in int64
		attribute.Int64("moderation.target_id", int64(req.Target.ID)), //nolint:gosec // snowflakes fit in int64
	))
}
