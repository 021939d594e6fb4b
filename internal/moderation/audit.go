package moderation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/sbu-community/sentinel/internal/moderation/enum"
	"github.com/sbu-community/sentinel/internal/registry"
	"go.uber.org/zap"
)

// AuditRecord describes one completed moderation action.
type AuditRecord struct {
	ID         uuid.UUID
	Kind       enum.ActionKind
	ActorID    snowflake.ID
	TargetID   snowflake.ID
	TargetName string
	Reason     string
	Duration   time.Duration
}

// NewAuditRecord creates a record for an action against target.
func NewAuditRecord(kind enum.ActionKind, actorID snowflake.ID, target User, reason string) AuditRecord {
	return AuditRecord{
		ID:         uuid.New(),
		Kind:       kind,
		ActorID:    actorID,
		TargetID:   target.ID,
		TargetName: target.Username,
		Reason:     reason,
	}
}

// Render formats the record for the audit channel.
func (r AuditRecord) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Moderator: %s \n", Mention(r.ActorID))

	if r.TargetName != "" {
		fmt.Fprintf(&b, "User: %s | %s \n", Mention(r.TargetID), r.TargetName)
	} else {
		fmt.Fprintf(&b, "User: %s \n", Mention(r.TargetID))
	}

	fmt.Fprintf(&b, "Action: %s \n", r.Kind)

	if r.Kind == enum.ActionKindMute {
		fmt.Fprintf(&b, "Duration: %s \n", FormatTimespan(r.Duration))
	}

	fmt.Fprintf(&b, "Reason: %s", displayReason(r.Reason))

	return b.String()
}

// Summary formats the record for the confirmation shown to the actor.
func (r AuditRecord) Summary() string {
	name := r.TargetName
	if name == "" {
		name = r.TargetID.String()
	}

	return fmt.Sprintf("Moderator: %s \nUser: %s \nAction: %s \nReason: %s",
		Mention(r.ActorID), name, r.Kind, displayReason(r.Reason))
}

// Auditor appends records to the moderation log channel.
type Auditor struct {
	platform  Platform
	channelID snowflake.ID
	logger    *zap.Logger
}

// NewAuditor creates an Auditor that writes to channelID.
func NewAuditor(platform Platform, channelID snowflake.ID, logger *zap.Logger) *Auditor {
	return &Auditor{
		platform:  platform,
		channelID: channelID,
		logger:    logger.Named("audit"),
	}
}

// Record sends the rendered record to the audit channel.
func (a *Auditor) Record(ctx context.Context, record AuditRecord) error {
	if err := a.platform.SendChannelMessage(ctx, a.channelID, Message{Content: record.Render()}); err != nil {
		return fmt.Errorf("failed to send audit record: %w", err)
	}

	a.logger.Info("Recorded moderation action",
		zap.String("id", record.ID.String()),
		zap.String("action", record.Kind.String()),
		zap.Uint64("actor_id", uint64(record.ActorID)),
		zap.Uint64("target_id", uint64(record.TargetID)),
		zap.Duration("duration", record.Duration))

	return nil
}

// displayReason substitutes the registry's sentinel for a missing reason.
func displayReason(reason string) string {
	if strings.TrimSpace(reason) == "" {
		return registry.DefaultReason
	}

	return reason
}
