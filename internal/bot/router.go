package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sbu-community/sentinel/internal/bot/constants"
	"github.com/sbu-community/sentinel/internal/bot/utils"
	"github.com/sbu-community/sentinel/internal/moderation"
	"go.uber.org/zap"
)

// Inbound is a guild message as seen by the router.
type Inbound struct {
	GuildID     snowflake.ID
	ChannelID   snowflake.ID
	MessageID   snowflake.ID
	AuthorID    snowflake.ID
	AuthorRoles []snowflake.ID
	Content     string
	Responder   moderation.Responder
}

// command is a prefixed text command.
type command struct {
	tier  moderation.Tier
	usage string
	run   func(ctx context.Context, in Inbound, args []string) error
}

// errUsage marks arguments that do not match a command's format.
var errUsage = errors.New("invalid command format")

// Router dispatches prefixed commands and passes other messages to the warn listener.
type Router struct {
	prefix   string
	roles    moderation.RoleSet
	platform moderation.Platform
	executor *moderation.Executor
	banList  *moderation.BanList
	warn     *moderation.WarnListener
	commands map[string]command
	logger   *zap.Logger
}

// NewRouter creates a Router and registers the moderation commands.
func NewRouter(
	prefix string,
	roles moderation.RoleSet,
	platform moderation.Platform,
	executor *moderation.Executor,
	banList *moderation.BanList,
	warn *moderation.WarnListener,
	logger *zap.Logger,
) *Router {
	r := &Router{
		prefix:   prefix,
		roles:    roles,
		platform: platform,
		executor: executor,
		banList:  banList,
		warn:     warn,
		logger:   logger.Named("router"),
	}

	r.commands = map[string]command{
		constants.BanCommandName: {
			tier: moderation.TierModerator, usage: constants.BanUsage, run: r.runBan,
		},
		constants.UnbanCommandName: {
			tier: moderation.TierModerator, usage: constants.UnbanUsage, run: r.runUnban,
		},
		constants.MuteCommandName: {
			tier: moderation.TierJuniorModerator, usage: constants.MuteUsage, run: r.runMute,
		},
		constants.UnmuteCommandName: {
			tier: moderation.TierJuniorModerator, usage: constants.UnmuteUsage, run: r.runUnmute,
		},
		constants.BanListCommandName: {
			tier: moderation.TierModerator, usage: constants.BanListUsage, run: r.runBanList,
		},
		constants.BanCheckCommandName: {
			tier: moderation.TierEveryone, usage: constants.BanCheckUsage, run: r.runBanCheck,
		},
		constants.BanDelCommandName: {
			tier: moderation.TierModerator, usage: constants.BanDelUsage, run: r.runBanDel,
		},
	}

	return r
}

// Route handles one inbound message. Errors are answered and logged here.
func (r *Router) Route(ctx context.Context, in Inbound) {
	name, args, ok := r.parseCommand(in.Content)
	if !ok {
		r.routePassive(ctx, in)
		return
	}

	cmd, exists := r.commands[name]
	if !exists {
		return
	}

	if moderation.Authorize(in.AuthorRoles, cmd.tier, r.roles) == moderation.DecisionDenied {
		r.respondError(ctx, in, cmd, moderation.Denied())
		return
	}

	if err := cmd.run(ctx, in, args); err != nil {
		r.respondError(ctx, in, cmd, err)
		return
	}

	r.logger.Debug("Command handled",
		zap.String("command", name),
		zap.Uint64("author_id", uint64(in.AuthorID)))
}

func (r *Router) routePassive(ctx context.Context, in Inbound) {
	outcome, err := r.warn.Handle(ctx, moderation.WarnEvent{
		GuildID:     in.GuildID,
		AuthorID:    in.AuthorID,
		AuthorRoles: in.AuthorRoles,
		Content:     in.Content,
		Responder:   in.Responder,
	})
	if err != nil {
		r.logger.Error("Failed to handle warn", zap.Error(err))
		return
	}

	if outcome != moderation.WarnIgnored {
		r.logger.Debug("Warn handled", zap.Int("outcome", int(outcome)))
	}
}

// parseCommand splits a prefixed message into its command name and arguments.
func (r *Router) parseCommand(content string) (string, []string, bool) {
	if r.prefix == "" || !strings.HasPrefix(content, r.prefix) {
		return "", nil, false
	}

	fields := strings.Fields(strings.TrimPrefix(content, r.prefix))
	if len(fields) == 0 {
		return "", nil, false
	}

	return fields[0], fields[1:], true
}

func (r *Router) runBan(ctx context.Context, in Inbound, args []string) error {
	req, err := r.actionRequest(ctx, in, args, false)
	if err != nil {
		return err
	}

	return r.executor.Ban(ctx, req)
}

func (r *Router) runUnban(ctx context.Context, in Inbound, args []string) error {
	req, err := r.actionRequest(ctx, in, args, false)
	if err != nil {
		return err
	}

	return r.executor.Unban(ctx, req)
}

func (r *Router) runMute(ctx context.Context, in Inbound, args []string) error {
	if len(args) < 2 {
		return errUsage
	}

	req, err := r.actionRequest(ctx, in, append([]string{args[0]}, args[2:]...), true)
	if err != nil {
		return err
	}

	return r.executor.Mute(ctx, req, args[1])
}

func (r *Router) runUnmute(ctx context.Context, in Inbound, args []string) error {
	req, err := r.actionRequest(ctx, in, args, true)
	if err != nil {
		return err
	}

	return r.executor.Unmute(ctx, req)
}

func (r *Router) runBanList(ctx context.Context, in Inbound, args []string) error {
	req, err := r.banListRequest(in, args)
	if err != nil {
		return err
	}

	return r.banList.Register(ctx, req)
}

func (r *Router) runBanCheck(ctx context.Context, in Inbound, args []string) error {
	req, err := r.banListRequest(in, args)
	if err != nil {
		return err
	}

	_, err = r.banList.Check(ctx, req)

	return err
}

func (r *Router) runBanDel(ctx context.Context, in Inbound, args []string) error {
	req, err := r.banListRequest(in, args)
	if err != nil {
		return err
	}

	return r.banList.Remove(ctx, req)
}

// actionRequest resolves the target in args[0]; the rest is the reason.
// Mute and unmute need a current guild member, ban and unban accept any user.
func (r *Router) actionRequest(ctx context.Context, in Inbound, args []string, member bool) (moderation.ActionRequest, error) {
	if len(args) == 0 {
		return moderation.ActionRequest{}, errUsage
	}

	targetID, ok := utils.ParseUserID(args[0])
	if !ok {
		return moderation.ActionRequest{}, errUsage
	}

	var target moderation.User

	if member {
		m, err := r.platform.Member(ctx, in.GuildID, targetID)
		if err != nil {
			return moderation.ActionRequest{}, fmt.Errorf("%w: %w", errUsage, err)
		}

		target = m.User
	} else {
		u, err := r.platform.User(ctx, targetID)
		if err != nil {
			return moderation.ActionRequest{}, fmt.Errorf("%w: %w", errUsage, err)
		}

		target = *u
	}

	return moderation.ActionRequest{
		GuildID:   in.GuildID,
		ActorID:   in.AuthorID,
		Target:    target,
		Reason:    strings.Join(args[1:], " "),
		Responder: in.Responder,
	}, nil
}

func (r *Router) banListRequest(in Inbound, args []string) (moderation.BanListRequest, error) {
	if len(args) == 0 {
		return moderation.BanListRequest{}, errUsage
	}

	return moderation.BanListRequest{
		ActorID:   in.AuthorID,
		Name:      args[0],
		Reason:    strings.Join(args[1:], " "),
		Responder: in.Responder,
	}, nil
}

// respondError answers a failed command. Malformed arguments get the command's usage text.
func (r *Router) respondError(ctx context.Context, in Inbound, cmd command, err error) {
	var msg moderation.Message

	switch kind, classified := moderation.KindOf(err); {
	case errors.Is(err, errUsage), errors.Is(err, moderation.ErrInvalidTimespan):
		msg = moderation.ErrorMessage(moderation.UserInput(fmt.Sprintf(cmd.usage, r.prefix)))
	case !classified:
		r.logger.Error("Command failed", zap.String("content", in.Content), zap.Error(err))
		msg = moderation.ErrorMessage(err)
	default:
		r.logger.Debug("Command rejected", zap.String("kind", kind.String()), zap.Error(err))
		msg = moderation.ErrorMessage(err)
	}

	if err := in.Responder.Respond(ctx, msg); err != nil {
		r.logger.Warn("Failed to send error response", zap.Error(err))
	}
}
