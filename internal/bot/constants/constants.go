package constants

import "time"

const (
	// Commands.
	BanCommandName      = "ban"
	UnbanCommandName    = "unban"
	MuteCommandName     = "mute"
	UnmuteCommandName   = "unmute"
	BanListCommandName  = "banlist"
	BanCheckCommandName = "bancheck"
	BanDelCommandName   = "bandel"

	// Usage templates, %s is the command prefix.
	BanUsage      = "Invalid format. Use `%sban <@mention | ID> [reason]`"
	UnbanUsage    = "Invalid format. Use `%sunban <@mention | ID> [reason]`"
	MuteUsage     = "Invalid format. Use `%smute <@mention | ID> <time> <reason>`"
	UnmuteUsage   = "Invalid format. Use `%sunmute <@mention | ID> [reason]`"
	BanListUsage  = "Incorrect format. Use `%sbanlist <IGN: text> [Reason: text]`"
	BanCheckUsage = "Incorrect format. Use `%sbancheck <IGN: text>`"
	BanDelUsage   = "Incorrect format. Use `%sbandel <IGN: text> [Reason: text]`"

	// Discord limits.
	EmbedDescriptionLimit = 4096
	EmbedFieldValueLimit  = 1024
	EmbedFieldNameLimit   = 256
	EmbedTitleLimit       = 256
	EmbedFooterLimit      = 2048
	MessageContentLimit   = 2000

	// JSON error code returned when a user does not accept direct messages.
	CannotSendMessagesToUserCode = 50007

	// ShutdownTimeout bounds how long in-flight events may run after Close.
	ShutdownTimeout = 10 * time.Second
)
