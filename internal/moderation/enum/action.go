package enum

// ActionKind represents the kind of moderation action recorded in the audit log.
//
//go:generate go tool enumer -type=ActionKind -trimprefix=ActionKind
type ActionKind int

const (
	ActionKindBan ActionKind = iota
	ActionKindUnban
	ActionKindMute
	ActionKindUnmute
	ActionKindWarn
)
