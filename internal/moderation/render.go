package moderation

import "errors"

// ErrorMessage renders a failed command for the actor.
// Unclassified errors get a generic message; their details belong in the logs.
func ErrorMessage(err error) Message {
	var modErr *Error
	if !errors.As(err, &modErr) {
		return errorEmbed("Error", "Something went wrong while running this command.", ColorRed)
	}

	switch modErr.Kind {
	case KindAuthorizationDenied:
		return Message{Content: modErr.Message}
	case KindConflictInRegistry:
		return errorEmbed("Operation Canceled", modErr.Message, ColorYellow)
	default:
		return errorEmbed("Error", modErr.Message, ColorRed)
	}
}

// Denied is the error returned when authorization fails.
func Denied() *Error {
	return newError(KindAuthorizationDenied, "Insufficient Permissions", nil)
}

// UserInput wraps a corrective message for malformed arguments.
func UserInput(message string) *Error {
	return newError(KindUserInput, message, nil)
}

func errorEmbed(title, description string, color int) Message {
	return Message{
		Embeds: []Embed{{Title: title, Description: description, Color: color}},
		Reply:  true,
	}
}
