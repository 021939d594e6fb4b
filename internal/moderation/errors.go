package moderation

import (
	"errors"
	"fmt"
)

var (
	// ErrForbidden is returned by a Platform when the bot lacks the privilege for a call.
	ErrForbidden = errors.New("missing permissions")
	// ErrUnreachable is returned by a Platform when a direct message cannot be delivered.
	ErrUnreachable = errors.New("user cannot be reached")
	// ErrMemberNotFound is returned by a Platform when the user is not in the guild.
	ErrMemberNotFound = errors.New("member not found")
)

// Kind classifies a moderation failure.
//
//go:generate go tool enumer -type=Kind -trimprefix=Kind -transform=snake
type Kind int

const (
	KindUserInput Kind = iota + 1
	KindAuthorizationDenied
	KindDeliveryFailure
	KindEnforcementForbidden
	KindNotFoundInRegistry
	KindConflictInRegistry
	KindLookupUnavailable
	KindInvariantViolation
)

// Error is an expected moderation outcome carrying the message shown to the actor.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var modErr *Error
	if errors.As(err, &modErr) {
		return modErr.Kind, true
	}

	return 0, false
}
