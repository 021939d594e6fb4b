// Package registry stores external identities that are banned from the community.
// All access is point lookup by canonical external identifier.
package registry

import (
	"context"
	"errors"

	"github.com/uptrace/bun"
)

var (
	// ErrConflict is returned by Insert when a record for the identifier already exists.
	ErrConflict = errors.New("banned member already registered")
	// ErrNotFound is returned by Get and Delete when no record exists.
	ErrNotFound = errors.New("banned member not found")
)

// DefaultReason is stored when a ban is registered without a reason.
const DefaultReason = "None"

// BannedMember is a ban registry record.
type BannedMember struct {
	bun.BaseModel `bun:"table:banned_members,alias:bm"`

	ExternalID  string `bun:",pk" json:"externalId"`                 // Canonical external account ID
	Reason      string `bun:",notnull,default:'None'" json:"reason"` // Free-text justification
	ModeratorID uint64 `bun:",notnull" json:"moderatorId"`           // Discord ID of the recording moderator
}

// NewBannedMember creates a record, substituting DefaultReason for an empty reason.
func NewBannedMember(externalID, reason string, moderatorID uint64) *BannedMember {
	if reason == "" {
		reason = DefaultReason
	}

	return &BannedMember{
		ExternalID:  externalID,
		Reason:      reason,
		ModeratorID: moderatorID,
	}
}

// Registry is a durable key-value store of banned members keyed by external ID.
// Every operation commits or fails atomically on its own.
type Registry interface {
	// Exists reports whether a record exists for the identifier.
	Exists(ctx context.Context, externalID string) (bool, error)
	// Insert stores a new record, returning ErrConflict if one already exists.
	Insert(ctx context.Context, member *BannedMember) error
	// Get returns the record for the identifier or ErrNotFound.
	Get(ctx context.Context, externalID string) (*BannedMember, error)
	// Delete removes the record for the identifier or returns ErrNotFound.
	Delete(ctx context.Context, externalID string) error
	// Close releases the underlying storage.
	Close() error
}
