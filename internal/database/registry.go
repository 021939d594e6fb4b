package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sbu-community/sentinel/internal/database/dbretry"
	"github.com/sbu-community/sentinel/internal/registry"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// BannedMemberModel handles database operations for the ban registry.
type BannedMemberModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewBannedMemberModel creates a new BannedMemberModel instance.
func NewBannedMemberModel(db *bun.DB, logger *zap.Logger) *BannedMemberModel {
	return &BannedMemberModel{
		db:     db,
		logger: logger.Named("db_banned_member"),
	}
}

// Exists checks if a banned member record exists for the identifier.
func (m *BannedMemberModel) Exists(ctx context.Context, externalID string) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		exists, err := m.db.NewSelect().
			Model((*registry.BannedMember)(nil)).
			Where("external_id = ?", externalID).
			Exists(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to check banned member: %w", err)
		}

		return exists, nil
	})
}

// Insert creates a banned member record unless one already exists.
func (m *BannedMemberModel) Insert(ctx context.Context, member *registry.BannedMember) error {
	inserted, err := dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewInsert().
			Model(member).
			On("CONFLICT (external_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to insert banned member: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
	if err != nil {
		return err
	}

	if !inserted {
		return registry.ErrConflict
	}

	return nil
}

// Get retrieves the banned member record for the identifier.
func (m *BannedMemberModel) Get(ctx context.Context, externalID string) (*registry.BannedMember, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*registry.BannedMember, error) {
		var member registry.BannedMember

		err := m.db.NewSelect().
			Model(&member).
			Where("external_id = ?", externalID).
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, registry.ErrNotFound
		}

		if err != nil {
			return nil, fmt.Errorf("failed to get banned member: %w", err)
		}

		return &member, nil
	})
}

// Delete removes the banned member record for the identifier.
func (m *BannedMemberModel) Delete(ctx context.Context, externalID string) error {
	deleted, err := dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewDelete().
			Model((*registry.BannedMember)(nil)).
			Where("external_id = ?", externalID).
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to delete banned member: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
	if err != nil {
		return err
	}

	if !deleted {
		return registry.ErrNotFound
	}

	return nil
}

// Close is a no-op; the Client owns the connection pool.
func (m *BannedMemberModel) Close() error {
	return nil
}
