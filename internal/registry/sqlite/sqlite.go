// Package sqlite implements the ban registry on an embedded SQLite database.
package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sbu-community/sentinel/internal/registry"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `
	CREATE TABLE IF NOT EXISTS banned_members (
		external_id TEXT PRIMARY KEY,
		reason TEXT NOT NULL DEFAULT 'None',
		moderator_id INTEGER NOT NULL
	)
`

// Registry stores banned members in a SQLite file through a connection pool.
type Registry struct {
	pool   *sqlitex.Pool
	logger *zap.Logger
}

// New opens (creating if needed) the database at path and ensures the schema exists.
func New(ctx context.Context, path string, poolSize int, logger *zap.Logger) (*Registry, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create registry directory: %w", err)
		}
	}

	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		Flags:    sqlite.OpenReadWrite | sqlite.OpenCreate | sqlite.OpenWAL,
		PoolSize: poolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite registry: %w", err)
	}

	r := &Registry{
		pool:   pool,
		logger: logger.Named("registry_sqlite"),
	}

	if err := r.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.ExecuteTransient(conn, schema, nil)
	}); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	r.logger.Info("SQLite registry opened", zap.String("path", path), zap.Int("pool_size", poolSize))

	return r, nil
}

// Exists reports whether a record exists for the identifier.
func (r *Registry) Exists(ctx context.Context, externalID string) (bool, error) {
	var found bool

	err := r.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, "SELECT 1 FROM banned_members WHERE external_id = ?", &sqlitex.ExecOptions{
			Args: []any{externalID},
			ResultFunc: func(*sqlite.Stmt) error {
				found = true
				return nil
			},
		})
	})
	if err != nil {
		return false, fmt.Errorf("failed to check banned member: %w", err)
	}

	return found, nil
}

// Insert stores a new record. The primary key makes the check-and-write a single statement.
func (r *Registry) Insert(ctx context.Context, member *registry.BannedMember) error {
	var changes int

	err := r.withConn(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn,
			"INSERT INTO banned_members (external_id, reason, moderator_id) VALUES (?, ?, ?) "+
				"ON CONFLICT (external_id) DO NOTHING",
			&sqlitex.ExecOptions{
				Args: []any{member.ExternalID, member.Reason, int64(member.ModeratorID)}, //nolint:gosec // snowflakes fit in int64
			})
		changes = conn.Changes()

		return err
	})
	if err != nil {
		return fmt.Errorf("failed to insert banned member: %w", err)
	}

	if changes == 0 {
		return registry.ErrConflict
	}

	return nil
}

// Get returns the record for the identifier.
func (r *Registry) Get(ctx context.Context, externalID string) (*registry.BannedMember, error) {
	var member *registry.BannedMember

	err := r.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			"SELECT external_id, reason, moderator_id FROM banned_members WHERE external_id = ?",
			&sqlitex.ExecOptions{
				Args: []any{externalID},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					member = &registry.BannedMember{
						ExternalID:  stmt.ColumnText(0),
						Reason:      stmt.ColumnText(1),
						ModeratorID: uint64(stmt.ColumnInt64(2)), //nolint:gosec // stored from uint64
					}
					return nil
				},
			})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get banned member: %w", err)
	}

	if member == nil {
		return nil, registry.ErrNotFound
	}

	return member, nil
}

// Delete removes the record for the identifier.
func (r *Registry) Delete(ctx context.Context, externalID string) error {
	var changes int

	err := r.withConn(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, "DELETE FROM banned_members WHERE external_id = ?", &sqlitex.ExecOptions{
			Args: []any{externalID},
		})
		changes = conn.Changes()

		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete banned member: %w", err)
	}

	if changes == 0 {
		return registry.ErrNotFound
	}

	return nil
}

// Close closes every pooled connection.
func (r *Registry) Close() error {
	return r.pool.Close()
}

// withConn borrows a connection for the duration of fn.
func (r *Registry) withConn(ctx context.Context, fn func(conn *sqlite.Conn) error) error {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer r.pool.Put(conn)

	return fn(conn)
}
