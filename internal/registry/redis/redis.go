// Package redis implements the ban registry on Redis, one string key per banned member.
package redis

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"
	"github.com/sbu-community/sentinel/internal/registry"
	"go.uber.org/zap"
)

// Registry stores each banned member as a JSON value under prefix+externalID.
// SET NX gives the unique-insert guarantee without any in-process locking.
type Registry struct {
	client rueidis.Client
	prefix string
	logger *zap.Logger
}

// New creates a Redis-backed registry. The client is owned by the caller.
func New(client rueidis.Client, prefix string, logger *zap.Logger) *Registry {
	return &Registry{
		client: client,
		prefix: prefix,
		logger: logger.Named("registry_redis"),
	}
}

// Exists reports whether a record exists for the identifier.
func (r *Registry) Exists(ctx context.Context, externalID string) (bool, error) {
	count, err := r.client.Do(ctx, r.client.B().Exists().Key(r.key(externalID)).Build()).AsInt64()
	if err != nil {
		return false, fmt.Errorf("failed to check banned member: %w", err)
	}

	return count > 0, nil
}

// Insert stores a new record if the key is not already set.
func (r *Registry) Insert(ctx context.Context, member *registry.BannedMember) error {
	data, err := sonic.Marshal(member)
	if err != nil {
		return fmt.Errorf("failed to encode banned member: %w", err)
	}

	err = r.client.Do(ctx, r.client.B().Set().
		Key(r.key(member.ExternalID)).
		Value(rueidis.BinaryString(data)).
		Nx().
		Build()).Error()
	if rueidis.IsRedisNil(err) {
		return registry.ErrConflict
	}

	if err != nil {
		return fmt.Errorf("failed to insert banned member: %w", err)
	}

	return nil
}

// Get returns the record for the identifier.
func (r *Registry) Get(ctx context.Context, externalID string) (*registry.BannedMember, error) {
	data, err := r.client.Do(ctx, r.client.B().Get().Key(r.key(externalID)).Build()).AsBytes()
	if rueidis.IsRedisNil(err) {
		return nil, registry.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get banned member: %w", err)
	}

	var member registry.BannedMember
	if err := sonic.Unmarshal(data, &member); err != nil {
		r.logger.Error("Corrupt banned member record",
			zap.String("external_id", externalID),
			zap.Error(err))

		return nil, fmt.Errorf("failed to decode banned member: %w", err)
	}

	return &member, nil
}

// Delete removes the record for the identifier.
func (r *Registry) Delete(ctx context.Context, externalID string) error {
	removed, err := r.client.Do(ctx, r.client.B().Del().Key(r.key(externalID)).Build()).AsInt64()
	if err != nil {
		return fmt.Errorf("failed to delete banned member: %w", err)
	}

	if removed == 0 {
		return registry.ErrNotFound
	}

	return nil
}

// Close is a no-op; the Redis manager owns the client.
func (r *Registry) Close() error {
	return nil
}

func (r *Registry) key(externalID string) string {
	return r.prefix + externalID
}
