// Package registrytest holds the behavioural checks every registry backend must pass.
package registrytest

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sbu-community/sentinel/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty registry for a single test.
type Factory func(t *testing.T) registry.Registry

// Run exercises the registry contract against the backend built by newRegistry.
func Run(t *testing.T, newRegistry Factory) {
	t.Helper()

	t.Run("insert then exists", func(t *testing.T) {
		reg := newRegistry(t)
		ctx := t.Context()

		exists, err := reg.Exists(ctx, "069a79f444e94726a5befca90e38aaf5")
		require.NoError(t, err)
		assert.False(t, exists)

		err = reg.Insert(ctx, registry.NewBannedMember("069a79f444e94726a5befca90e38aaf5", "griefing", 42))
		require.NoError(t, err)

		exists, err = reg.Exists(ctx, "069a79f444e94726a5befca90e38aaf5")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("get returns stored fields", func(t *testing.T) {
		reg := newRegistry(t)
		ctx := t.Context()

		require.NoError(t, reg.Insert(ctx, registry.NewBannedMember("abc", "xray", 7)))

		member, err := reg.Get(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, "abc", member.ExternalID)
		assert.Equal(t, "xray", member.Reason)
		assert.Equal(t, uint64(7), member.ModeratorID)
	})

	t.Run("empty reason stores sentinel", func(t *testing.T) {
		reg := newRegistry(t)
		ctx := t.Context()

		require.NoError(t, reg.Insert(ctx, registry.NewBannedMember("noreason", "", 1)))

		member, err := reg.Get(ctx, "noreason")
		require.NoError(t, err)
		assert.Equal(t, registry.DefaultReason, member.Reason)
	})

	t.Run("get missing", func(t *testing.T) {
		reg := newRegistry(t)

		member, err := reg.Get(t.Context(), "missing")
		require.ErrorIs(t, err, registry.ErrNotFound)
		assert.Nil(t, member)
	})

	t.Run("duplicate insert conflicts", func(t *testing.T) {
		reg := newRegistry(t)
		ctx := t.Context()

		require.NoError(t, reg.Insert(ctx, registry.NewBannedMember("dup", "first", 1)))

		err := reg.Insert(ctx, registry.NewBannedMember("dup", "second", 2))
		require.ErrorIs(t, err, registry.ErrConflict)

		member, err := reg.Get(ctx, "dup")
		require.NoError(t, err)
		assert.Equal(t, "first", member.Reason)
		assert.Equal(t, uint64(1), member.ModeratorID)
	})

	t.Run("delete then exists", func(t *testing.T) {
		reg := newRegistry(t)
		ctx := t.Context()

		require.NoError(t, reg.Insert(ctx, registry.NewBannedMember("gone", "spam", 3)))
		require.NoError(t, reg.Delete(ctx, "gone"))

		exists, err := reg.Exists(ctx, "gone")
		require.NoError(t, err)
		assert.False(t, exists)

		require.ErrorIs(t, reg.Delete(ctx, "gone"), registry.ErrNotFound)
	})

	t.Run("reinsert after delete", func(t *testing.T) {
		reg := newRegistry(t)
		ctx := t.Context()

		require.NoError(t, reg.Insert(ctx, registry.NewBannedMember("again", "old", 1)))
		require.NoError(t, reg.Delete(ctx, "again"))
		require.NoError(t, reg.Insert(ctx, registry.NewBannedMember("again", "new", 2)))

		member, err := reg.Get(ctx, "again")
		require.NoError(t, err)
		assert.Equal(t, "new", member.Reason)
	})

	t.Run("concurrent inserts admit one writer", func(t *testing.T) {
		reg := newRegistry(t)
		ctx := t.Context()

		const writers = 8

		var (
			wg        sync.WaitGroup
			succeeded atomic.Int32
			conflicts atomic.Int32
		)

		for i := range writers {
			wg.Add(1)

			go func(moderator uint64) {
				defer wg.Done()

				err := reg.Insert(ctx, registry.NewBannedMember("race", "concurrent", moderator))
				switch {
				case err == nil:
					succeeded.Add(1)
				case assert.ErrorIs(t, err, registry.ErrConflict):
					conflicts.Add(1)
				}
			}(uint64(i + 1))
		}

		wg.Wait()

		assert.Equal(t, int32(1), succeeded.Load())
		assert.Equal(t, int32(writers-1), conflicts.Load())
	})
}
