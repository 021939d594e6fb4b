package sqlite_test

import (
	"path/filepath"
	"testing"

	"github.com/sbu-community/sentinel/internal/registry"
	"github.com/sbu-community/sentinel/internal/registry/registrytest"
	"github.com/sbu-community/sentinel/internal/registry/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRegistry(t *testing.T) registry.Registry {
	t.Helper()

	reg, err := sqlite.New(t.Context(), filepath.Join(t.TempDir(), "bans.db"), 4, zap.NewNop())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = reg.Close()
	})

	return reg
}

func TestRegistry(t *testing.T) {
	registrytest.Run(t, newRegistry)
}

func TestRegistryPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bans.db")

	reg, err := sqlite.New(t.Context(), path, 2, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, reg.Insert(t.Context(), registry.NewBannedMember("persisted", "alt account", 99)))
	require.NoError(t, reg.Close())

	reopened, err := sqlite.New(t.Context(), path, 2, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	member, err := reopened.Get(t.Context(), "persisted")
	require.NoError(t, err)
	assert.Equal(t, "alt account", member.Reason)
	assert.Equal(t, uint64(99), member.ModeratorID)
}
