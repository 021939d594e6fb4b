//go:build integration

package database_test

import (
	"testing"

	"github.com/sbu-community/sentinel/internal/database"
	"github.com/sbu-community/sentinel/internal/registry"
	"github.com/sbu-community/sentinel/internal/registry/registrytest"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"
)

func TestBannedMemberModel(t *testing.T) {
	ctx := t.Context()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("sentinel"),
		tcpostgres.WithUsername("sentinel"),
		tcpostgres.WithPassword("sentinel"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	testcontainers.CleanupContainer(t, container)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	client, err := database.NewConnectionFromDSN(ctx, dsn, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close()
	})

	registrytest.Run(t, func(t *testing.T) registry.Registry {
		_, err := client.DB().NewTruncateTable().Model((*registry.BannedMember)(nil)).Exec(t.Context())
		require.NoError(t, err)

		return client.Registry()
	})
}
