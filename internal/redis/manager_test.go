package redis_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/sbu-community/sentinel/internal/redis"
	"github.com/sbu-community/sentinel/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestManagerReusesClients(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	host, portText, found := strings.Cut(mr.Addr(), ":")
	require.True(t, found)
	port, err := strconv.Atoi(portText)
	require.NoError(t, err)

	manager := redis.NewManager(&config.Redis{Host: host, Port: port}, zap.NewNop())
	defer manager.Close()

	first, err := manager.GetClient(redis.RegistryDBIndex)
	require.NoError(t, err)

	second, err := manager.GetClient(redis.RegistryDBIndex)
	require.NoError(t, err)
	assert.Same(t, first, second)

	err = first.Do(t.Context(), first.B().Set().Key("k").Value("v").Build()).Error()
	require.NoError(t, err)
	assert.True(t, mr.Exists("k"))
}
