package bootstrap

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/trivern/leadflow/internal/config"
	"github.com/trivern/leadflow/pkg/logging"
)

func TestBuildRedisClientDisabledWithoutAddr(t *testing.T) {
	cfg := &appconfig.Config{RedisAddr: "  "}
	assert.Nil(t, BuildRedisClient(context.Background(), cfg, logging.Default(), false))
	assert.Nil(t, BuildRedisClient(context.Background(), nil, nil, false))
}

func TestBuildRedisClientVerifyPing(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := &appconfig.Config{RedisAddr: mr.Addr()}
	client := BuildRedisClient(context.Background(), cfg, logging.Default(), true)
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })

	mr.Close()
	down := BuildRedisClient(context.Background(), cfg, logging.Default(), true)
	assert.Nil(t, down)
}

func TestBuildPgxPoolNilWithoutURL(t *testing.T) {
	cfg := &appconfig.Config{}
	assert.Nil(t, BuildPgxPool(context.Background(), cfg, logging.Default()))
}

func TestBuildCalendarNilWithoutCredentials(t *testing.T) {
	cfg := &appconfig.Config{GoogleCalendarID: "primary"}
	assert.Nil(t, BuildCalendar(context.Background(), cfg, logging.Default()))
}
