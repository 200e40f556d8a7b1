package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestConfig_AddrAndEnabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		cfg             Config
		expectedAddr    string
		expectedEnabled bool
	}{
		{"host and port", Config{Host: "cache.internal", Port: "6380"}, "cache.internal:6380", true},
		{"default port", Config{Host: "localhost"}, "localhost:6379", true},
		{"ipv6 host", Config{Host: "::1", Port: "6379"}, "[::1]:6379", true},
		{"disabled", Config{}, ":6379", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expectedAddr, tt.cfg.Addr())
			assert.Equal(t, tt.expectedEnabled, tt.cfg.Enabled())
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6390")
	t.Setenv("REDIS_PASSWORD", "pw")

	assert.Equal(t, Config{Host: "redis", Port: "6390", Password: "pw"}, ConfigFromEnv())
}

func TestPingCheck(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectPing().SetVal("PONG")
	mock.ExpectPing().SetErr(errors.New("connection refused"))

	check := PingCheck(rdb)
	assert.NoError(t, check(context.Background()))
	assert.EqualError(t, check(context.Background()), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}
