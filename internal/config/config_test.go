package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setMemoryEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("NOTIFY_DRIVER", "")
}

func TestNewDefaults(t *testing.T) {
	setMemoryEnv(t)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, slog.LevelInfo, cfg.Log.Level)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, NotifyDriverLog, cfg.Notify.Driver)
	assert.Equal(t, 10, cfg.RateLimit.Tickets)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 15*time.Second, cfg.Cache.StoreDetailsTTL)
	assert.False(t, cfg.Notify.WhatsApp.Enabled())
}

func TestNewPostgresRequiresCredentials(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("POSTGRES_USER", "")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_USER")

	t.Setenv("POSTGRES_USER", "queuego")
	t.Setenv("POSTGRES_PASSWORD", "pw")
	t.Setenv("POSTGRES_DB", "queuego")
	t.Setenv("POSTGRES_MAX_CONNS", "25")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, int32(25), cfg.Postgres.MaxConns)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	assert.True(t, cfg.Redis.Enabled(), "postgres deployments default to a local redis")
	assert.Equal(t, NotifyDriverAsynq, cfg.Notify.Driver)
}

func TestNewRejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"missing secret":   {"JWT_SECRET", ""},
		"bad port":         {"SERVER_PORT", "http"},
		"bad window":       {"RATE_LIMIT_WINDOW", "soon"},
		"bad level":        {"LOG_LEVEL", "loud"},
		"unknown driver":   {"STORAGE_DRIVER", "sqlite"},
		"asynq sans redis": {"NOTIFY_DRIVER", "asynq"},
	}

	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			setMemoryEnv(t)
			t.Setenv(kv[0], kv[1])

			_, err := New()
			assert.Error(t, err)
		})
	}
}

func TestNewOverrides(t *testing.T) {
	setMemoryEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("RATE_LIMIT_TICKETS", "3")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("WHATSAPP_PHONE_ID", "1")
	t.Setenv("WHATSAPP_TOKEN", "t")
	t.Setenv("WHATSAPP_TO", "15550001111")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 3, cfg.RateLimit.Tickets)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
	assert.True(t, cfg.Notify.WhatsApp.Enabled())
}
