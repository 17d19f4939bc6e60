package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "DB_DRIVER", "REDIS_ADDR", "TOKEN_TTL_HOURS", "RATE_LIMIT", "RESET_DB"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 720, cfg.TokenTTL)
	assert.Equal(t, 20, cfg.RateLimit)
	assert.False(t, cfg.ResetDB)
	assert.Equal(t, cfg.MySQLDSN, cfg.DSN())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "host=db user=app dbname=taskboard")
	t.Setenv("TOKEN_TTL_HOURS", "12")
	t.Setenv("RATE_LIMIT", "not-a-number")
	t.Setenv("RESET_DB", "true")

	cfg := Load()
	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, "host=db user=app dbname=taskboard", cfg.DSN())
	assert.Equal(t, 12, cfg.TokenTTL)
	assert.Equal(t, 20, cfg.RateLimit)
	assert.True(t, cfg.ResetDB)
}
