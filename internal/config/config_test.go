package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, 15, cfg.Game.MaxPlayers)
	assert.Equal(t, 5, cfg.Game.TotalRounds)
	assert.Equal(t, 5, cfg.Game.DebateMinutes)
	assert.Equal(t, 6, cfg.Game.RoomCodeLength)
	assert.Equal(t, "1", cfg.Identity.APIKey)
	assert.Equal(t, time.Hour, cfg.Identity.CacheTTL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)

	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "0.0.0.0:8080", cfg.GetAddr())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("ENV", "production")
	t.Setenv("MAX_PLAYERS", "8")
	t.Setenv("TOTAL_ROUNDS", "3")
	t.Setenv("SPORTSDB_API_KEY", "secret")
	t.Setenv("IDENTITY_CACHE_TTL_SECONDS", "60")
	t.Setenv("LOG_FORMAT", "json")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8, cfg.Game.MaxPlayers)
	assert.Equal(t, 3, cfg.Game.TotalRounds)
	assert.Equal(t, "secret", cfg.Identity.APIKey)
	assert.Equal(t, time.Minute, cfg.Identity.CacheTTL)
	assert.Equal(t, "json", cfg.Logging.Format)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "127.0.0.1:9000", cfg.GetAddr())
}

func TestLoadIgnoresMalformedInts(t *testing.T) {
	t.Setenv("MAX_PLAYERS", "lots")

	cfg := Load()
	assert.Equal(t, 15, cfg.Game.MaxPlayers)
}
