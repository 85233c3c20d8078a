package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Game     GameConfig
	Identity IdentityConfig
	Logging  LoggingConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port string
	Host string
	Env  string // "development" or "production"
}

// GameConfig holds game-related configuration.
type GameConfig struct {
	MaxPlayers     int
	TotalRounds    int
	DebateMinutes  int
	RoomCodeLength int
}

// IdentityConfig holds identity-pool configuration.
type IdentityConfig struct {
	APIKey   string
	BaseURL  string
	CacheTTL time.Duration
}

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load loads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
			Env:  getEnv("ENV", "development"),
		},
		Game: GameConfig{
			MaxPlayers:     getEnvInt("MAX_PLAYERS", 15),
			TotalRounds:    getEnvInt("TOTAL_ROUNDS", 5),
			DebateMinutes:  getEnvInt("DEBATE_MINUTES", 5),
			RoomCodeLength: getEnvInt("ROOM_CODE_LENGTH", 6),
		},
		Identity: IdentityConfig{
			APIKey:   getEnv("SPORTSDB_API_KEY", "1"),
			BaseURL:  getEnv("SPORTSDB_BASE_URL", ""),
			CacheTTL: time.Duration(getEnvInt("IDENTITY_CACHE_TTL_SECONDS", 3600)) * time.Second,
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetAddr returns the server address in host:port format.
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// getEnv returns an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value.
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
