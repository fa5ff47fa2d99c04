package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all environment-derived settings
type Config struct {
	ServerHost string
	ServerPort int

	// StorageType selects the storage backend ("memory" or "redis")
	StorageType string
	RedisURL    string

	// Game settings
	MaxPlayersPerSession int
	SessionDuration      time.Duration
	ResultWindow         time.Duration

	// Auth settings
	JWTSecret string
	TokenTTL  time.Duration
}

// Load reads configuration from the environment. In dev mode a .env file is
// loaded first if present.
func Load() Config {
	if os.Getenv("ENV") == "dev" {
		_ = godotenv.Load()
	}

	return Config{
		ServerHost:           getEnv("SERVER_HOST", ""),
		ServerPort:           getEnvInt("SERVER_PORT", 8080),
		StorageType:          getEnv("STORAGE_TYPE", "memory"),
		RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379"),
		MaxPlayersPerSession: getEnvInt("MAX_PLAYERS_PER_SESSION", 10),
		SessionDuration:      getEnvMillis("SESSION_DURATION_MS", 20*time.Second),
		ResultWindow:         getEnvMillis("RESULT_VISIBILITY_MS", 5*time.Second),
		JWTSecret:            getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:             getEnvMillis("TOKEN_TTL_MS", 24*time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvMillis(key string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return time.Duration(value) * time.Millisecond
		}
	}
	return defaultValue
}
