package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Uploaded avatar storage
	IconDir string

	// Background cadences
	ChatFlushMinutes   int
	UnreadFlushMinutes int
	RoomSweepMinutes   int

	// Security
	JWTSecret             string
	LoginRateLimitSeconds int
	CookieMaxAge          int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/gamehall?sslmode=disable"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Avatars
		IconDir: getEnv("ICON_DIR", "./icons"),

		// Background cadences
		ChatFlushMinutes:   getEnvInt("CHAT_FLUSH_MINUTES", 10),
		UnreadFlushMinutes: getEnvInt("UNREAD_FLUSH_MINUTES", 10),
		RoomSweepMinutes:   getEnvInt("ROOM_SWEEP_MINUTES", 5),

		// Security
		JWTSecret:             getEnv("JWT_SECRET", "change-me-in-production"),
		LoginRateLimitSeconds: getEnvInt("LOGIN_RATE_LIMIT_SECONDS", 1),
		CookieMaxAge:          getEnvInt("COOKIE_MAX_AGE", 1296000),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
