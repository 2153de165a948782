package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port          string
	PostgresDSN   string
	MongoURI      string
	MongoDB       string
	RedisAddr     string
	RedisPassword string

	// JWTSecret signs auth tokens. It has no default; the process
	// refuses to start without one.
	JWTSecret string
	TokenTTL  time.Duration

	// Admission control: at most RateLimitMax requests per client
	// per RateLimitWindow.
	RateLimitWindow time.Duration
	RateLimitMax    int
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET is not set")

func Load() (*Config, error) {
	cfg := &Config{
		Port:            getenv("PORT", "8080"),
		PostgresDSN:     getenv("POSTGRES_DSN", ""),
		MongoURI:        getenv("MONGO_URI", ""),
		MongoDB:         getenv("MONGO_DB", "quiz_api"),
		RedisAddr:       getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword:   getenv("REDIS_PASSWORD", ""),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		TokenTTL:        durationFromEnv("TOKEN_TTL", time.Hour),
		RateLimitWindow: durationFromEnv("RATE_LIMIT_WINDOW", 15*time.Minute),
		RateLimitMax:    intFromEnv("RATE_LIMIT_MAX", 100),
	}
	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// intFromEnv reads an int from env var name, falling back to defaultVal when empty or invalid.
func intFromEnv(name string, defaultVal int) int {
	if v := os.Getenv(name); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// durationFromEnv reads a time.Duration (e.g. "15m") from env var name.
func durationFromEnv(name string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(name); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
