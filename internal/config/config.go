package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Environment string
	LogLevel    slog.Level

	// ScriptDir is the root directory for script files.
	ScriptDir string

	// RedisURL enables Redis-backed variable persistence when set.
	RedisURL string

	// TickInterval is the simulated game-loop tick for the runner.
	TickInterval time.Duration
}

func Load() *Config {
	return &Config{
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     parseLogLevel(getEnv("LOG_LEVEL", "info")),
		ScriptDir:    getEnv("SCRIPT_DIR", "./data/scripts"),
		RedisURL:     getEnv("REDIS_URL", ""),
		TickInterval: time.Duration(getEnvInt("TICK_MS", 33)) * time.Millisecond,
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
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
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
