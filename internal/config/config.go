package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort        = "8080"
	defaultEnvironment = "dev"
)

type Config struct {
	Port         string
	LogLevel     slog.Level
	Environment  string
	OTLPEndpoint string
	Store        StoreBackend
	Redis        *RedisConfig
	SQLite       *SQLiteConfig
	Scheduler    *SchedulerConfig
	CORS         *CORSConfig
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	env := os.Getenv("ENV")
	if env == "" {
		env = defaultEnvironment
	}

	store, err := LoadStoreBackend()
	if err != nil {
		return nil, err
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:         port,
		LogLevel:     parseLogLevel(os.Getenv("LOG_LEVEL")),
		Environment:  env,
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Store:        store,
		Redis:        redisConfig,
		SQLite:       LoadSQLiteConfig(),
		Scheduler:    LoadSchedulerConfig(),
		CORS:         LoadCORSConfig(),
	}, nil
}

func LoadCORSConfig() *CORSConfig {
	origins := splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &CORSConfig{AllowedOrigins: origins}
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

// durationFromEnv falls back to def when the variable is unset or unparseable.
// Both Go durations ("45s") and plain seconds ("45") are accepted.
func durationFromEnv(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
