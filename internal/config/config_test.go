package config

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "ENV", "REMINDER_STORE", "REDIS_ADDR", "REDIS_DB", "SQLITE_PATH",
		"REMINDER_POLL_INTERVAL", "REMINDER_DUE_WINDOW", "REMINDER_MISSED_GRACE",
		"REMINDER_TOAST_DURATION", "REMINDER_TIMEZONE", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info level, got %v", cfg.LogLevel)
	}
	if cfg.Store != StoreRedis {
		t.Errorf("expected redis store, got %s", cfg.Store)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("unexpected redis addr: %s", cfg.Redis.Addr)
	}
	if cfg.SQLite.Path != "reminders.db" {
		t.Errorf("unexpected sqlite path: %s", cfg.SQLite.Path)
	}
	if cfg.Scheduler.PollInterval != 30*time.Second {
		t.Errorf("unexpected poll interval: %v", cfg.Scheduler.PollInterval)
	}
	if cfg.Scheduler.DueWindow != 60*time.Second {
		t.Errorf("unexpected due window: %v", cfg.Scheduler.DueWindow)
	}
	if cfg.Scheduler.MissedGrace != 60*time.Second {
		t.Errorf("unexpected missed grace: %v", cfg.Scheduler.MissedGrace)
	}
	if cfg.Scheduler.ToastDuration != 10*time.Second {
		t.Errorf("unexpected toast duration: %v", cfg.Scheduler.ToastDuration)
	}
	if cfg.Scheduler.Location != time.Local {
		t.Errorf("expected local timezone, got %v", cfg.Scheduler.Location)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("unexpected cors origins: %v", cfg.CORS.AllowedOrigins)
	}
	if err := ValidateForRun(cfg); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadStoreBackend(t *testing.T) {
	tests := []struct {
		raw     string
		want    StoreBackend
		wantErr error
	}{
		{raw: "", want: StoreRedis},
		{raw: "redis", want: StoreRedis},
		{raw: "SQLite", want: StoreSQLite},
		{raw: "postgres", wantErr: ErrInvalidStoreBackend},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Setenv("REMINDER_STORE", tt.raw)
			got, err := LoadStoreBackend()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestLoadFailsOnInvalidRedisDB(t *testing.T) {
	t.Setenv("REMINDER_STORE", "")
	t.Setenv("REDIS_DB", "one")

	if _, err := Load(); !errors.Is(err, ErrInvalidRedisDB) {
		t.Errorf("expected ErrInvalidRedisDB, got %v", err)
	}
}

func TestDurationFromEnv(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Duration
	}{
		{name: "unset", raw: "", want: 5 * time.Second},
		{name: "go duration", raw: "2m", want: 2 * time.Minute},
		{name: "plain seconds", raw: "45", want: 45 * time.Second},
		{name: "garbage", raw: "soon", want: 5 * time.Second},
		{name: "negative kept for validation", raw: "-1s", want: -time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.raw)
			if got := durationFromEnv("TEST_DURATION", 5*time.Second); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSchedulerConfigValidate(t *testing.T) {
	valid := func() *SchedulerConfig {
		return &SchedulerConfig{
			PollInterval:      30 * time.Second,
			DueWindow:         60 * time.Second,
			MissedGrace:       0,
			ToastDuration:     10 * time.Second,
			PermissionTimeout: time.Minute,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *SchedulerConfig)
		wantErr error
	}{
		{name: "valid", mutate: func(*SchedulerConfig) {}},
		{name: "zero poll interval", mutate: func(c *SchedulerConfig) { c.PollInterval = 0 }, wantErr: ErrInvalidPollInterval},
		{name: "negative due window", mutate: func(c *SchedulerConfig) { c.DueWindow = -time.Second }, wantErr: ErrInvalidDueWindow},
		{name: "negative grace", mutate: func(c *SchedulerConfig) { c.MissedGrace = -time.Second }, wantErr: ErrInvalidMissedGrace},
		{name: "zero toast duration", mutate: func(c *SchedulerConfig) { c.ToastDuration = 0 }, wantErr: ErrInvalidToastDuration},
		{name: "zero permission timeout", mutate: func(c *SchedulerConfig) { c.PermissionTimeout = 0 }, wantErr: ErrInvalidPermissionTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			if err := c.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateForRunJoinsErrors(t *testing.T) {
	cfg := &Config{
		Store:     StoreSQLite,
		SQLite:    &SQLiteConfig{},
		Scheduler: &SchedulerConfig{},
	}

	err := ValidateForRun(cfg)
	if !errors.Is(err, ErrSQLitePathMissing) {
		t.Errorf("expected ErrSQLitePathMissing, got %v", err)
	}
	if !errors.Is(err, ErrInvalidPollInterval) {
		t.Errorf("expected ErrInvalidPollInterval, got %v", err)
	}
}

func TestLoadLocation(t *testing.T) {
	if loc := loadLocation("UTC"); loc != time.UTC {
		t.Errorf("expected UTC, got %v", loc)
	}
	if loc := loadLocation("Not/AZone"); loc != time.Local {
		t.Errorf("expected fallback to local, got %v", loc)
	}
}

func TestLoadCORSConfig(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,,")

	cfg := LoadCORSConfig()
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins: %v", cfg.AllowedOrigins)
	}
}

func TestRedisOptions(t *testing.T) {
	opts := (&RedisConfig{Addr: "cache:6379", DB: 2, TLS: true}).Options()
	if opts.Addr != "cache:6379" || opts.DB != 2 {
		t.Errorf("unexpected options: %+v", opts)
	}
	if opts.TLSConfig == nil {
		t.Error("expected TLS config when TLS is enabled")
	}
}
