package config

import (
	"os"
	"strings"
)

const (
	reminderStoreEnv = "REMINDER_STORE"
	sqlitePathEnv    = "SQLITE_PATH"

	defaultSQLitePath = "reminders.db"
)

// StoreBackend selects where reminders and preferences are persisted.
type StoreBackend string

const (
	StoreRedis  StoreBackend = "redis"
	StoreSQLite StoreBackend = "sqlite"
)

func LoadStoreBackend() (StoreBackend, error) {
	switch raw := strings.ToLower(strings.TrimSpace(os.Getenv(reminderStoreEnv))); raw {
	case "", string(StoreRedis):
		return StoreRedis, nil
	case string(StoreSQLite):
		return StoreSQLite, nil
	default:
		return "", ErrInvalidStoreBackend
	}
}

type SQLiteConfig struct {
	Path string
}

func LoadSQLiteConfig() *SQLiteConfig {
	path := os.Getenv(sqlitePathEnv)
	if path == "" {
		path = defaultSQLitePath
	}
	return &SQLiteConfig{Path: path}
}

func (c *SQLiteConfig) Validate() error {
	if c == nil || c.Path == "" {
		return ErrSQLitePathMissing
	}
	return nil
}
