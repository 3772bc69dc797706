package config

import "errors"

var (
	ErrRedisAddrMissing         = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB           = errors.New("REDIS_DB must be a valid integer")
	ErrInvalidStoreBackend      = errors.New("REMINDER_STORE must be redis or sqlite")
	ErrSQLitePathMissing        = errors.New("SQLITE_PATH is required")
	ErrSchedulerConfigMissing   = errors.New("scheduler configuration is required")
	ErrInvalidPollInterval      = errors.New("REMINDER_POLL_INTERVAL must be positive")
	ErrInvalidDueWindow         = errors.New("REMINDER_DUE_WINDOW must not be negative")
	ErrInvalidMissedGrace       = errors.New("REMINDER_MISSED_GRACE must not be negative")
	ErrInvalidToastDuration     = errors.New("REMINDER_TOAST_DURATION must be positive")
	ErrInvalidPermissionTimeout = errors.New("REMINDER_PERMISSION_TIMEOUT must be positive")
)
