package config

import (
	"errors"
	"fmt"
)

// ValidateForRun checks the settings the selected store backend and the
// scheduler need to start.
func ValidateForRun(cfg *Config) error {
	var errs []error

	switch cfg.Store {
	case StoreRedis:
		if err := cfg.Redis.Validate(); err != nil {
			errs = append(errs, err)
		}
	case StoreSQLite:
		if err := cfg.SQLite.Validate(); err != nil {
			errs = append(errs, err)
		}
	default:
		errs = append(errs, ErrInvalidStoreBackend)
	}

	if err := cfg.Scheduler.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %w", errors.Join(errs...))
	}
	return nil
}
