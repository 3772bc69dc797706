package config

import (
	"os"
	"strings"
	"time"
)

const (
	pollIntervalEnv      = "REMINDER_POLL_INTERVAL"
	dueWindowEnv         = "REMINDER_DUE_WINDOW"
	missedGraceEnv       = "REMINDER_MISSED_GRACE"
	toastDurationEnv     = "REMINDER_TOAST_DURATION"
	permissionTimeoutEnv = "REMINDER_PERMISSION_TIMEOUT"
	timezoneEnv          = "REMINDER_TIMEZONE"

	defaultPollInterval      = 30 * time.Second
	defaultDueWindow         = 60 * time.Second
	defaultMissedGrace       = 60 * time.Second
	defaultToastDuration     = 10 * time.Second
	defaultPermissionTimeout = 60 * time.Second
)

type SchedulerConfig struct {
	PollInterval      time.Duration
	DueWindow         time.Duration
	MissedGrace       time.Duration
	ToastDuration     time.Duration
	PermissionTimeout time.Duration
	// Location is used to combine the form's date and time fields.
	Location *time.Location
}

func LoadSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		PollInterval:      durationFromEnv(pollIntervalEnv, defaultPollInterval),
		DueWindow:         durationFromEnv(dueWindowEnv, defaultDueWindow),
		MissedGrace:       durationFromEnv(missedGraceEnv, defaultMissedGrace),
		ToastDuration:     durationFromEnv(toastDurationEnv, defaultToastDuration),
		PermissionTimeout: durationFromEnv(permissionTimeoutEnv, defaultPermissionTimeout),
		Location:          loadLocation(os.Getenv(timezoneEnv)),
	}
}

func loadLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *SchedulerConfig) Validate() error {
	switch {
	case c == nil:
		return ErrSchedulerConfigMissing
	case c.PollInterval <= 0:
		return ErrInvalidPollInterval
	case c.DueWindow < 0:
		return ErrInvalidDueWindow
	case c.MissedGrace < 0:
		return ErrInvalidMissedGrace
	case c.ToastDuration <= 0:
		return ErrInvalidToastDuration
	case c.PermissionTimeout <= 0:
		return ErrInvalidPermissionTimeout
	}
	return nil
}
