package notify

import "time"

const (
	DefaultPollInterval  = 30 * time.Second
	DefaultDueWindow     = 60 * time.Second
	DefaultMissedGrace   = 60 * time.Second
	DefaultToastDuration = 10 * time.Second
)

type Config struct {
	// PollInterval is the time between two scan passes while enabled.
	PollInterval time.Duration
	// DueWindow is how far ahead of its reminder_time a reminder becomes due.
	DueWindow time.Duration
	// MissedGrace is how long after its reminder_time a reminder is still due.
	// Zero means only reminders in [now, now+DueWindow] fire.
	MissedGrace   time.Duration
	ToastDuration time.Duration
}

func DefaultConfig() Config {
	return Config{
		PollInterval:  DefaultPollInterval,
		DueWindow:     DefaultDueWindow,
		MissedGrace:   DefaultMissedGrace,
		ToastDuration: DefaultToastDuration,
	}
}

func (c Config) withDefaults() Config {
	out := c
	if out.PollInterval <= 0 {
		out.PollInterval = DefaultPollInterval
	}
	if out.DueWindow <= 0 {
		out.DueWindow = DefaultDueWindow
	}
	if out.MissedGrace < 0 {
		out.MissedGrace = 0
	}
	if out.ToastDuration <= 0 {
		out.ToastDuration = DefaultToastDuration
	}
	return out
}

// isDue reports whether a reminder whose reminder_time is delta away from now
// should fire on this pass.
func (c Config) isDue(delta time.Duration) bool {
	return delta >= -c.MissedGrace && delta <= c.DueWindow
}
