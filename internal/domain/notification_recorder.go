package domain

import (
	"context"
	"time"
)

// FiredNotification is one scheduler emission.
type FiredNotification struct {
	UserID     string
	ReminderID string
	Native     bool
	FiredAt    time.Time
}

type NotificationRecorder interface {
	RecordFired(ctx context.Context, record FiredNotification) error
	Close() error
}
