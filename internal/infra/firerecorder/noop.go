package firerecorder

import (
	"context"

	"github.com/cuaidesk/desk-reminders/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.NotificationRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordFired(_ context.Context, _ domain.FiredNotification) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
