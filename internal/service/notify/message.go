package notify

import (
	"github.com/cuaidesk/desk-reminders/internal/domain"
)

const (
	titlePrefix    = "⏰ Reminder: "
	defaultBody    = "Your reminder is due now!"
	viewLabel      = "View"
	markCompleteUI = "Mark Complete"
	dismissUI      = "Dismiss"
)

// notificationsFor builds the payloads emitted when r becomes due, native first.
func notificationsFor(r domain.Reminder, cfg Config) []domain.Notification {
	title := titlePrefix + r.Title
	body := defaultBody
	if r.Description != nil && *r.Description != "" {
		body = *r.Description
	}

	return []domain.Notification{
		domain.NativeNotification{
			Title:              title,
			Body:               body,
			Tag:                r.ID,
			RequireInteraction: true,
			Actions: []domain.NotificationAction{
				{Action: domain.ActionMarkComplete, Title: markCompleteUI},
				{Action: domain.ActionDismiss, Title: dismissUI},
			},
		},
		domain.ToastNotification{
			Level:       domain.ToastInfo,
			Title:       title,
			Description: body,
			Duration:    cfg.ToastDuration,
			Action: &domain.ToastAction{
				Label: viewLabel,
				Kind:  domain.ToastActionFocusWindow,
			},
		},
	}
}
