package domain

import "context"

//go:generate mockgen -source=reminder_repository.go -destination=reminder_repository_mock.go -package=domain

// ReminderRepository is the reminders table. Every call is scoped to userID.
type ReminderRepository interface {
	// List returns the user's reminders ordered by CreatedAt descending.
	List(ctx context.Context, userID string) ([]Reminder, error)
	Insert(ctx context.Context, r NewReminder) (*Reminder, error)
	Update(ctx context.Context, userID, id string, patch ReminderPatch) error
	Delete(ctx context.Context, userID, id string) error
}
