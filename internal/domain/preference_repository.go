package domain

import "context"

//go:generate mockgen -source=preference_repository.go -destination=preference_repository_mock.go -package=domain

// NotificationsEnabledKey is the preference key holding the scheduler's enabled flag.
const NotificationsEnabledKey = "reminderNotificationsEnabled"

type PreferenceRepository interface {
	// GetBool returns (false, false, nil) when the key was never written.
	GetBool(ctx context.Context, userID, key string) (value bool, found bool, err error)
	SetBool(ctx context.Context, userID, key string, value bool) error
}
