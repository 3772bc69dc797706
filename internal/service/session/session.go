package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cuaidesk/desk-reminders/internal/domain"
	"github.com/cuaidesk/desk-reminders/internal/service/notify"
	"github.com/cuaidesk/desk-reminders/internal/service/reminder"
)

const (
	msgNotificationsEnabled = "Notifications enabled successfully!"
	msgNotificationsDenied  = "Notifications were denied. Please enable them in your browser settings."
)

// Settings is the notification state shown on the settings card.
type Settings struct {
	Enabled       bool              `json:"enabled"`
	Permission    domain.Permission `json:"permission"`
	Supported     bool              `json:"supported"`
	NotifiedCount int               `json:"notified_count"`
}

// Session is one signed-in user's reminder list and notification scheduler.
type Session struct {
	userID    string
	store     *reminder.Store
	scheduler *notify.Scheduler
	platform  domain.NotificationPlatform
	toaster   domain.Toaster
	prefs     domain.PreferenceRepository

	// settingsMu serializes flag changes so the persisted value and the
	// scheduler state move together.
	settingsMu sync.Mutex
	loadOnce   sync.Once
}

func (s *Session) Store() *reminder.Store {
	return s.store
}

func (s *Session) Scheduler() *notify.Scheduler {
	return s.scheduler
}

func (s *Session) Settings() Settings {
	settings := Settings{
		Enabled:       s.scheduler.Enabled(),
		Permission:    domain.PermissionDenied,
		NotifiedCount: s.scheduler.NotifiedCount(),
	}
	if s.platform != nil {
		settings.Permission = s.platform.Permission()
		settings.Supported = s.platform.Supported()
	}
	return settings
}

// SetNotificationsEnabled persists the flag and then starts or stops the scheduler.
func (s *Session) SetNotificationsEnabled(ctx context.Context, enabled bool) error {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	if s.prefs != nil {
		if err := s.prefs.SetBool(ctx, s.userID, domain.NotificationsEnabledKey, enabled); err != nil {
			slog.ErrorContext(ctx, "failed to persist notification preference",
				slog.String("user_id", s.userID),
				slog.Bool("enabled", enabled),
				slog.String("error", err.Error()),
			)
			return fmt.Errorf("failed to save notification preference: %w", err)
		}
	}

	s.scheduler.SetEnabled(ctx, enabled)
	return nil
}

// RequestPermission asks the browser for notification permission. A grant
// enables the scheduler. Unsupported platforms report denied without asking.
func (s *Session) RequestPermission(ctx context.Context) (domain.Permission, error) {
	permission, err := s.askPermission(ctx)
	if err != nil {
		return permission, err
	}

	switch permission {
	case domain.PermissionGranted:
		if err := s.SetNotificationsEnabled(ctx, true); err != nil {
			return permission, err
		}
		s.toast(ctx, domain.ToastSuccess, msgNotificationsEnabled)
	case domain.PermissionDenied:
		s.toast(ctx, domain.ToastError, msgNotificationsDenied)
	}

	slog.InfoContext(ctx, "notification permission resolved",
		slog.String("user_id", s.userID),
		slog.String("permission", permission.String()),
	)
	return permission, nil
}

func (s *Session) askPermission(ctx context.Context) (domain.Permission, error) {
	if s.platform == nil || !s.platform.Supported() {
		return domain.PermissionDenied, nil
	}
	if s.platform.Permission().IsGranted() {
		return domain.PermissionGranted, nil
	}

	permission, err := s.platform.RequestPermission(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotificationsUnsupported) {
			return domain.PermissionDenied, nil
		}
		slog.WarnContext(ctx, "notification permission request failed",
			slog.String("user_id", s.userID),
			slog.String("error", err.Error()),
		)
		return domain.PermissionDefault, fmt.Errorf("failed to request notification permission: %w", err)
	}
	return permission, nil
}

// HandleAction applies a native notification action clicked in the browser.
// tag is the reminder id.
func (s *Session) HandleAction(ctx context.Context, action, tag string) error {
	switch action {
	case domain.ActionMarkComplete:
		return s.store.Toggle(ctx, tag, false)
	case domain.ActionDismiss:
		return nil
	default:
		slog.DebugContext(ctx, "ignoring unknown notification action",
			slog.String("user_id", s.userID),
			slog.String("action", action),
		)
		return nil
	}
}

// load restores the persisted flag and performs the initial fetch. Both
// failures are logged and do not prevent the session from being used.
func (s *Session) load(ctx context.Context) {
	enabled := false
	if s.prefs != nil {
		value, found, err := s.prefs.GetBool(ctx, s.userID, domain.NotificationsEnabledKey)
		if err != nil {
			slog.WarnContext(ctx, "failed to load notification preference",
				slog.String("user_id", s.userID),
				slog.String("error", err.Error()),
			)
		} else if found {
			enabled = value
		}
	}

	if err := s.store.Fetch(ctx); err != nil {
		slog.WarnContext(ctx, "initial reminder fetch failed",
			slog.String("user_id", s.userID),
			slog.String("error", err.Error()),
		)
	}

	if enabled {
		s.scheduler.SetEnabled(ctx, true)
	}
}

func (s *Session) toast(ctx context.Context, level domain.ToastLevel, title string) {
	if s.toaster == nil {
		return
	}
	s.toaster.Toast(ctx, domain.ToastNotification{Level: level, Title: title})
}

func (s *Session) close() {
	s.scheduler.Stop()
}
