package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/cuaidesk/desk-reminders/internal/domain"
	"github.com/cuaidesk/desk-reminders/internal/observability/metrics"
	"github.com/cuaidesk/desk-reminders/internal/service/notify"
	"github.com/cuaidesk/desk-reminders/internal/service/reminder"
)

// Channels hands out the per-user delivery channels.
type Channels interface {
	Toaster(userID string) domain.Toaster
	Platform(userID string) domain.NotificationPlatform
}

type Dependencies struct {
	Reminders   domain.ReminderRepository
	Preferences domain.PreferenceRepository
	Channels    Channels
	Recorder    domain.NotificationRecorder
	Clock       clock.Clock
	Notify      notify.Config
	Location    *time.Location
	Metrics     *metrics.ReminderMetrics
}

// Registry keeps one Session per user for the lifetime of the process.
type Registry struct {
	deps Dependencies

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

func NewRegistry(deps Dependencies) *Registry {
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	return &Registry{
		deps:     deps,
		sessions: make(map[string]*Session),
	}
}

// Get returns the user's session, creating and loading it on first use.
// Concurrent first calls for the same user share one load.
func (r *Registry) Get(ctx context.Context, userID string) (*Session, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrRegistryClosed
	}
	s, ok := r.sessions[userID]
	if !ok {
		s = r.newSession(userID)
		r.sessions[userID] = s
	}
	r.mu.Unlock()

	if !ok {
		slog.InfoContext(ctx, "session created",
			slog.String("user_id", userID),
		)
	}
	s.loadOnce.Do(func() {
		s.load(context.WithoutCancel(ctx))
	})

	// Close may have run while the session was loading. Its scheduler is no
	// longer reachable from the registry, so stop it here.
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		s.close()
		return nil, ErrRegistryClosed
	}
	return s, nil
}

// Lookup returns an existing session without creating one.
func (r *Registry) Lookup(userID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	return s, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close stops every scheduler. Repository calls already in flight run to completion.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
	slog.Info("session registry closed",
		slog.Int("sessions", len(sessions)),
	)
}

func (r *Registry) newSession(userID string) *Session {
	var (
		toaster  domain.Toaster
		platform domain.NotificationPlatform
	)
	if r.deps.Channels != nil {
		toaster = r.deps.Channels.Toaster(userID)
		platform = r.deps.Channels.Platform(userID)
	}

	store := reminder.NewStore(userID, r.deps.Reminders, toaster, r.deps.Location, r.deps.Metrics)
	scheduler := notify.NewScheduler(userID, r.deps.Notify, r.deps.Clock, platform, toaster, r.deps.Recorder, r.deps.Metrics)
	store.Subscribe(scheduler.UpdateReminders)

	return &Session{
		userID:    userID,
		store:     store,
		scheduler: scheduler,
		platform:  platform,
		toaster:   toaster,
		prefs:     r.deps.Preferences,
	}
}
