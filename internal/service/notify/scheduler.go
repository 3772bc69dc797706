package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/cuaidesk/desk-reminders/internal/domain"
	"github.com/cuaidesk/desk-reminders/internal/observability/metrics"
	"github.com/cuaidesk/desk-reminders/internal/observability/tracing"
)

// Scheduler turns due reminders into one-shot notifications for a single user.
//
// While enabled it scans the last reminder list it was given every
// PollInterval. A reminder fires at most once while it stays in the list; the
// dedupe set survives disable/enable cycles and only forgets ids that leave
// the list.
type Scheduler struct {
	userID   string
	cfg      Config
	clock    clock.Clock
	platform domain.NotificationPlatform
	toaster  domain.Toaster
	recorder domain.NotificationRecorder
	metrics  *metrics.ReminderMetrics

	// mu guards the scan state. A pass holds it while marking and dispatching.
	mu        sync.Mutex
	reminders []domain.Reminder
	notified  map[string]struct{}

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	kick   chan struct{}
}

func NewScheduler(
	userID string,
	cfg Config,
	clk clock.Clock,
	platform domain.NotificationPlatform,
	toaster domain.Toaster,
	recorder domain.NotificationRecorder,
	reminderMetrics *metrics.ReminderMetrics,
) *Scheduler {
	if clk == nil {
		clk = clock.New()
	}
	return &Scheduler{
		userID:   userID,
		cfg:      cfg.withDefaults(),
		clock:    clk,
		platform: platform,
		toaster:  toaster,
		recorder: recorder,
		metrics:  reminderMetrics,
		notified: make(map[string]struct{}),
	}
}

// UpdateReminders replaces the known list and drops dedupe entries for ids no
// longer present. While enabled it also schedules a prompt scan.
func (s *Scheduler) UpdateReminders(reminders []domain.Reminder) {
	s.mu.Lock()
	s.reminders = reminders

	present := make(map[string]struct{}, len(reminders))
	for _, r := range reminders {
		present[r.ID] = struct{}{}
	}
	for id := range s.notified {
		if _, ok := present[id]; !ok {
			delete(s.notified, id)
		}
	}
	s.mu.Unlock()

	s.runMu.Lock()
	kick := s.kick
	s.runMu.Unlock()
	if kick != nil {
		select {
		case kick <- struct{}{}:
		default:
		}
	}
}

// SetEnabled starts or stops polling. Enabling runs one scan pass before
// returning. It is a no-op when the state does not change.
func (s *Scheduler) SetEnabled(ctx context.Context, enabled bool) {
	if enabled {
		s.start(ctx)
		return
	}
	s.Stop()
}

func (s *Scheduler) Enabled() bool {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.cancel != nil
}

// NotifiedCount is the number of reminders that already fired and are still listed.
func (s *Scheduler) NotifiedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notified)
}

// start holds runMu only while installing the run state. The first pass runs
// unlocked so UpdateReminders is never stuck behind it.
func (s *Scheduler) start(ctx context.Context) {
	s.runMu.Lock()
	if s.cancel != nil {
		s.runMu.Unlock()
		return
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	ticker := s.clock.Ticker(s.cfg.PollInterval)
	done := make(chan struct{})
	kick := make(chan struct{}, 1)

	s.cancel = cancel
	s.done = done
	s.kick = kick
	s.runMu.Unlock()

	slog.InfoContext(ctx, "reminder notifications enabled",
		slog.String("user_id", s.userID),
		slog.Duration("poll_interval", s.cfg.PollInterval),
	)
	if s.metrics != nil {
		s.metrics.RecordSchedulerActive(ctx, true)
	}

	s.Scan(runCtx)

	go s.run(runCtx, ticker, kick, done)
}

// Stop cancels the polling timer. Outstanding repository calls are unaffected.
func (s *Scheduler) Stop() {
	s.runMu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done, s.kick = nil, nil, nil
	s.runMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	slog.Info("reminder notifications disabled",
		slog.String("user_id", s.userID),
	)
	if s.metrics != nil {
		s.metrics.RecordSchedulerActive(context.Background(), false)
	}
}

func (s *Scheduler) run(ctx context.Context, ticker *clock.Ticker, kick <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Scan(ctx)
		case <-kick:
			s.Scan(ctx)
		}
	}
}

// Scan performs one pass over the known reminders and returns how many fired.
// Each due reminder is marked before anything is emitted for it. Fired
// notifications are recorded after the scan state is released.
func (s *Scheduler) Scan(ctx context.Context) int {
	fired := s.scan(ctx)
	for _, f := range fired {
		s.record(ctx, f)
	}
	return len(fired)
}

func (s *Scheduler) scan(ctx context.Context) []domain.FiredNotification {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	ctx, span := tracing.StartScanSpan(ctx, s.userID, now, len(s.reminders))
	defer span.End()

	var fired []domain.FiredNotification
	for _, r := range s.reminders {
		if r.IsCompleted {
			continue
		}
		if _, ok := s.notified[r.ID]; ok {
			continue
		}

		delta := r.ReminderTime.Sub(now)
		if !s.cfg.isDue(delta) {
			continue
		}

		s.notified[r.ID] = struct{}{}
		fired = append(fired, s.emit(ctx, r, now, delta))
	}

	tracing.RecordScanResult(span, len(fired))
	if s.metrics != nil {
		s.metrics.RecordScan(ctx, len(fired))
	}

	return fired
}

func (s *Scheduler) emit(ctx context.Context, r domain.Reminder, now time.Time, delta time.Duration) domain.FiredNotification {
	native := false
	for _, n := range notificationsFor(r, s.cfg) {
		if s.dispatch(ctx, n) {
			if n.Channel() == domain.ChannelNative {
				native = true
			}
			if s.metrics != nil {
				s.metrics.RecordNotification(ctx, n.Channel().String())
			}
		}
	}

	slog.InfoContext(ctx, "reminder notification fired",
		slog.String("user_id", s.userID),
		slog.String("reminder_id", r.ID),
		slog.Time("reminder_time", r.ReminderTime),
		slog.Duration("delta", delta),
		slog.Bool("native", native),
	)

	return domain.FiredNotification{
		UserID:     s.userID,
		ReminderID: r.ID,
		Native:     native,
		FiredAt:    now,
	}
}

func (s *Scheduler) record(ctx context.Context, f domain.FiredNotification) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordFired(ctx, f); err != nil {
		slog.WarnContext(ctx, "failed to record fired notification",
			slog.String("reminder_id", f.ReminderID),
			slog.String("error", err.Error()),
		)
	}
}

// dispatch sends n through its channel and reports whether it was delivered.
// The native channel is skipped unless the platform supports notifications and
// permission is granted.
func (s *Scheduler) dispatch(ctx context.Context, n domain.Notification) bool {
	switch n := n.(type) {
	case domain.NativeNotification:
		if s.platform == nil || !s.platform.Supported() || !s.platform.Permission().IsGranted() {
			return false
		}
		s.platform.Show(ctx, n)
		return true
	case domain.ToastNotification:
		if s.toaster == nil {
			return false
		}
		s.toaster.Toast(ctx, n)
		return true
	default:
		return false
	}
}
