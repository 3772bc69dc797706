package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cuaidesk/desk-reminders/internal/domain"
	"github.com/cuaidesk/desk-reminders/internal/observability/metrics"
	"github.com/cuaidesk/desk-reminders/internal/observability/tracing"
)

// Listener receives the full reminder list after every change. The slice must
// not be modified.
type Listener func(reminders []domain.Reminder)

// Store owns one user's reminder list and keeps it in sync with the repository.
//
// The list is replaced with a fresh slice on every change, so a reader holding
// a snapshot never sees a partially applied mutation.
type Store struct {
	userID   string
	repo     domain.ReminderRepository
	toaster  domain.Toaster
	location *time.Location
	metrics  *metrics.ReminderMetrics

	mu        sync.Mutex
	reminders atomic.Pointer[[]domain.Reminder]
	loading   atomic.Bool
	listeners []Listener
}

func NewStore(
	userID string,
	repo domain.ReminderRepository,
	toaster domain.Toaster,
	location *time.Location,
	reminderMetrics *metrics.ReminderMetrics,
) *Store {
	if location == nil {
		location = time.Local
	}
	s := &Store{
		userID:   userID,
		repo:     repo,
		toaster:  toaster,
		location: location,
		metrics:  reminderMetrics,
	}
	empty := make([]domain.Reminder, 0)
	s.reminders.Store(&empty)
	return s
}

// Subscribe registers fn and immediately calls it with the current list.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, fn)
	fn(s.snapshot())
}

// Reminders returns a copy of the current list, newest first.
func (s *Store) Reminders() []domain.Reminder {
	return slices.Clone(s.snapshot())
}

func (s *Store) Loading() bool {
	return s.loading.Load()
}

func (s *Store) Stats() domain.ReminderStats {
	return domain.StatsOf(s.snapshot())
}

// Fetch replaces the list with the repository's view. On failure the list is
// left empty.
func (s *Store) Fetch(ctx context.Context) error {
	ctx, span := tracing.StartStoreSpan(ctx, "fetch", s.userID)
	defer span.End()

	s.loading.Store(true)
	defer s.loading.Store(false)

	slog.DebugContext(ctx, "fetching reminders",
		slog.String("user_id", s.userID),
	)

	reminders, err := s.repo.List(ctx, s.userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch reminders",
			slog.String("user_id", s.userID),
			slog.String("error", err.Error()),
		)
		tracing.RecordError(span, err)
		s.recordOperation(ctx, "fetch", err)
		s.replace(make([]domain.Reminder, 0))
		s.toastError(ctx, failureMessage("load", true, err))
		return fmt.Errorf("failed to fetch reminders: %w", err)
	}

	if reminders == nil {
		reminders = make([]domain.Reminder, 0)
	}
	s.replace(reminders)
	s.recordOperation(ctx, "fetch", nil)

	slog.DebugContext(ctx, "fetched reminders",
		slog.String("user_id", s.userID),
		slog.Int("count", len(reminders)),
	)

	return nil
}

// Add validates the form, persists a new reminder and prepends it to the list.
// Validation failures perform no I/O.
func (s *Store) Add(ctx context.Context, in domain.FormInput) (*domain.Reminder, error) {
	ctx, span := tracing.StartStoreSpan(ctx, "add", s.userID)
	defer span.End()

	if s.userID == "" {
		s.toastError(ctx, msgMissingFields)
		return nil, domain.ErrValidation
	}
	if err := in.Validate(); err != nil {
		s.toastError(ctx, msgMissingFields)
		return nil, err
	}

	dueAt, err := in.DueAt(s.location)
	if err != nil {
		slog.WarnContext(ctx, "invalid reminder date or time",
			slog.String("user_id", s.userID),
			slog.String("date", in.Date),
			slog.String("time", in.Time),
		)
		s.toastError(ctx, failureMessage("create", false, err))
		return nil, err
	}

	created, err := s.repo.Insert(ctx, domain.NewReminder{
		Title:        in.Title,
		Description:  in.DescriptionOrNil(),
		ReminderTime: dueAt,
		UserID:       s.userID,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create reminder",
			slog.String("user_id", s.userID),
			slog.String("error", err.Error()),
		)
		tracing.RecordError(span, err)
		s.recordOperation(ctx, "add", err)
		s.toastError(ctx, failureMessage("create", false, err))
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	s.mutate(func(current []domain.Reminder) []domain.Reminder {
		next := make([]domain.Reminder, 0, len(current)+1)
		next = append(next, *created)
		return append(next, current...)
	})
	s.recordOperation(ctx, "add", nil)

	slog.InfoContext(ctx, "reminder created",
		slog.String("user_id", s.userID),
		slog.String("reminder_id", created.ID),
		slog.Time("reminder_time", created.ReminderTime),
	)
	s.toastSuccess(ctx, msgCreated)

	return created, nil
}

// Toggle persists is_completed = !currentStatus. currentStatus is the value the
// caller last observed, not the repository's.
func (s *Store) Toggle(ctx context.Context, id string, currentStatus bool) error {
	ctx, span := tracing.StartStoreSpan(ctx, "toggle", s.userID)
	defer span.End()

	next := !currentStatus
	if err := s.repo.Update(ctx, s.userID, id, domain.ReminderPatch{IsCompleted: &next}); err != nil {
		slog.ErrorContext(ctx, "failed to update reminder",
			slog.String("user_id", s.userID),
			slog.String("reminder_id", id),
			slog.String("error", err.Error()),
		)
		tracing.RecordError(span, err)
		s.recordOperation(ctx, "toggle", err)
		s.toastError(ctx, failureMessage("update", false, err))
		return fmt.Errorf("failed to update reminder %s: %w", id, err)
	}

	s.mutate(func(current []domain.Reminder) []domain.Reminder {
		updated := slices.Clone(current)
		for i := range updated {
			if updated[i].ID == id {
				updated[i].IsCompleted = next
			}
		}
		return updated
	})
	s.recordOperation(ctx, "toggle", nil)

	slog.InfoContext(ctx, "reminder toggled",
		slog.String("user_id", s.userID),
		slog.String("reminder_id", id),
		slog.Bool("is_completed", next),
	)
	if next {
		s.toastSuccess(ctx, msgCompleted)
	} else {
		s.toastSuccess(ctx, msgPending)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartStoreSpan(ctx, "delete", s.userID)
	defer span.End()

	if err := s.repo.Delete(ctx, s.userID, id); err != nil {
		slog.ErrorContext(ctx, "failed to delete reminder",
			slog.String("user_id", s.userID),
			slog.String("reminder_id", id),
			slog.String("error", err.Error()),
		)
		tracing.RecordError(span, err)
		s.recordOperation(ctx, "delete", err)
		s.toastError(ctx, failureMessage("delete", false, err))
		return fmt.Errorf("failed to delete reminder %s: %w", id, err)
	}

	s.mutate(func(current []domain.Reminder) []domain.Reminder {
		return slices.DeleteFunc(slices.Clone(current), func(r domain.Reminder) bool {
			return r.ID == id
		})
	})
	s.recordOperation(ctx, "delete", nil)

	slog.InfoContext(ctx, "reminder deleted",
		slog.String("user_id", s.userID),
		slog.String("reminder_id", id),
	)
	s.toastSuccess(ctx, msgDeleted)

	return nil
}

func (s *Store) snapshot() []domain.Reminder {
	return *s.reminders.Load()
}

func (s *Store) replace(reminders []domain.Reminder) {
	s.mutate(func([]domain.Reminder) []domain.Reminder {
		return reminders
	})
}

// mutate derives a new list from the current one, swaps it in and notifies
// listeners. Listeners are called in mutation order.
func (s *Store) mutate(fn func(current []domain.Reminder) []domain.Reminder) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := fn(s.snapshot())
	s.reminders.Store(&next)
	for _, l := range s.listeners {
		l(next)
	}
}

func (s *Store) toastError(ctx context.Context, msg string) {
	if s.toaster == nil {
		return
	}
	s.toaster.Toast(ctx, domain.ToastNotification{Level: domain.ToastError, Title: msg})
}

func (s *Store) toastSuccess(ctx context.Context, msg string) {
	if s.toaster == nil {
		return
	}
	s.toaster.Toast(ctx, domain.ToastNotification{Level: domain.ToastSuccess, Title: msg})
}

func (s *Store) recordOperation(ctx context.Context, op string, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = string(domain.ClassifyError(err))
		if errors.Is(err, domain.ErrReminderNotFound) {
			outcome = "not_found"
		}
	}
	s.metrics.RecordStoreOperation(ctx, op, outcome)
}
