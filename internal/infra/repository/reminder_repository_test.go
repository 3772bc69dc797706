package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cuaidesk/desk-reminders/internal/domain"
	"github.com/cuaidesk/desk-reminders/internal/testutil"
)

func TestReminderRepositoryInsertAndList(t *testing.T) {
	ctx := context.Background()
	client := testutil.SetupRedisContainer(ctx, t)

	repo := NewReminderRepository(client).(*reminderRepository)
	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	desc := "bring the slides"
	first, err := repo.Insert(ctx, domain.NewReminder{
		Title:        "first",
		Description:  &desc,
		ReminderTime: base.Add(time.Hour),
		UserID:       "user-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := repo.Insert(ctx, domain.NewReminder{
		Title:        "second",
		ReminderTime: base.Add(2 * time.Hour),
		UserID:       "user-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.Insert(ctx, domain.NewReminder{
		Title:        "someone else",
		ReminderTime: base,
		UserID:       "user-2",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("expected distinct generated ids, got %q and %q", first.ID, second.ID)
	}
	if first.IsCompleted {
		t.Error("new reminders should not be completed")
	}

	got, err := repo.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 reminders, got %d", len(got))
	}
	if got[0].ID != second.ID || got[1].ID != first.ID {
		t.Errorf("expected newest first, got %s, %s", got[0].Title, got[1].Title)
	}
	if got[1].Description == nil || *got[1].Description != desc {
		t.Errorf("expected description %q, got %v", desc, got[1].Description)
	}
	if got[0].Description != nil {
		t.Errorf("expected nil description, got %q", *got[0].Description)
	}
	if !got[1].ReminderTime.Equal(base.Add(time.Hour)) {
		t.Errorf("expected reminder time %v, got %v", base.Add(time.Hour), got[1].ReminderTime)
	}
}

func TestReminderRepositoryListEmpty(t *testing.T) {
	ctx := context.Background()
	client := testutil.SetupRedisContainer(ctx, t)

	repo := NewReminderRepository(client)

	got, err := repo.List(ctx, "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %v", got)
	}
}

func TestReminderRepositoryUpdate(t *testing.T) {
	ctx := context.Background()
	client := testutil.SetupRedisContainer(ctx, t)

	repo := NewReminderRepository(client)

	created, err := repo.Insert(ctx, domain.NewReminder{
		Title:        "standup",
		ReminderTime: time.Now().Add(time.Hour),
		UserID:       "user-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	completed := true
	tests := []struct {
		name    string
		userID  string
		id      string
		patch   domain.ReminderPatch
		wantErr error
	}{
		{
			name:   "mark completed",
			userID: "user-1",
			id:     created.ID,
			patch:  domain.ReminderPatch{IsCompleted: &completed},
		},
		{
			name:    "unknown id",
			userID:  "user-1",
			id:      "missing",
			patch:   domain.ReminderPatch{IsCompleted: &completed},
			wantErr: domain.ErrReminderNotFound,
		},
		{
			name:    "other user's reminder",
			userID:  "user-2",
			id:      created.ID,
			patch:   domain.ReminderPatch{IsCompleted: &completed},
			wantErr: domain.ErrReminderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Update(ctx, tt.userID, tt.id, tt.patch)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}

	got, err := repo.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || !got[0].IsCompleted {
		t.Errorf("expected the reminder to be completed, got %+v", got)
	}
}

func TestReminderRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	client := testutil.SetupRedisContainer(ctx, t)

	repo := NewReminderRepository(client)

	created, err := repo.Insert(ctx, domain.NewReminder{
		Title:        "standup",
		ReminderTime: time.Now().Add(time.Hour),
		UserID:       "user-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := repo.Delete(ctx, "user-2", created.ID); !errors.Is(err, domain.ErrReminderNotFound) {
		t.Errorf("expected ErrReminderNotFound for another user, got %v", err)
	}

	if err := repo.Delete(ctx, "user-1", created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := repo.Delete(ctx, "user-1", created.ID); !errors.Is(err, domain.ErrReminderNotFound) {
		t.Errorf("expected ErrReminderNotFound on second delete, got %v", err)
	}

	got, err := repo.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no reminders, got %d", len(got))
	}

	if n := client.ZCard(ctx, reminderOrderKey("user-1")).Val(); n != 0 {
		t.Errorf("expected the order set to be empty, got %d", n)
	}
}

func TestReminderRepositoryInsertInvalid(t *testing.T) {
	repo := NewReminderRepository(nil)

	_, err := repo.Insert(context.Background(), domain.NewReminder{Title: "   ", UserID: "user-1"})
	if !errors.Is(err, ErrInvalidReminderData) {
		t.Errorf("expected ErrInvalidReminderData, got %v", err)
	}
}

func TestPreferenceRepository(t *testing.T) {
	ctx := context.Background()
	client := testutil.SetupRedisContainer(ctx, t)

	repo := NewPreferenceRepository(client)

	_, found, err := repo.GetBool(ctx, "user-1", domain.NotificationsEnabledKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected unset preference to be not found")
	}

	for _, want := range []bool{true, false} {
		if err := repo.SetBool(ctx, "user-1", domain.NotificationsEnabledKey, want); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, found, err := repo.GetBool(ctx, "user-1", domain.NotificationsEnabledKey)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !found || got != want {
			t.Errorf("expected (%v, true), got (%v, %v)", want, got, found)
		}
	}

	if _, found, _ := repo.GetBool(ctx, "user-2", domain.NotificationsEnabledKey); found {
		t.Error("preferences must be scoped per user")
	}
}
