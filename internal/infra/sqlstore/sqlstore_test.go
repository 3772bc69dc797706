package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuaidesk/desk-reminders/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "reminders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen_SchemaIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reminders.db")

	db, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestConnectionString(t *testing.T) {
	got := connectionString("data.db")
	assert.Contains(t, got, "file:data.db?")
	assert.Contains(t, got, "journal_mode%28WAL%29")
	assert.Contains(t, got, "busy_timeout%282000%29")
}

func TestReminderRepository_InsertAndList(t *testing.T) {
	db := openTestDB(t)
	repo := NewReminderRepository(db).(*reminderRepository)

	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	ctx := context.Background()
	desc := "bring the slides"
	first, err := repo.Insert(ctx, domain.NewReminder{
		Title:        "first",
		Description:  &desc,
		ReminderTime: base.Add(time.Hour),
		UserID:       "user-1",
	})
	require.NoError(t, err)
	second, err := repo.Insert(ctx, domain.NewReminder{
		Title:        "second",
		ReminderTime: base.Add(2 * time.Hour),
		UserID:       "user-1",
	})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, domain.NewReminder{
		Title:        "other user",
		ReminderTime: base,
		UserID:       "user-2",
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)

	got, err := repo.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
	assert.Nil(t, got[0].Description)
	require.NotNil(t, got[1].Description)
	assert.Equal(t, desc, *got[1].Description)
	assert.True(t, got[1].ReminderTime.Equal(base.Add(time.Hour)))
	assert.True(t, got[1].CreatedAt.Equal(first.CreatedAt))
	assert.False(t, got[1].IsCompleted)
}

func TestReminderRepository_ListEmpty(t *testing.T) {
	repo := NewReminderRepository(openTestDB(t))

	got, err := repo.List(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReminderRepository_InsertInvalid(t *testing.T) {
	repo := NewReminderRepository(openTestDB(t))

	_, err := repo.Insert(context.Background(), domain.NewReminder{Title: "title"})
	assert.ErrorIs(t, err, ErrInvalidReminderData)
}

func TestReminderRepository_Update(t *testing.T) {
	repo := NewReminderRepository(openTestDB(t))
	ctx := context.Background()

	created, err := repo.Insert(ctx, domain.NewReminder{
		Title:        "standup",
		ReminderTime: time.Now(),
		UserID:       "user-1",
	})
	require.NoError(t, err)

	completed := true
	pending := false
	tests := []struct {
		name     string
		userID   string
		id       string
		patch    domain.ReminderPatch
		wantErr  error
		wantDone bool
	}{
		{name: "complete", userID: "user-1", id: created.ID, patch: domain.ReminderPatch{IsCompleted: &completed}, wantDone: true},
		{name: "same value again", userID: "user-1", id: created.ID, patch: domain.ReminderPatch{IsCompleted: &completed}, wantDone: true},
		{name: "empty patch", userID: "user-1", id: created.ID, patch: domain.ReminderPatch{}, wantDone: true},
		{name: "pending", userID: "user-1", id: created.ID, patch: domain.ReminderPatch{IsCompleted: &pending}, wantDone: false},
		{name: "unknown id", userID: "user-1", id: "missing", patch: domain.ReminderPatch{IsCompleted: &completed}, wantErr: domain.ErrReminderNotFound},
		{name: "empty patch unknown id", userID: "user-1", id: "missing", patch: domain.ReminderPatch{}, wantErr: domain.ErrReminderNotFound},
		{name: "other user", userID: "user-2", id: created.ID, patch: domain.ReminderPatch{IsCompleted: &completed}, wantErr: domain.ErrReminderNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Update(ctx, tt.userID, tt.id, tt.patch)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			got, err := repo.List(ctx, "user-1")
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantDone, got[0].IsCompleted)
		})
	}
}

func TestReminderRepository_Delete(t *testing.T) {
	repo := NewReminderRepository(openTestDB(t))
	ctx := context.Background()

	created, err := repo.Insert(ctx, domain.NewReminder{
		Title:        "standup",
		ReminderTime: time.Now(),
		UserID:       "user-1",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Delete(ctx, "user-2", created.ID), domain.ErrReminderNotFound)
	require.NoError(t, repo.Delete(ctx, "user-1", created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, "user-1", created.ID), domain.ErrReminderNotFound)

	got, err := repo.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPreferenceRepository(t *testing.T) {
	repo := NewPreferenceRepository(openTestDB(t))
	ctx := context.Background()

	_, found, err := repo.GetBool(ctx, "user-1", domain.NotificationsEnabledKey)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.SetBool(ctx, "user-1", domain.NotificationsEnabledKey, true))
	got, found, err := repo.GetBool(ctx, "user-1", domain.NotificationsEnabledKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, got)

	require.NoError(t, repo.SetBool(ctx, "user-1", domain.NotificationsEnabledKey, false))
	got, found, err = repo.GetBool(ctx, "user-1", domain.NotificationsEnabledKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, got)

	_, found, err = repo.GetBool(ctx, "user-2", domain.NotificationsEnabledKey)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMapSQLiteError(t *testing.T) {
	plain := errors.New("disk I/O error")
	assert.Same(t, plain, mapSQLiteError(plain))
	assert.NoError(t, mapSQLiteError(nil))
}
