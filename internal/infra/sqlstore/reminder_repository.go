package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cuaidesk/desk-reminders/internal/domain"
	"github.com/cuaidesk/desk-reminders/internal/observability/tracing"
)

type reminderRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewReminderRepository(db *sql.DB) domain.ReminderRepository {
	return &reminderRepository{
		db:  db,
		now: time.Now,
	}
}

func (r *reminderRepository) List(ctx context.Context, userID string) ([]domain.Reminder, error) {
	ctx, span := tracing.StartRepositorySpan(ctx, sqliteSystem, "list")
	defer span.End()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, description, reminder_time, is_completed, created_at
		FROM reminders
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	reminders := make([]domain.Reminder, 0)
	for rows.Next() {
		var (
			rem          domain.Reminder
			description  sql.NullString
			reminderTime int64
			createdAt    int64
		)
		if err := rows.Scan(&rem.ID, &rem.UserID, &rem.Title, &description, &reminderTime, &rem.IsCompleted, &createdAt); err != nil {
			tracing.RecordError(span, err)
			return nil, mapSQLiteError(err)
		}
		if description.Valid {
			rem.Description = &description.String
		}
		rem.ReminderTime = time.UnixMilli(reminderTime).UTC()
		rem.CreatedAt = time.Unix(0, createdAt).UTC()
		reminders = append(reminders, rem)
	}
	if err := rows.Err(); err != nil {
		tracing.RecordError(span, err)
		return nil, mapSQLiteError(err)
	}

	return reminders, nil
}

func (r *reminderRepository) Insert(ctx context.Context, in domain.NewReminder) (*domain.Reminder, error) {
	ctx, span := tracing.StartRepositorySpan(ctx, sqliteSystem, "insert")
	defer span.End()

	if strings.TrimSpace(in.UserID) == "" || strings.TrimSpace(in.Title) == "" {
		return nil, ErrInvalidReminderData
	}

	created := domain.Reminder{
		ID:           uuid.NewString(),
		Title:        in.Title,
		Description:  in.Description,
		ReminderTime: time.UnixMilli(in.ReminderTime.UnixMilli()).UTC(),
		CreatedAt:    r.now().UTC(),
		UserID:       in.UserID,
	}

	var description sql.NullString
	if created.Description != nil {
		description = sql.NullString{String: *created.Description, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reminders (id, user_id, title, description, reminder_time, is_completed, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)`,
		created.ID, created.UserID, created.Title, description,
		created.ReminderTime.UnixMilli(), created.CreatedAt.UnixNano(),
	)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, mapSQLiteError(err)
	}

	return &created, nil
}

func (r *reminderRepository) Update(ctx context.Context, userID, id string, patch domain.ReminderPatch) error {
	ctx, span := tracing.StartRepositorySpan(ctx, sqliteSystem, "update")
	defer span.End()

	if patch.IsCompleted == nil {
		return r.ensureExists(ctx, userID, id)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE reminders SET is_completed = ? WHERE id = ? AND user_id = ?`,
		boolToInt(*patch.IsCompleted), id, userID,
	)
	if err != nil {
		tracing.RecordError(span, err)
		return mapSQLiteError(err)
	}

	return affectedOne(res)
}

func (r *reminderRepository) Delete(ctx context.Context, userID, id string) error {
	ctx, span := tracing.StartRepositorySpan(ctx, sqliteSystem, "delete")
	defer span.End()

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM reminders WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		tracing.RecordError(span, err)
		return mapSQLiteError(err)
	}

	return affectedOne(res)
}

func (r *reminderRepository) ensureExists(ctx context.Context, userID, id string) error {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM reminders WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrReminderNotFound
	}
	return mapSQLiteError(err)
}

func affectedOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrReminderNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
