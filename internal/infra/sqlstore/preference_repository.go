package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/cuaidesk/desk-reminders/internal/domain"
)

type preferenceRepository struct {
	db *sql.DB
}

func NewPreferenceRepository(db *sql.DB) domain.PreferenceRepository {
	return &preferenceRepository{
		db: db,
	}
}

func (r *preferenceRepository) GetBool(ctx context.Context, userID, key string) (bool, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE user_id = ? AND key = ?`,
		userID, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, false, nil
		}
		return false, false, mapSQLiteError(err)
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, false, nil
	}
	return b, true, nil
}

func (r *preferenceRepository) SetBool(ctx context.Context, userID, key string, value bool) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO preferences (user_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT (user_id, key) DO UPDATE SET value = excluded.value`,
		userID, key, strconv.FormatBool(value),
	)
	return mapSQLiteError(err)
}
