// Package sqlstore is the embedded SQLite backend for reminders and preferences.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/cuaidesk/desk-reminders/internal/domain"
)

const (
	driverName    = "sqlite"
	busyTimeoutMs = 2000

	sqliteSystem = "sqlite"
)

var ErrInvalidReminderData = errors.New("invalid reminder data")

const schema = `
CREATE TABLE IF NOT EXISTS reminders (
	id TEXT NOT NULL PRIMARY KEY,
	user_id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT,
	reminder_time INTEGER NOT NULL,
	is_completed INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
) WITHOUT ROWID;

CREATE INDEX IF NOT EXISTS reminders_user_created_idx ON reminders (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS preferences (
	user_id TEXT NOT NULL,
	key TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (user_id, key)
) WITHOUT ROWID;
`

// Open connects to the database file at path and creates the schema if needed.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open(driverName, connectionString(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to sqlite database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create sqlite schema: %w", err)
	}

	return db, nil
}

func connectionString(path string) string {
	qs := url.Values{
		"_txlock": []string{"immediate"},
		"_pragma": []string{
			"journal_mode(WAL)",
			fmt.Sprintf("busy_timeout(%d)", busyTimeoutMs),
		},
	}

	return "file:" + path + "?" + qs.Encode()
}

// mapSQLiteError turns sqlite access failures into the domain authorization errors.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}

	switch sqliteErr.Code() & 0xff {
	case sqlite3.SQLITE_AUTH:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, err.Error())
	case sqlite3.SQLITE_READONLY, sqlite3.SQLITE_PERM:
		return fmt.Errorf("%w: %s", domain.ErrPermissionDenied, err.Error())
	default:
		return err
	}
}
