package domain

import (
	"strings"
	"time"
)

// Reminder is a single user-owned reminder as stored by the persistence layer.
type Reminder struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description"`
	ReminderTime time.Time `json:"reminder_time"`
	IsCompleted  bool      `json:"is_completed"`
	CreatedAt    time.Time `json:"created_at"`
	UserID       string    `json:"user_id"`
}

// NewReminder is what the store hands to the repository on insert. ID and
// CreatedAt are assigned by the repository.
type NewReminder struct {
	Title        string
	Description  *string
	ReminderTime time.Time
	UserID       string
}

// ReminderPatch carries the mutable fields of a reminder. Nil fields are left untouched.
type ReminderPatch struct {
	IsCompleted *bool
}

// FormInput is the raw reminder form as submitted by the dashboard.
type FormInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

const (
	formDateLayout = "2006-01-02"
	formTimeLayout = "15:04"
)

var formTimeLayouts = []string{
	formDateLayout + "T" + formTimeLayout,
	formDateLayout + "T" + formTimeLayout + ":05",
}

// Validate reports ErrValidation when a required field is empty.
func (f FormInput) Validate() error {
	if strings.TrimSpace(f.Title) == "" || f.Date == "" || f.Time == "" {
		return ErrValidation
	}
	return nil
}

// DueAt combines the date and time fields into an instant in loc.
func (f FormInput) DueAt(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	raw := strings.TrimSpace(f.Date) + "T" + strings.TrimSpace(f.Time)
	for _, layout := range formTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDateTime
}

// DescriptionOrNil returns nil for an empty description.
func (f FormInput) DescriptionOrNil() *string {
	if f.Description == "" {
		return nil
	}
	d := f.Description
	return &d
}

// ReminderStats summarises a reminder list.
type ReminderStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

func StatsOf(reminders []Reminder) ReminderStats {
	stats := ReminderStats{Total: len(reminders)}
	for _, r := range reminders {
		if r.IsCompleted {
			stats.Completed++
		} else {
			stats.Active++
		}
	}
	return stats
}
