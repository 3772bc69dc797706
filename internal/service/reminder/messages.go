package reminder

import (
	"github.com/cuaidesk/desk-reminders/internal/domain"
)

const (
	msgMissingFields = "Please fill in all required fields"
	msgCreated       = "Reminder created successfully"
	msgDeleted       = "Reminder deleted successfully"
	msgCompleted     = "Reminder completed"
	msgPending       = "Reminder marked as pending"
	msgAuthError     = "Authentication error: Please try logging out and back in"
	msgUnknownError  = "Unknown error"
)

// failureMessage turns a persistence error into the text shown to the user.
// verb is the action being attempted, e.g. "create" or "load".
func failureMessage(verb string, plural bool, err error) string {
	noun := "reminder"
	if plural {
		noun = "reminders"
	}

	switch domain.ClassifyError(err) {
	case domain.ErrorKindAuth:
		return msgAuthError
	case domain.ErrorKindPermission:
		return "Permission denied: Unable to " + verb + " " + noun
	}

	detail := msgUnknownError
	if err != nil && err.Error() != "" {
		detail = err.Error()
	}
	return "Failed to " + verb + " " + noun + ": " + detail
}
