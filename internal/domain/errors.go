package domain

import "errors"

var (
	ErrValidation               = errors.New("please fill in all required fields")
	ErrInvalidDateTime          = errors.New("invalid date or time format")
	ErrReminderNotFound         = errors.New("reminder not found")
	ErrUnauthorized             = errors.New("not authenticated")
	ErrPermissionDenied         = errors.New("permission denied")
	ErrNotificationsUnsupported = errors.New("notifications not supported")
)

// ErrorKind is the user-facing classification of a persistence failure.
type ErrorKind string

const (
	ErrorKindAuth       ErrorKind = "auth"
	ErrorKindPermission ErrorKind = "permission"
	ErrorKindGeneric    ErrorKind = "generic"
)

func ClassifyError(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return ErrorKindAuth
	case errors.Is(err, ErrPermissionDenied):
		return ErrorKindPermission
	default:
		return ErrorKindGeneric
	}
}
