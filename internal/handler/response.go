package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cuaidesk/desk-reminders/internal/domain"
	"github.com/cuaidesk/desk-reminders/internal/service/session"
)

// UserIDHeader carries the authenticated user id set by the upstream gateway.
const UserIDHeader = "X-User-ID"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, err error) {
	status, kind := classify(err)
	_ = c.Error(err)
	c.JSON(status, ErrorResponse{
		Error:   kind,
		Message: err.Error(),
	})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: message,
	})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidDateTime):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden, "permission_denied"
	case errors.Is(err, domain.ErrReminderNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, session.ErrRegistryClosed):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func userID(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(UserIDHeader))
}

// sessionFor resolves the caller's session and writes the error response on failure.
func sessionFor(c *gin.Context, sessions SessionRegistry, id string) (*session.Session, bool) {
	s, err := sessions.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return s, true
}
