package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cuaidesk/desk-reminders/internal/domain"
	"github.com/cuaidesk/desk-reminders/internal/service/session"
)

// Streamer serves the dashboard's notification websocket.
type Streamer interface {
	ServeWS(w http.ResponseWriter, r *http.Request, userID string) error
}

type NotificationHandler struct {
	sessions SessionRegistry
	streamer Streamer
}

func NewNotificationHandler(sessions SessionRegistry, streamer Streamer) *NotificationHandler {
	return &NotificationHandler{
		sessions: sessions,
		streamer: streamer,
	}
}

type settingsRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type permissionResponse struct {
	Permission domain.Permission `json:"permission"`
	Settings   session.Settings  `json:"settings"`
}

func (h *NotificationHandler) HandleGetSettings(c *gin.Context) {
	s, ok := sessionFor(c, h.sessions, userID(c))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Settings())
}

func (h *NotificationHandler) HandlePutSettings(c *gin.Context) {
	s, ok := sessionFor(c, h.sessions, userID(c))
	if !ok {
		return
	}

	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "enabled is required")
		return
	}

	if err := s.SetNotificationsEnabled(c.Request.Context(), *req.Enabled); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, s.Settings())
}

func (h *NotificationHandler) HandleRequestPermission(c *gin.Context) {
	s, ok := sessionFor(c, h.sessions, userID(c))
	if !ok {
		return
	}

	permission, err := s.RequestPermission(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, permissionResponse{
		Permission: permission,
		Settings:   s.Settings(),
	})
}

// HandleStream upgrades to the notification websocket. Browsers cannot set
// headers on a websocket handshake, so the user id may also come from the
// user_id query parameter.
func (h *NotificationHandler) HandleStream(c *gin.Context) {
	id := userID(c)
	if id == "" {
		id = strings.TrimSpace(c.Query("user_id"))
	}

	if _, ok := sessionFor(c, h.sessions, id); !ok {
		return
	}

	if err := h.streamer.ServeWS(c.Writer, c.Request, id); err != nil {
		slog.WarnContext(c.Request.Context(), "notification stream ended with error",
			slog.String("user_id", id),
			slog.String("error", err.Error()),
		)
	}
}
