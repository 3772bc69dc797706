package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cuaidesk/desk-reminders/internal/domain"
	"github.com/cuaidesk/desk-reminders/internal/service/session"
)

type SessionRegistry interface {
	Get(ctx context.Context, userID string) (*session.Session, error)
}

type ReminderHandler struct {
	sessions SessionRegistry
}

func NewReminderHandler(sessions SessionRegistry) *ReminderHandler {
	return &ReminderHandler{
		sessions: sessions,
	}
}

type listResponse struct {
	Reminders []domain.Reminder    `json:"reminders"`
	Loading   bool                 `json:"loading"`
	Stats     domain.ReminderStats `json:"stats"`
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

type toggleRequest struct {
	IsCompleted *bool `json:"is_completed" binding:"required"`
}

func (h *ReminderHandler) HandleList(c *gin.Context) {
	s, ok := sessionFor(c, h.sessions, userID(c))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, listOf(s))
}

func (h *ReminderHandler) HandleRefresh(c *gin.Context) {
	s, ok := sessionFor(c, h.sessions, userID(c))
	if !ok {
		return
	}
	if err := s.Store().Fetch(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listOf(s))
}

func (h *ReminderHandler) HandleCreate(c *gin.Context) {
	s, ok := sessionFor(c, h.sessions, userID(c))
	if !ok {
		return
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	created, err := s.Store().Add(c.Request.Context(), domain.FormInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *ReminderHandler) HandleToggle(c *gin.Context) {
	s, ok := sessionFor(c, h.sessions, userID(c))
	if !ok {
		return
	}

	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "is_completed is required")
		return
	}

	id := c.Param("id")
	if err := s.Store().Toggle(c.Request.Context(), id, *req.IsCompleted); err != nil {
		respondError(c, err)
		return
	}

	for _, r := range s.Store().Reminders() {
		if r.ID == id {
			c.JSON(http.StatusOK, r)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "is_completed": !*req.IsCompleted})
}

func (h *ReminderHandler) HandleDelete(c *gin.Context) {
	s, ok := sessionFor(c, h.sessions, userID(c))
	if !ok {
		return
	}

	if err := s.Store().Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func listOf(s *session.Session) listResponse {
	reminders := s.Store().Reminders()
	return listResponse{
		Reminders: reminders,
		Loading:   s.Store().Loading(),
		Stats:     domain.StatsOf(reminders),
	}
}
