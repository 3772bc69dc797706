package push

import (
	"github.com/cuaidesk/desk-reminders/internal/domain"
)

const (
	frameHello             = "hello"
	framePermission        = "permission"
	frameAction            = "action"
	frameNative            = "native"
	frameToast             = "toast"
	framePermissionRequest = "permission_request"
)

// inboundFrame is any frame sent by the dashboard.
type inboundFrame struct {
	Type       string `json:"type"`
	Permission string `json:"permission,omitempty"`
	Supported  *bool  `json:"supported,omitempty"`
	Action     string `json:"action,omitempty"`
	Tag        string `json:"tag,omitempty"`
}

type outboundFrame struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type nativePayload struct {
	Title              string                      `json:"title"`
	Body               string                      `json:"body"`
	Tag                string                      `json:"tag"`
	RequireInteraction bool                        `json:"requireInteraction"`
	Actions            []domain.NotificationAction `json:"actions"`
}

type toastActionPayload struct {
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

type toastPayload struct {
	Level       string              `json:"level"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	DurationMs  int64               `json:"duration_ms,omitempty"`
	Action      *toastActionPayload `json:"action,omitempty"`
}

func nativeFrame(n domain.NativeNotification) outboundFrame {
	actions := n.Actions
	if actions == nil {
		actions = []domain.NotificationAction{}
	}
	return outboundFrame{
		Type: frameNative,
		Payload: nativePayload{
			Title:              n.Title,
			Body:               n.Body,
			Tag:                n.Tag,
			RequireInteraction: n.RequireInteraction,
			Actions:            actions,
		},
	}
}

func toastFrame(t domain.ToastNotification) outboundFrame {
	payload := toastPayload{
		Level:       string(t.Level),
		Title:       t.Title,
		Description: t.Description,
		DurationMs:  t.Duration.Milliseconds(),
	}
	if t.Action != nil {
		payload.Action = &toastActionPayload{
			Label: t.Action.Label,
			Kind:  string(t.Action.Kind),
		}
	}
	return outboundFrame{Type: frameToast, Payload: payload}
}
