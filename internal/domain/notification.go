package domain

import (
	"context"
	"time"
)

// Permission mirrors the browser notification permission states.
type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
	PermissionDefault Permission = "default"
)

func (p Permission) String() string {
	return string(p)
}

func (p Permission) IsGranted() bool {
	return p == PermissionGranted
}

// ParsePermission maps unknown values to PermissionDefault.
func ParsePermission(s string) Permission {
	switch Permission(s) {
	case PermissionGranted, PermissionDenied:
		return Permission(s)
	default:
		return PermissionDefault
	}
}

// Channel names a notification delivery channel.
type Channel string

const (
	ChannelNative Channel = "native"
	ChannelToast  Channel = "toast"
)

func (c Channel) String() string {
	return string(c)
}

// Notification is either a NativeNotification or a ToastNotification.
type Notification interface {
	Channel() Channel
	notification()
}

type NotificationAction struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

const (
	ActionMarkComplete = "mark-complete"
	ActionDismiss      = "dismiss"
)

// NativeNotification is shown by the operating system through the browser.
type NativeNotification struct {
	Title              string
	Body               string
	Tag                string
	RequireInteraction bool
	Actions            []NotificationAction
}

func (NativeNotification) Channel() Channel { return ChannelNative }
func (NativeNotification) notification()    {}

type ToastLevel string

const (
	ToastInfo    ToastLevel = "info"
	ToastSuccess ToastLevel = "success"
	ToastError   ToastLevel = "error"
)

type ToastActionKind string

const ToastActionFocusWindow ToastActionKind = "focus-window"

type ToastAction struct {
	Label string
	Kind  ToastActionKind
}

// ToastNotification is rendered inside the dashboard.
type ToastNotification struct {
	Level       ToastLevel
	Title       string
	Description string
	Duration    time.Duration
	Action      *ToastAction
}

func (ToastNotification) Channel() Channel { return ChannelToast }
func (ToastNotification) notification()    {}

// Toaster is the in-app toast channel. It is always available.
type Toaster interface {
	Toast(ctx context.Context, t ToastNotification)
}

// NotificationPlatform is the native notification capability of one user's browser.
type NotificationPlatform interface {
	Permission() Permission
	Supported() bool
	RequestPermission(ctx context.Context) (Permission, error)
	// Show is a no-op unless permission is granted.
	Show(ctx context.Context, n NativeNotification)
}
