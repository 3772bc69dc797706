package push

import (
	"context"
	"log/slog"

	"github.com/cuaidesk/desk-reminders/internal/domain"
)

// userChannel is one user's view of the hub. It is both the toast channel and
// the native notification platform.
type userChannel struct {
	hub    *Hub
	userID string
}

func (u *userChannel) Toast(ctx context.Context, t domain.ToastNotification) {
	if u.hub.broadcast(u.userID, toastFrame(t)) == 0 {
		slog.DebugContext(ctx, "toast not delivered, no dashboard connected",
			slog.String("user_id", u.userID),
			slog.String("title", t.Title),
		)
	}
}

// Permission is the combined state reported by the connected tabs, or default
// when none is connected.
func (u *userChannel) Permission() domain.Permission {
	p, _ := u.hub.permission(u.userID)
	return p
}

func (u *userChannel) Supported() bool {
	_, supported := u.hub.permission(u.userID)
	return supported
}

func (u *userChannel) RequestPermission(ctx context.Context) (domain.Permission, error) {
	return u.hub.requestPermission(ctx, u.userID)
}

func (u *userChannel) Show(ctx context.Context, n domain.NativeNotification) {
	if !u.Permission().IsGranted() {
		return
	}
	u.hub.broadcastTo(u.userID, nativeFrame(n), (*client).granted)
}
