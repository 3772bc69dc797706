// Package push delivers notifications to the dashboard tabs a user has open
// over a websocket, and tracks the browser's notification permission.
package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cuaidesk/desk-reminders/internal/domain"
)

var (
	ErrHandshake   = errors.New("websocket handshake failed")
	ErrHubClosed   = errors.New("push hub closed")
	ErrNoListeners = errors.New("no dashboard connected")
)

type Config struct {
	// AllowedOrigins lists the accepted Origin headers. "*" accepts any origin.
	AllowedOrigins    []string
	HelloTimeout      time.Duration
	WriteTimeout      time.Duration
	PermissionTimeout time.Duration
	SendBuffer        int
}

func (c Config) withDefaults() Config {
	out := c
	if out.HelloTimeout <= 0 {
		out.HelloTimeout = 10 * time.Second
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = 10 * time.Second
	}
	if out.PermissionTimeout <= 0 {
		out.PermissionTimeout = 60 * time.Second
	}
	if out.SendBuffer <= 0 {
		out.SendBuffer = 32
	}
	return out
}

// ActionFunc handles a native notification action clicked in the browser.
type ActionFunc func(ctx context.Context, userID, action, tag string)

// Hub fans frames out to every connection of a user. Sends never block: a
// connection whose queue is full drops the frame.
type Hub struct {
	cfg      Config
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	users    map[string]*userState
	onAction ActionFunc
	closed   bool
}

type userState struct {
	conns   map[*client]struct{}
	waiters []chan domain.Permission
}

// client is one dashboard tab. permission and supported are guarded by Hub.mu.
type client struct {
	userID     string
	conn       *websocket.Conn
	send       chan outboundFrame
	permission domain.Permission
	supported  bool
}

func NewHub(cfg Config) *Hub {
	cfg = cfg.withDefaults()
	h := &Hub{
		cfg:   cfg,
		users: make(map[string]*userState),
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: h.checkOrigin,
	}
	return h
}

// OnAction sets the callback for action frames.
func (h *Hub) OnAction(fn ActionFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onAction = fn
}

func (h *Hub) Toaster(userID string) domain.Toaster {
	return &userChannel{hub: h, userID: userID}
}

func (h *Hub) Platform(userID string) domain.NotificationPlatform {
	return &userChannel{hub: h, userID: userID}
}

// Connections returns the number of open connections for userID.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if st, ok := h.users[userID]; ok {
		return len(st.conns)
	}
	return 0
}

// ServeWS upgrades the request and serves the connection until it closes.
// The first frame must be a hello reporting the permission state.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	c, err := h.accept(conn, userID)
	if err != nil {
		_ = conn.Close()
		return err
	}

	ctx := r.Context()
	slog.InfoContext(ctx, "dashboard connected",
		slog.String("user_id", userID),
	)

	go h.writePump(c)
	h.readLoop(ctx, c)

	slog.InfoContext(ctx, "dashboard disconnected",
		slog.String("user_id", userID),
	)
	return nil
}

// Close disconnects every dashboard.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	var clients []*client
	for _, st := range h.users {
		for c := range st.conns {
			clients = append(clients, c)
		}
	}
	h.mu.Unlock()

	for _, c := range clients {
		_ = c.conn.Close()
	}
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	if len(h.cfg.AllowedOrigins) == 0 || slices.Contains(h.cfg.AllowedOrigins, "*") {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return slices.ContainsFunc(h.cfg.AllowedOrigins, func(allowed string) bool {
		return strings.EqualFold(strings.TrimSpace(allowed), origin)
	})
}

func (h *Hub) accept(conn *websocket.Conn, userID string) (*client, error) {
	_ = conn.SetReadDeadline(time.Now().Add(h.cfg.HelloTimeout))
	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHandshake, err)
	}

	var hello inboundFrame
	if err := json.Unmarshal(data, &hello); err != nil {
		return nil, fmt.Errorf("%w: parse hello: %v", ErrHandshake, err)
	}
	if hello.Type != frameHello {
		return nil, fmt.Errorf("%w: expected hello, got %q", ErrHandshake, hello.Type)
	}
	_ = conn.SetReadDeadline(time.Time{})

	c := &client{
		userID: userID,
		conn:   conn,
		send:   make(chan outboundFrame, h.cfg.SendBuffer),
	}
	c.report(hello)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrHubClosed
	}

	h.userLocked(userID).conns[c] = struct{}{}

	return c, nil
}

// report applies the capability carried by a hello frame. A browser without
// the Notification API is treated as denied.
func (c *client) report(hello inboundFrame) {
	c.supported = hello.Supported == nil || *hello.Supported
	if !c.supported {
		c.permission = domain.PermissionDenied
		return
	}
	c.permission = domain.ParsePermission(hello.Permission)
}

func (c *client) granted() bool {
	return c.supported && c.permission.IsGranted()
}

// capability folds the tabs' reports into one answer for the user. Any
// granting tab makes the user granted, then any undecided tab makes it
// default. Tabs without the Notification API count as denied, and supported is
// true when at least one tab has it.
func (st *userState) capability() (domain.Permission, bool) {
	permission := domain.PermissionDenied
	supported := false
	for c := range st.conns {
		if !c.supported {
			continue
		}
		supported = true
		switch {
		case c.permission.IsGranted():
			return domain.PermissionGranted, true
		case c.permission == domain.PermissionDefault:
			permission = domain.PermissionDefault
		}
	}
	return permission, supported
}

func (h *Hub) readLoop(ctx context.Context, c *client) {
	defer h.unregister(c)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.DebugContext(ctx, "dashboard connection closed",
					slog.String("user_id", c.userID),
					slog.String("error", err.Error()),
				)
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			slog.WarnContext(ctx, "ignoring malformed dashboard frame",
				slog.String("user_id", c.userID),
				slog.String("error", err.Error()),
			)
			continue
		}
		h.handleFrame(ctx, c, frame)
	}
}

func (h *Hub) handleFrame(ctx context.Context, c *client, frame inboundFrame) {
	switch frame.Type {
	case frameHello:
		h.mu.Lock()
		c.report(frame)
		h.mu.Unlock()
	case framePermission:
		h.resolvePermission(c, domain.ParsePermission(frame.Permission))
	case frameAction:
		h.mu.RLock()
		fn := h.onAction
		h.mu.RUnlock()
		if fn != nil && frame.Tag != "" {
			fn(ctx, c.userID, frame.Action, frame.Tag)
		}
	default:
		slog.DebugContext(ctx, "ignoring dashboard frame",
			slog.String("user_id", c.userID),
			slog.String("type", frame.Type),
		)
	}
}

func (h *Hub) writePump(c *client) {
	for frame := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
		if err := c.conn.WriteJSON(frame); err != nil {
			slog.Warn("failed to write dashboard frame",
				slog.String("user_id", c.userID),
				slog.String("type", frame.Type),
				slog.String("error", err.Error()),
			)
			_ = c.conn.Close()
			// keep draining until unregister closes the queue
			for range c.send {
			}
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	_ = c.conn.Close()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	st, ok := h.users[c.userID]
	if !ok {
		return
	}
	if _, ok := st.conns[c]; !ok {
		return
	}
	delete(st.conns, c)
	close(c.send)
}

// broadcast queues frame on every connection of userID and returns how many
// accepted it.
func (h *Hub) broadcast(userID string, frame outboundFrame) int {
	return h.broadcastTo(userID, frame, nil)
}

// broadcastTo is broadcast limited to the connections accept reports true for.
// A nil accept matches every connection.
func (h *Hub) broadcastTo(userID string, frame outboundFrame, accept func(*client) bool) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	st, ok := h.users[userID]
	if !ok {
		return 0
	}

	queued := 0
	for c := range st.conns {
		if accept != nil && !accept(c) {
			continue
		}
		select {
		case c.send <- frame:
			queued++
		default:
			slog.Warn("dropping dashboard frame, send queue full",
				slog.String("user_id", userID),
				slog.String("type", frame.Type),
			)
		}
	}
	return queued
}

func (h *Hub) resolvePermission(c *client, p domain.Permission) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.permission = p
	st := h.userLocked(c.userID)
	for _, w := range st.waiters {
		w <- p
	}
	st.waiters = nil
}

func (h *Hub) requestPermission(ctx context.Context, userID string) (domain.Permission, error) {
	h.mu.Lock()
	st := h.userLocked(userID)
	if len(st.conns) == 0 {
		h.mu.Unlock()
		return domain.PermissionDefault, ErrNoListeners
	}
	if _, supported := st.capability(); !supported {
		h.mu.Unlock()
		return domain.PermissionDenied, domain.ErrNotificationsUnsupported
	}
	waiter := make(chan domain.Permission, 1)
	st.waiters = append(st.waiters, waiter)
	h.mu.Unlock()

	h.broadcastTo(userID, outboundFrame{Type: framePermissionRequest}, func(c *client) bool {
		return c.supported
	})

	ctx, cancel := context.WithTimeout(ctx, h.cfg.PermissionTimeout)
	defer cancel()

	select {
	case p := <-waiter:
		return p, nil
	case <-ctx.Done():
		h.dropWaiter(userID, waiter)
		return domain.PermissionDefault, ctx.Err()
	}
}

func (h *Hub) dropWaiter(userID string, waiter chan domain.Permission) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if st, ok := h.users[userID]; ok {
		st.waiters = slices.DeleteFunc(st.waiters, func(w chan domain.Permission) bool {
			return w == waiter
		})
	}
}

func (h *Hub) permission(userID string) (domain.Permission, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	st, ok := h.users[userID]
	if !ok || len(st.conns) == 0 {
		return domain.PermissionDefault, false
	}
	return st.capability()
}

func (h *Hub) userLocked(userID string) *userState {
	st, ok := h.users[userID]
	if !ok {
		st = &userState{
			conns: make(map[*client]struct{}),
		}
		h.users[userID] = st
	}
	return st
}
