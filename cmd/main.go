package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cuaidesk/desk-reminders/internal/config"
	"github.com/cuaidesk/desk-reminders/internal/handler"
	"github.com/cuaidesk/desk-reminders/internal/health"
	"github.com/cuaidesk/desk-reminders/internal/infra/firerecorder"
	"github.com/cuaidesk/desk-reminders/internal/infra/push"
	"github.com/cuaidesk/desk-reminders/internal/observability/metrics"
	"github.com/cuaidesk/desk-reminders/internal/observability/middleware"
	"github.com/cuaidesk/desk-reminders/internal/service/notify"
	"github.com/cuaidesk/desk-reminders/internal/service/session"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	obs, err := initObservability(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	reminderMetrics, err := metrics.NewReminderMetrics()
	if err != nil {
		slog.Error("failed to initialize reminder metrics", slog.String("error", err.Error()))
		return 1
	}

	recorder, err := firerecorder.NewRecorder(ctx, firerecorder.LoadConfig())
	if err != nil {
		slog.Error("failed to initialize notification recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			slog.Warn("failed to close notification recorder", slog.String("error", err.Error()))
		}
	}()

	store, err := openBackend(ctx, cfg)
	if err != nil {
		slog.Error("failed to open reminder store",
			slog.String("event", "store.open.fail"),
			slog.String("backend", string(cfg.Store)),
			slog.String("error", err.Error()),
		)
		return 1
	}
	defer func() {
		if err := store.close(); err != nil {
			slog.Warn("failed to close reminder store", slog.String("error", err.Error()))
		}
	}()

	hub := push.NewHub(push.Config{
		AllowedOrigins:    cfg.CORS.AllowedOrigins,
		PermissionTimeout: cfg.Scheduler.PermissionTimeout,
	})
	defer hub.Close()

	registry := session.NewRegistry(session.Dependencies{
		Reminders:   store.reminders,
		Preferences: store.preferences,
		Channels:    hub,
		Recorder:    recorder,
		Notify: notify.Config{
			PollInterval:  cfg.Scheduler.PollInterval,
			DueWindow:     cfg.Scheduler.DueWindow,
			MissedGrace:   cfg.Scheduler.MissedGrace,
			ToastDuration: cfg.Scheduler.ToastDuration,
		},
		Location: cfg.Scheduler.Location,
		Metrics:  reminderMetrics,
	})
	// Closed before the hub so no scheduler dispatches to a closed connection.
	defer registry.Close()

	hub.OnAction(func(ctx context.Context, userID, action, tag string) {
		// The stream handler creates the session before upgrading.
		s, ok := registry.Lookup(userID)
		if !ok {
			slog.WarnContext(ctx, "notification action without a session",
				slog.String("user_id", userID),
				slog.String("action", action),
			)
			return
		}
		if err := s.HandleAction(ctx, action, tag); err != nil {
			slog.WarnContext(ctx, "notification action failed",
				slog.String("user_id", userID),
				slog.String("action", action),
				slog.String("error", err.Error()),
			)
		}
	})

	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready"},
		Module:      module,
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())
	r.Use(cors.New(corsConfig(cfg.CORS)))

	healthChecker := health.NewChecker(Version, store.dependency)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	handler.RegisterRoutes(r,
		handler.NewReminderHandler(registry),
		handler.NewNotificationHandler(registry, hub),
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.String("store", string(cfg.Store)),
			slog.Duration("poll_interval", cfg.Scheduler.PollInterval),
			slog.Duration("due_window", cfg.Scheduler.DueWindow),
			slog.Duration("missed_grace", cfg.Scheduler.MissedGrace),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		// Upgraded websocket connections are hijacked and not tracked by Shutdown.
		hub.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}

func corsConfig(cfg *config.CORSConfig) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", handler.UserIDHeader)
	c.AllowWebSockets = true
	if slices.Contains(cfg.AllowedOrigins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowedOrigins
	}
	return c
}
