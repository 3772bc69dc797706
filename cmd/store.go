package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/cuaidesk/desk-reminders/internal/config"
	"github.com/cuaidesk/desk-reminders/internal/domain"
	"github.com/cuaidesk/desk-reminders/internal/health"
	"github.com/cuaidesk/desk-reminders/internal/infra/repository"
	"github.com/cuaidesk/desk-reminders/internal/infra/sqlstore"
)

type backend struct {
	reminders   domain.ReminderRepository
	preferences domain.PreferenceRepository
	dependency  health.Dependency
	close       func() error
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		return openSQLite(ctx, cfg.SQLite)
	default:
		return openRedis(ctx, cfg.Redis)
	}
}

func openRedis(ctx context.Context, cfg *config.RedisConfig) (*backend, error) {
	client := redis.NewClient(cfg.Options())

	if err := redisotel.InstrumentTracing(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to instrument redis tracing: %w", err)
	}
	if err := redisotel.InstrumentMetrics(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to instrument redis metrics: %w", err)
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}

	slog.Info("redis connected",
		slog.String("addr", cfg.Addr),
	)

	return &backend{
		reminders:   repository.NewReminderRepository(client),
		preferences: repository.NewPreferenceRepository(client),
		dependency:  health.RedisDependency(client),
		close:       client.Close,
	}, nil
}

func openSQLite(ctx context.Context, cfg *config.SQLiteConfig) (*backend, error) {
	db, err := sqlstore.Open(ctx, cfg.Path)
	if err != nil {
		return nil, err
	}

	slog.Info("sqlite opened",
		slog.String("path", cfg.Path),
	)

	return &backend{
		reminders:   sqlstore.NewReminderRepository(db),
		preferences: sqlstore.NewPreferenceRepository(db),
		dependency:  health.SQLiteDependency(db),
		close:       db.Close,
	}, nil
}
