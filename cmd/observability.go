package main

import (
	"context"
	"os"

	"github.com/cuaidesk/desk-reminders/internal/config"
	"github.com/cuaidesk/desk-reminders/internal/observability"
	"github.com/cuaidesk/desk-reminders/internal/observability/logging"
)

const module = logging.Module("desk-reminders")

func initObservability(ctx context.Context, cfg *config.Config) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "desk-reminders"
	}

	return observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: os.Getenv("REVISION"),
		},
		Environment:   logging.Environment(cfg.Environment),
		LogLevel:      cfg.LogLevel,
		DefaultModule: module,
		OTLPEndpoint:  cfg.OTLPEndpoint,
		SamplingRate:  1.0,
	})
}
