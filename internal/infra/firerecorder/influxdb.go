package firerecorder

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/cuaidesk/desk-reminders/internal/domain"
)

const measurement = "reminder_notification"

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
}

// NewRecorder returns the InfluxDB recorder, or a noop recorder when
// recording is disabled or InfluxDB is not configured.
func NewRecorder(ctx context.Context, cfg *Config) (domain.NotificationRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "notification recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, notification recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "notification recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
	}, nil
}

func (r *influxDBRecorder) RecordFired(ctx context.Context, n domain.FiredNotification) error {
	if err := r.writeAPI.WritePoint(ctx, firedPoint(n)); err != nil {
		return fmt.Errorf("failed to write fired notification to InfluxDB: %w", err)
	}
	return nil
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}

func firedPoint(n domain.FiredNotification) *write.Point {
	return influxdb2.NewPoint(
		measurement,
		map[string]string{
			"user_id": n.UserID,
			"native":  strconv.FormatBool(n.Native),
		},
		map[string]any{
			"reminder_id": n.ReminderID,
			"count":       1,
		},
		n.FiredAt,
	)
}
