package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	reminderMeterName = "reminder.notify"
)

type ReminderMetrics struct {
	storeOperations metric.Int64Counter
	scans           metric.Int64Counter
	dueReminders    metric.Int64Histogram
	notifications   metric.Int64Counter
	activeSchedules metric.Int64UpDownCounter
}

func NewReminderMetrics() (*ReminderMetrics, error) {
	meter := otel.Meter(reminderMeterName)

	storeOperations, err := meter.Int64Counter(
		"reminder_store_operations_total",
		metric.WithDescription("Total number of reminder store operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	scans, err := meter.Int64Counter(
		"reminder_scans_total",
		metric.WithDescription("Total number of scheduler scan passes"),
		metric.WithUnit("{scan}"),
	)
	if err != nil {
		return nil, err
	}

	dueReminders, err := meter.Int64Histogram(
		"reminder_scan_due_count",
		metric.WithDescription("Reminders found due per scan pass"),
		metric.WithUnit("{reminder}"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 5, 10, 25),
	)
	if err != nil {
		return nil, err
	}

	notifications, err := meter.Int64Counter(
		"reminder_notifications_total",
		metric.WithDescription("Total number of reminder notifications emitted"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	activeSchedules, err := meter.Int64UpDownCounter(
		"reminder_active_schedulers",
		metric.WithDescription("Schedulers currently polling"),
		metric.WithUnit("{scheduler}"),
	)
	if err != nil {
		return nil, err
	}

	return &ReminderMetrics{
		storeOperations: storeOperations,
		scans:           scans,
		dueReminders:    dueReminders,
		notifications:   notifications,
		activeSchedules: activeSchedules,
	}, nil
}

func (m *ReminderMetrics) RecordStoreOperation(ctx context.Context, operation, outcome string) {
	m.storeOperations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

func (m *ReminderMetrics) RecordScan(ctx context.Context, dueCount int) {
	m.scans.Add(ctx, 1)
	m.dueReminders.Record(ctx, int64(dueCount))
}

func (m *ReminderMetrics) RecordNotification(ctx context.Context, channel string) {
	m.notifications.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", channel),
	))
}

func (m *ReminderMetrics) RecordSchedulerActive(ctx context.Context, active bool) {
	delta := int64(1)
	if !active {
		delta = -1
	}
	m.activeSchedules.Add(ctx, delta)
}
