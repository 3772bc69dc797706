package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const reminderTracerName = "github.com/cuaidesk/desk-reminders/internal/service"

func ReminderTracer() trace.Tracer {
	return otel.Tracer(reminderTracerName)
}

func StartStoreSpan(ctx context.Context, operation, userID string) (context.Context, trace.Span) {
	return ReminderTracer().Start(ctx, "reminder.store."+operation,
		trace.WithAttributes(
			attribute.String("user_id", userID),
		),
	)
}

func StartScanSpan(ctx context.Context, userID string, now time.Time, reminderCount int) (context.Context, trace.Span) {
	return ReminderTracer().Start(ctx, "reminder.scheduler.scan",
		trace.WithAttributes(
			attribute.String("user_id", userID),
			attribute.String("scan.now", now.Format(time.RFC3339)),
			attribute.Int("scan.reminder_count", reminderCount),
		),
	)
}

func StartRepositorySpan(ctx context.Context, system, operation string) (context.Context, trace.Span) {
	return ReminderTracer().Start(ctx, "reminder.repository."+operation,
		trace.WithAttributes(
			attribute.String("db.system", system),
			attribute.String("db.operation", operation),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordScanResult(span trace.Span, dueCount int) {
	span.SetAttributes(attribute.Int("scan.due_count", dueCount))
	span.SetStatus(codes.Ok, "")
}

func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
