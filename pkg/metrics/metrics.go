// Package metrics exposes the service's OpenTelemetry instruments. All
// recorders are no-ops until InitMetrics runs, so callers never nil-check.
package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Instruments struct {
	NotificationsSentTotal   metric.Int64Counter
	NotificationSendDuration metric.Float64Histogram

	SweepRunsTotal     metric.Int64Counter
	SweepDuration      metric.Float64Histogram
	SweepUsersScanned  metric.Int64Counter
	SweepUsersNotified metric.Int64Counter
	SweepUsersSkipped  metric.Int64Counter

	CheckinsTotal metric.Int64Counter
}

var (
	instruments *Instruments
	meter       = otel.Meter("iamfine")
)

func InitMetrics() error {
	var err error
	m := &Instruments{}

	m.NotificationsSentTotal, err = meter.Int64Counter(
		"notifications_sent_total",
		metric.WithDescription("Total notification attempts, by channel and status"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return err
	}

	m.NotificationSendDuration, err = meter.Float64Histogram(
		"notification_send_duration_seconds",
		metric.WithDescription("Time spent on a single notification attempt"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	m.SweepRunsTotal, err = meter.Int64Counter(
		"sweep_runs_total",
		metric.WithDescription("Total monitor sweep executions"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return err
	}

	m.SweepDuration, err = meter.Float64Histogram(
		"sweep_duration_seconds",
		metric.WithDescription("Wall time of a full monitor sweep"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	m.SweepUsersScanned, err = meter.Int64Counter(
		"sweep_users_scanned_total",
		metric.WithDescription("Active users examined by the sweep"),
		metric.WithUnit("{user}"),
	)
	if err != nil {
		return err
	}

	m.SweepUsersNotified, err = meter.Int64Counter(
		"sweep_users_notified_total",
		metric.WithDescription("Users whose contacts were alerted by the sweep"),
		metric.WithUnit("{user}"),
	)
	if err != nil {
		return err
	}

	m.SweepUsersSkipped, err = meter.Int64Counter(
		"sweep_users_skipped_total",
		metric.WithDescription("Users skipped by the sweep, by reason"),
		metric.WithUnit("{user}"),
	)
	if err != nil {
		return err
	}

	m.CheckinsTotal, err = meter.Int64Counter(
		"checkins_total",
		metric.WithDescription("Accepted daily check-ins"),
		metric.WithUnit("{checkin}"),
	)
	if err != nil {
		return err
	}

	instruments = m
	return nil
}

// RecordNotification records one send attempt on one channel.
func RecordNotification(ctx context.Context, channel, status string, elapsed time.Duration) {
	if instruments == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("channel", channel),
		attribute.String("status", status),
	)
	instruments.NotificationsSentTotal.Add(ctx, 1, attrs)
	instruments.NotificationSendDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordSweep records the aggregate outcome of one sweep run.
func RecordSweep(ctx context.Context, scanned, notified, skipped int64, elapsed time.Duration) {
	if instruments == nil {
		return
	}
	instruments.SweepRunsTotal.Add(ctx, 1)
	instruments.SweepDuration.Record(ctx, elapsed.Seconds())
	instruments.SweepUsersScanned.Add(ctx, scanned)
	instruments.SweepUsersNotified.Add(ctx, notified)
	instruments.SweepUsersSkipped.Add(ctx, skipped)
}

func RecordCheckin(ctx context.Context) {
	if instruments == nil {
		return
	}
	instruments.CheckinsTotal.Add(ctx, 1)
}
