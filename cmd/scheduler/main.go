package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"IAmFine/config"
	"IAmFine/internal/repository"
	"IAmFine/internal/schedule"
	"IAmFine/internal/service"
	"IAmFine/pkg/email"
	"IAmFine/pkg/logger"
	"IAmFine/pkg/metrics"
	pkgotel "IAmFine/pkg/otel"
	"IAmFine/pkg/sms"
	"IAmFine/pkg/snowflake"
	"IAmFine/storage"
	"IAmFine/storage/database"
	"IAmFine/storage/redis"
)

// The scheduler process owns the clock: it runs the daily monitor sweep and
// publishes the day's reminder batches.
func main() {
	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Logger.Info("Scheduler received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage for scheduler", zap.Error(err))
	}
	defer storage.Close()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake for scheduler", zap.Error(err))
	}

	var smsClient sms.Client
	if err := sms.Init(); err != nil {
		logger.Logger.Warn("Failed to initialize SMS client, alerts degrade to email", zap.Error(err))
		smsClient = sms.NewMockClient()
	} else {
		smsClient = sms.GetClient()
	}
	var emailClient email.Client
	if err := email.Init(); err != nil {
		logger.Logger.Warn("Failed to initialize email client, fallback channel disabled", zap.Error(err))
		emailClient = email.NewMockClient()
	} else {
		emailClient = email.GetClient()
	}

	if config.Cfg.OTelEnabled {
		shutdown, err := pkgotel.InitOpenTelemetry(ctx, pkgotel.Config{
			ServiceName:    config.Cfg.ServiceName + "-scheduler",
			ServiceVersion: "1.0.0",
			Environment:    config.Cfg.Environment,
			OTLPEndpoint:   config.Cfg.OTLPEndpoint,
			SampleRatio:    config.Cfg.OTelSampleRatio,
		})
		if err != nil {
			logger.Logger.Warn("Failed to initialize OpenTelemetry", zap.Error(err))
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Logger.Warn("OpenTelemetry shutdown error", zap.Error(err))
				}
			}()
			if err := metrics.InitMetrics(); err != nil {
				logger.Logger.Warn("Failed to initialize metrics", zap.Error(err))
			}
		}
	}

	loc, err := time.LoadLocation(config.Cfg.SweepTimezone)
	if err != nil {
		logger.Logger.Fatal("Invalid sweep timezone",
			zap.String("timezone", config.Cfg.SweepTimezone),
			zap.Error(err),
		)
	}

	db := database.DB()
	users := repository.NewUserStore(db)
	contacts := repository.NewContactStore(db)
	notificationLogs := repository.NewNotificationLogStore(db)

	notificationService := service.NewNotificationService(
		users, contacts, notificationLogs,
		smsClient, emailClient,
		config.Cfg.SMSSignName, config.Cfg.SMSTemplateCode,
		time.Duration(config.Cfg.NotifySendTimeout)*time.Second,
		logger.Logger,
	)
	sweeper := schedule.NewSweeper(
		users, notificationService, loc,
		config.Cfg.SweepStaleDays, config.Cfg.SweepWorkers,
		time.Duration(config.Cfg.SweepLockSeconds)*time.Second,
		logger.Logger,
	)
	reminders := schedule.NewReminderScheduler(users, loc, logger.Logger)

	logger.Logger.Info("Scheduler service starting",
		zap.String("service", config.Cfg.ServiceName+"-scheduler"),
		zap.String("environment", config.Cfg.Environment),
	)

	go runDailySweepLoop(ctx, sweeper, loc)
	go runDailyReminderLoop(ctx, reminders, loc)
	go runHealthLoop(ctx)

	<-ctx.Done()

	logger.Logger.Info("Scheduler service shutting down gracefully")
}

// runDailySweepLoop fires the monitor sweep once per day at SWEEP_AT local
// time. Development mode shortens this to a 1m tick for local debugging.
func runDailySweepLoop(ctx context.Context, sweeper *schedule.Sweeper, loc *time.Location) {
	if config.Cfg.IsDevelopment() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		logger.Logger.Info("Sweep loop running in development mode with 1m interval")

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runSweep(ctx, sweeper)
			}
		}
	}

	for {
		now := time.Now().In(loc)
		next, err := nextRunAt(now, config.Cfg.SweepAt, loc)
		if err != nil {
			logger.Logger.Error("Invalid SWEEP_AT, defaulting to 01:00",
				zap.String("sweep_at", config.Cfg.SweepAt),
				zap.Error(err),
			)
			next, _ = nextRunAt(now, "01:00", loc)
		}

		delay := time.Until(next)
		logger.Logger.Info("Scheduled next monitor sweep",
			zap.Time("now", now),
			zap.Time("next_run", next),
			zap.Duration("delay", delay),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			runSweep(ctx, sweeper)
		}
	}
}

func runSweep(ctx context.Context, sweeper *schedule.Sweeper) {
	runCtx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	if _, err := sweeper.Run(runCtx); err != nil {
		logger.Logger.Error("Monitor sweep run failed", zap.Error(err))
	}
}

// runDailyReminderLoop publishes the day's reminder batches shortly after
// local midnight.
func runDailyReminderLoop(ctx context.Context, reminders *schedule.ReminderScheduler, loc *time.Location) {
	if config.Cfg.IsDevelopment() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		logger.Logger.Info("Reminder loop running in development mode with 1m interval")

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runReminders(ctx, reminders)
			}
		}
	}

	for {
		now := time.Now().In(loc)
		next, _ := nextRunAt(now, "00:05", loc)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			runReminders(ctx, reminders)
		}
	}
}

func runReminders(ctx context.Context, reminders *schedule.ReminderScheduler) {
	runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	if err := reminders.ScheduleDailyReminders(runCtx); err != nil {
		logger.Logger.Error("Daily reminder scheduling failed", zap.Error(err))
	}
}

// runHealthLoop pings the scheduler's dependencies once an hour so a degraded
// postgres or redis shows up in the logs before the nightly jobs hit it.
func runHealthLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			if err := database.Ping(checkCtx); err != nil {
				logger.Logger.Error("Scheduler health check: postgres degraded", zap.Error(err))
			}
			if err := redis.Ping(checkCtx); err != nil {
				logger.Logger.Error("Scheduler health check: redis degraded", zap.Error(err))
			}
			cancel()
		}
	}
}

// nextRunAt resolves the next occurrence of a HH:MM (or HH:MM:SS) clock in
// loc, rolling to tomorrow when today's slot already passed.
func nextRunAt(now time.Time, clock string, loc *time.Location) (time.Time, error) {
	layout := "15:04"
	if len(clock) == 8 {
		layout = "15:04:05"
	}
	parsed, err := time.Parse(layout, clock)
	if err != nil {
		return time.Time{}, err
	}

	next := time.Date(now.Year(), now.Month(), now.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), 0, loc)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next, nil
}
