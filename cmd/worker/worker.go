package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"IAmFine/config"
	"IAmFine/internal/queue"
	"IAmFine/internal/repository"
	"IAmFine/pkg/logger"
	"IAmFine/pkg/sms"
	"IAmFine/pkg/snowflake"
	"IAmFine/storage"
	"IAmFine/storage/database"
)

// The worker process drains the reminder queue.
func main() {
	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	var smsClient sms.Client
	if err := sms.Init(); err != nil {
		logger.Logger.Warn("Failed to initialize SMS client, reminders will not send", zap.Error(err))
		smsClient = sms.NewMockClient()
	} else {
		smsClient = sms.GetClient()
	}

	loc, err := time.LoadLocation(config.Cfg.SweepTimezone)
	if err != nil {
		logger.Logger.Fatal("Invalid sweep timezone",
			zap.String("timezone", config.Cfg.SweepTimezone),
			zap.Error(err),
		)
	}

	db := database.DB()
	worker := queue.NewReminderWorker(
		repository.NewUserStore(db),
		repository.NewCheckinStore(db),
		smsClient,
		config.Cfg.SMSSignName, config.Cfg.SMSReminderTemplateCode,
		loc,
		logger.Logger,
	)

	logger.Logger.Info("Worker service starting",
		zap.String("service", config.Cfg.ServiceName+"-worker"),
		zap.String("environment", config.Cfg.Environment),
	)

	if err := worker.Start(ctx); err != nil {
		logger.Logger.Error("Reminder consumer stopped", zap.Error(err))
	}

	logger.Logger.Info("Worker service shutting down gracefully")
}
