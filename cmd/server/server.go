package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"IAmFine/config"
	"IAmFine/internal/handler"
	"IAmFine/internal/middleware"
	"IAmFine/internal/repository"
	"IAmFine/internal/router"
	"IAmFine/internal/schedule"
	"IAmFine/internal/service"
	"IAmFine/pkg/email"
	"IAmFine/pkg/logger"
	"IAmFine/pkg/metrics"
	pkgotel "IAmFine/pkg/otel"
	"IAmFine/pkg/sms"
	"IAmFine/pkg/snowflake"
	"IAmFine/pkg/token"
	"IAmFine/storage"
	"IAmFine/storage/database"
)

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

	// a dead provider degrades to the recording mock instead of panicking
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

	// token before middleware, the auth middleware shares its generator
	if err := token.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize token package", zap.Error(err))
	}
	if err := middleware.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize middlewares", zap.Error(err))
	}

	if config.Cfg.OTelEnabled {
		shutdown, err := pkgotel.InitOpenTelemetry(ctx, pkgotel.Config{
			ServiceName:    config.Cfg.ServiceName,
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
			if err := middleware.InitHTTPMetrics(otel.Meter("hertz-server")); err != nil {
				logger.Logger.Warn("Failed to initialize HTTP metrics", zap.Error(err))
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
	checkins := repository.NewCheckinStore(db)
	contacts := repository.NewContactStore(db)
	notificationLogs := repository.NewNotificationLogStore(db)

	checkinService := service.NewCheckinService(users, checkins, loc, logger.Logger)
	contactService := service.NewContactService(users, contacts, config.Cfg.ContactMaxPerUser, logger.Logger)
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

	handler.Init(checkinService, contactService, notificationService, sweeper)

	logger.Logger.Info("Server starting",
		zap.String("service", config.Cfg.ServiceName),
		zap.String("port", config.Cfg.ServerPort),
		zap.String("environment", config.Cfg.Environment),
	)

	addr := net.JoinHostPort(config.Cfg.ServerHost, config.Cfg.ServerPort)
	h := server.Default(server.WithHostPorts(addr))

	router.Register(h)

	go func() {
		<-ctx.Done()
		logger.Logger.Info("Initiating graceful shutdown...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Error("Failed to shutdown HTTP server", zap.Error(err))
		}
	}()

	logger.Logger.Info("HTTP server listening", zap.String("addr", addr))

	h.Spin()

	logger.Logger.Info("Server shutting down gracefully")
}
