package middleware

import (
	"go.uber.org/zap"

	"IAmFine/pkg/logger"
)

func Init() error {
	if err := initAuthMiddleware(); err != nil {
		logger.Logger.Error("Failed to initialize auth middleware", zap.Error(err))
		return err
	}

	logger.Logger.Info("All middlewares initialized")
	return nil
}
