package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"

	"IAmFine/config"
	"IAmFine/pkg/errors"
	"IAmFine/pkg/logger"
	"IAmFine/pkg/response"
)

// RecoverMiddleware turns handler panics into a 500 response. The stack goes
// to the log; clients see details only outside production.
func RecoverMiddleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				handlePanic(ctx, c, err)
			}
		}()

		c.Next(ctx)
	}
}

func handlePanic(ctx context.Context, c *app.RequestContext, err interface{}) {
	logger.Logger.Error("Panic recovered in HTTP handler",
		zap.Any("panic", err),
		zap.String("method", string(c.Method())),
		zap.String("path", string(c.Path())),
		zap.ByteString("stack", debug.Stack()),
	)

	errDef := errors.Definition{
		Code:    "INTERNAL_SERVER_ERROR",
		Message: "Internal server error",
	}
	if !config.Cfg.IsProduction() {
		errDef.Message = fmt.Sprintf("Internal error: %v", err)
	}

	response.AbortWithError(ctx, c, errDef)
}
