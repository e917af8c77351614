package handler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"IAmFine/internal/middleware"
	pkgerrors "IAmFine/pkg/errors"
	"IAmFine/pkg/response"
)

// GetNotificationHistory lists the user's recent alert attempts.
// GET /v1/notifications?limit=50
func GetNotificationHistory(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	limit := 0
	if q := c.Query("limit"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil || parsed < 0 {
			response.BindError(ctx, c, fmt.Errorf("invalid limit parameter: %q", q))
			return
		}
		limit = parsed
	}

	items, err := notificationService.GetHistory(ctx, userID, limit)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, items)
}

// GetNotificationStats aggregates the user's alert trail by status and channel.
// GET /v1/notifications/stats
func GetNotificationStats(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	stats, err := notificationService.GetStats(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, stats)
}
