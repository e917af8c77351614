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

// CompleteCheckin records today's check-in.
// POST /v1/check-ins
func CompleteCheckin(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	result, err := checkinService.CheckIn(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// GetCheckinStatus reports today's state and the current streak.
// GET /v1/check-ins/status
func GetCheckinStatus(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	status, err := checkinService.GetStatus(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, status)
}

// GetCheckinHistory lists check-ins inside a day window (default 30).
// GET /v1/check-ins/history?days=30
func GetCheckinHistory(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	days := 0
	if q := c.Query("days"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil || parsed < 0 {
			response.BindError(ctx, c, fmt.Errorf("invalid days parameter: %q", q))
			return
		}
		days = parsed
	}

	history, err := checkinService.GetHistory(ctx, userID, days)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, history)
}
