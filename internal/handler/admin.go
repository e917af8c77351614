package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"IAmFine/pkg/response"
)

// TriggerSweep runs a monitor sweep on demand and returns its summary.
// Concurrent triggers get SWEEP_ALREADY_RUNNING.
// POST /v1/admin/sweep
func TriggerSweep(ctx context.Context, c *app.RequestContext) {
	summary, err := sweeper.Run(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, summary)
}
