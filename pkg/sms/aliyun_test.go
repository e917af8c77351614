package sms

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntimeOptionsCarriesDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := runtimeOptions(ctx)

	require.NotNil(t, opts.ReadTimeout)
	require.NotNil(t, opts.ConnectTimeout)
	assert.Greater(t, *opts.ReadTimeout, 0)
	assert.LessOrEqual(t, *opts.ReadTimeout, 5000)
	assert.Greater(t, *opts.ConnectTimeout, 0)
	assert.LessOrEqual(t, *opts.ConnectTimeout, 5000)
}

func TestRuntimeOptionsWithoutDeadline(t *testing.T) {
	opts := runtimeOptions(context.Background())

	assert.Nil(t, opts.ReadTimeout)
	assert.Nil(t, opts.ConnectTimeout)
}

func TestRuntimeOptionsExpiredDeadlineStaysPositive(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	opts := runtimeOptions(ctx)

	require.NotNil(t, opts.ReadTimeout)
	assert.Equal(t, 1, *opts.ReadTimeout)
}

func TestSendSingleRejectsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &AliyunClient{}
	_, err := client.SendSingle(ctx, "13800138000", "Sign", "SMS_TPL_1", `{"days":"3"}`)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
