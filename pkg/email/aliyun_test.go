package email

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
}

func TestRuntimeOptionsWithoutDeadline(t *testing.T) {
	opts := runtimeOptions(context.Background())

	assert.Nil(t, opts.ReadTimeout)
	assert.Nil(t, opts.ConnectTimeout)
}

func TestSendSingleRejectsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &AliyunClient{accountName: "noreply@example.com"}
	_, err := client.SendSingle(ctx, "contact@example.com", "Are you OK?", "<p>check in</p>")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
