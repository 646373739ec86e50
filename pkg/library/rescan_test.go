package library

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiohaus/melody/pkg/observability"
)

func TestNewRescanScheduler_InvalidSchedule(t *testing.T) {
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)

	_, err := NewRescanScheduler("not a schedule", logger, func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rescan schedule")
}

func TestRescanScheduler_StartStop(t *testing.T) {
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)

	scheduler, err := NewRescanScheduler("0 3 * * *", logger, func() {})
	require.NoError(t, err)

	scheduler.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, scheduler.Stop(ctx))
}
