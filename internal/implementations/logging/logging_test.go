package logging

import (
	"context"
	"remindbot/internal/core/domain/logging"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestEntriesAreStructuredFields(t *testing.T) {
	// Setup ---
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core))
	ctx := logging.WithEntries(context.Background(), logging.Entry("messageID", "m1"))

	// Exercise ---
	log.Warning(ctx, "Rate limit exceeded.", logging.Entry("key", "inbound::u1"))

	// Verify ---
	assert := require.New(t)
	assert.Equal(1, logs.Len())
	record := logs.All()[0]
	assert.Equal("Rate limit exceeded.", record.Message)
	assert.Equal(zapcore.WarnLevel, record.Level)
	assert.Equal(map[string]interface{}{"messageID": "m1", "key": "inbound::u1"}, record.ContextMap())
}

func TestLevels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := FromZap(zap.New(core))

	log.Debug(context.Background(), "hidden")
	log.Info(context.Background(), "shown")
	log.Error(context.Background(), "shown too")

	assert := require.New(t)
	assert.Equal(2, logs.Len())
	assert.Equal(zapcore.ErrorLevel, logs.All()[1].Level)
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	require.NotPanics(t, func() { NewZapLogger("loud") })
}
