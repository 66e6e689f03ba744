package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)

	level, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, level)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

func TestSlogAdapter_WritesThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewSlogAdapter(zap.New(core))

	log.Debug("hidden")
	log.Warn("batch failed", "option", "0xabc")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "batch failed", entries[0].Message)
	assert.Equal(t, "0xabc", entries[0].ContextMap()["option"])
}

func TestSlogAdapter_WithScopesEntries(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := NewSlogAdapter(zap.New(core))
	scoped := base.With("chain_id", 137)

	scoped.Debug("call reverted", "reference", "iv")
	base.Info("unscoped")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.EqualValues(t, 137, entries[0].ContextMap()["chain_id"])
	assert.Equal(t, "iv", entries[0].ContextMap()["reference"])
	assert.NotContains(t, entries[1].ContextMap(), "chain_id")
}
