package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"timeledger/internal/config"
)

func TestDebugEnabled(t *testing.T) {
	t.Setenv(DebugEnv, "")
	assert.False(t, DebugEnabled())

	t.Setenv(DebugEnv, "1")
	assert.True(t, DebugEnabled())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
		wantErr  bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"WARN", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"chatty", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestNew(t *testing.T) {
	t.Setenv(DebugEnv, "")

	logger, err := New(config.LoggingConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = New(config.LoggingConfig{Level: "info", Format: "console"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))

	_, err = New(config.LoggingConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)

	_, err = New(config.LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestNew_DebugOverride(t *testing.T) {
	t.Setenv(DebugEnv, "yes")

	logger, err := New(config.LoggingConfig{Level: "error", Format: "json"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestContextLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	fallback := zap.NewNop()

	assert.Same(t, fallback, FromContext(context.Background(), fallback))

	ctx := IntoContext(context.Background(), WithRequestID(logger, "req-1"))
	FromContext(ctx, fallback).Info("hello")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "hello", entry.Message)
	assert.Equal(t, "req-1", entry.ContextMap()["request_id"])
}

func TestWithRequestID_Empty(t *testing.T) {
	logger := zap.NewNop()
	assert.Same(t, logger, WithRequestID(logger, ""))
}
