package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("Should return logger from context when present", func(t *testing.T) {
		expected := NewLogger(TestConfig())
		ctx := ContextWithLogger(context.Background(), expected)

		actual := FromContext(ctx)

		require.NotNil(t, actual)
		assert.Equal(t, expected, actual)
	})

	t.Run("Should return default logger when no logger in context", func(t *testing.T) {
		l := FromContext(context.Background())
		require.NotNil(t, l)
	})

	t.Run("Should return default logger when wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), LoggerCtxKey, "not a logger")
		require.NotNil(t, FromContext(ctx))
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"error", ErrorLevel},
		{"disabled", DisabledLevel},
		{"loud", InfoLevel},
		{"", InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.input), "ParseLevel(%q)", tt.input)
	}
}

func TestLogLevel_ToCharmlogLevel(t *testing.T) {
	testCases := []struct {
		level    LogLevel
		expected int
	}{
		{DebugLevel, -4},
		{InfoLevel, 0},
		{WarnLevel, 4},
		{ErrorLevel, 8},
		{DisabledLevel, 1000},
		{LogLevel("unknown"), 0},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, int(tc.level.ToCharmlogLevel()), "level %s", tc.level)
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("Should write JSON lines with key values", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&Config{Level: DebugLevel, Output: &buf, JSON: true})

		l.With("table", "members").Warn("retrying", "attempt", 2)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "retrying", entry["msg"])
		assert.Equal(t, "members", entry["table"])
		assert.EqualValues(t, 2, entry["attempt"])
	})

	t.Run("Should drop messages below the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&Config{Level: WarnLevel, Output: &buf})

		l.Info("quiet")
		l.Debug("quieter")

		assert.Empty(t, buf.String())
	})

	t.Run("Should stay silent when disabled", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&Config{Level: DisabledLevel, Output: &buf})

		l.Error("boom")

		assert.Empty(t, buf.String())
	})
}
