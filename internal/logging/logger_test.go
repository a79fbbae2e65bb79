package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestTintHandler_RenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newTint(&buf, slog.LevelInfo, true))

	logger.Debug("hidden")
	logger.Warn("model fallback", "error", errors.New("unsupported"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "model fallback")
	assert.Contains(t, out, "err=unsupported")
}

func TestNewNop(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNop().Error("discarded")
	})
}
