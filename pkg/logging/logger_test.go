package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "rankit", "json", "info")
	l.Debug("hidden")
	l.Info("rank_request", "mode", "search")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "rank_request", line["msg"])
	assert.Equal(t, "rankit", line["service"])
	assert.Equal(t, "search", line["mode"])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "rankit", "TEXT", "warn").Warn("slow_store")
	assert.Contains(t, buf.String(), "msg=slow_store")
	assert.Contains(t, buf.String(), "service=rankit")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}
