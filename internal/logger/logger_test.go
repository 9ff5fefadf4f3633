package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in    string
		want  slog.Level
		known bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"chatty", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		level, ok := ParseLevel(tt.in)
		assert.Equal(t, tt.want, level, tt.in)
		assert.Equal(t, tt.known, ok, tt.in)
	}
}

func TestNew_JSONWithRFC3339Time(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info", "json")

	l.Debug("hidden")
	l.Info("projection done", "years", 5)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "Debug should be filtered at info level")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "projection done", entry["msg"])
	assert.Equal(t, float64(5), entry["years"])
	ts, ok := entry["time"].(string)
	require.True(t, ok)
	assert.NotContains(t, ts, ".", "RFC3339 drops sub-second precision")
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "debug", "text")

	ctx := ToContext(context.Background(), l.With("request_id", "abc"))
	FromContext(ctx).Info("hello")
	assert.Contains(t, buf.String(), "request_id=abc")

	assert.Equal(t, L, FromContext(context.Background()), "Should fall back to the global logger")
}

func TestAdapter(t *testing.T) {
	var buf bytes.Buffer
	a := NewAdapter(New(&buf, "debug", "text"))

	a.Debugf("rate=%s", "12")
	a.Infof("years=%d", 5)
	a.Warnf("rejected: %v", "bad")
	a.Errorf("failed %q", "plan")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "rate=12")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `failed \"plan\"`)
}
