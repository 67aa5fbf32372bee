package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: FormatJSON, Level: slog.LevelInfo})

	log.Info("hello", "key", "value")

	out := buf.String()
	assert.Contains(t, out, `"msg":"hello"`)
	assert.Contains(t, out, `"key":"value"`)
	assert.Contains(t, out, `"level":"INFO"`)
}

func TestNew_FormatAutoDetection(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "production", Level: slog.LevelInfo})
	log.Info("probe")
	assert.Contains(t, buf.String(), `"msg":"probe"`)

	buf.Reset()
	log = New(Config{Writer: &buf, Environment: "development", Level: slog.LevelInfo})
	log.Info("probe")
	assert.NotContains(t, buf.String(), `"msg"`)
	assert.Contains(t, buf.String(), "probe")
}

func TestNew_ExplicitFormatWinsOverEnvironment(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: FormatJSON, Environment: "development"})

	log.Info("probe")

	assert.Contains(t, buf.String(), `"msg":"probe"`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.input), "input %q", tt.input)
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: FormatJSON})

	Component(log, "scoring").Info("pass complete")

	assert.Contains(t, buf.String(), `"component":"scoring"`)
}

func TestPrettyHandler_Enabled(t *testing.T) {
	h := newPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})

	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestPrettyHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log.Info("scored books", "count", 42, "dna", true)

	out := buf.String()
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "scored books")
	assert.Contains(t, out, "count=42")
	assert.Contains(t, out, "dna=true")
}

func TestPrettyHandler_LevelLabels(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, "DBG"},
		{slog.LevelInfo, "INF"},
		{slog.LevelWarn, "WRN"},
		{slog.LevelError, "ERR"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		log := slog.New(newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		log.Log(context.Background(), tt.level, "x")
		assert.Contains(t, buf.String(), tt.want)
	}
}

func TestPrettyHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	base := newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	log := slog.New(base.WithAttrs([]slog.Attr{slog.String("session", "ms-1")}))

	log.Info("tuned")

	out := buf.String()
	assert.Contains(t, out, "session=ms-1")
	assert.Contains(t, out, "tuned")
}

func TestPrettyHandler_WithSource(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo, AddSource: true}))

	log.Info("probe")

	assert.Contains(t, buf.String(), "logger_test.go:")
}

func TestPrettyHandler_NilOptions(t *testing.T) {
	var buf bytes.Buffer
	h := newPrettyHandler(&buf, nil)
	require.NotNil(t, h.opts)

	slog.New(h).Info("probe")
	assert.Contains(t, buf.String(), "probe")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: FormatJSON, Level: slog.LevelWarn})

	log.Debug("quiet")
	log.Info("quiet too")
	log.Warn("loud")
	log.Error("louder")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "loud")
	assert.Contains(t, out, "louder")
}
