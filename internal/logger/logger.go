// Package logger builds the process-wide slog.Logger: JSON in
// production, a compact colored format everywhere else.
package logger

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// Output formats.
const (
	FormatJSON   = "json"
	FormatPretty = "pretty"
)

// ANSI codes for the pretty handler.
const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiPurple = "\033[35m"
	ansiCyan   = "\033[36m"
	ansiBold   = "\033[1m"
	ansiDim    = "\033[2m"
)

// Config selects the handler and verbosity.
type Config struct {
	Writer      io.Writer
	Format      string
	Environment string
	Level       slog.Level
	AddSource   bool
}

// New builds a logger from the config. An empty Format picks JSON for
// production and the pretty handler otherwise.
func New(cfg Config) *slog.Logger {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	format := cfg.Format
	if format == "" {
		if cfg.Environment == "production" {
			format = FormatJSON
		} else {
			format = FormatPretty
		}
	}

	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if src, ok := a.Value.Any().(*slog.Source); ok {
					src.File = filepath.Base(src.File)
				}
			}
			return a
		},
	}

	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(cfg.Writer, opts))
	}
	return slog.New(newPrettyHandler(cfg.Writer, opts))
}

// Component returns a child logger tagged with the subsystem name, so
// scoring, session, and store logs can be told apart.
func Component(log *slog.Logger, name string) *slog.Logger {
	return log.With("component", name)
}

// ParseLevel maps a config string to a slog.Level. Unknown strings fall
// back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// prettyHandler writes "HH:MM:SS LVL message key=value" lines with
// color, for local development.
type prettyHandler struct {
	opts  *slog.HandlerOptions
	mu    *sync.Mutex
	w     io.Writer
	attrs []slog.Attr
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &prettyHandler{opts: opts, mu: &sync.Mutex{}, w: w}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.opts.Level != nil {
		min = h.opts.Level.Level()
	}
	return level >= min
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	buf.WriteString(ansiDim)
	buf.WriteString(r.Time.Format("15:04:05"))
	buf.WriteString(ansiReset)
	buf.WriteByte(' ')

	label, color := levelLabel(r.Level)
	buf.WriteString(color)
	buf.WriteString(label)
	buf.WriteString(ansiReset)
	buf.WriteByte(' ')

	if h.opts.AddSource && r.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{r.PC})
		frame, _ := frames.Next()
		buf.WriteString(ansiDim)
		buf.WriteString(filepath.Base(frame.File))
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(frame.Line))
		buf.WriteString(ansiReset)
		buf.WriteByte(' ')
	}

	buf.WriteString(ansiBold)
	buf.WriteString(r.Message)
	buf.WriteString(ansiReset)

	attrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+r.NumAttrs())
	copy(attrs, h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	if len(attrs) > 0 {
		buf.WriteByte(' ')
		buf.WriteString(ansiCyan)
		for i, a := range attrs {
			if i > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString(a.Key)
			buf.WriteByte('=')
			buf.WriteString(a.Value.String())
		}
		buf.WriteString(ansiReset)
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &prettyHandler{opts: h.opts, mu: h.mu, w: h.w, attrs: merged}
}

// WithGroup is accepted but flattened; the pretty format has no nesting.
func (h *prettyHandler) WithGroup(string) slog.Handler { return h }

func levelLabel(level slog.Level) (string, string) {
	switch level {
	case slog.LevelDebug:
		return "DBG", ansiPurple
	case slog.LevelInfo:
		return "INF", ansiGreen
	case slog.LevelWarn:
		return "WRN", ansiYellow
	case slog.LevelError:
		return "ERR", ansiRed
	}
	return level.String(), ansiDim
}
