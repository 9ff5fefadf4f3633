package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// L is the process-wide logger. It discards output until Init is called.
var L = slog.New(slog.NewTextHandler(io.Discard, nil))

type contextKey string

const loggerKey contextKey = "logger"

// ParseLevel maps a LOG_LEVEL value to a slog level, defaulting to info
func ParseLevel(levelStr string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// New builds a logger writing JSON (or text when format is "text") with RFC3339 timestamps
func New(w io.Writer, levelStr, format string) *slog.Logger {
	level, _ := ParseLevel(levelStr)
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// Init initializes the global logger on stderr and makes it the slog default.
// Call this once at startup, after loading config.
func Init(levelStr, format string) *slog.Logger {
	L = New(os.Stderr, levelStr, format)
	slog.SetDefault(L)
	if _, ok := ParseLevel(levelStr); !ok {
		L.Warn("invalid LOG_LEVEL specified, defaulting to INFO", "configuredLevel", levelStr)
	}
	return L
}

// FromContext retrieves a logger from context, or returns the global logger
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return L
}

// ToContext embeds a logger into a context
func ToContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// Adapter exposes a slog logger through the printf-style interface the
// calculation engine and the NAV service log through.
type Adapter struct {
	Logger *slog.Logger
}

// NewAdapter wraps l; nil wraps the global logger at call time
func NewAdapter(l *slog.Logger) *Adapter {
	return &Adapter{Logger: l}
}

func (a *Adapter) log() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return L
}

func (a *Adapter) Debugf(format string, args ...interface{}) {
	a.log().Debug(fmt.Sprintf(format, args...))
}

func (a *Adapter) Infof(format string, args ...interface{}) {
	a.log().Info(fmt.Sprintf(format, args...))
}

func (a *Adapter) Warnf(format string, args ...interface{}) {
	a.log().Warn(fmt.Sprintf(format, args...))
}

func (a *Adapter) Errorf(format string, args ...interface{}) {
	a.log().Error(fmt.Sprintf(format, args...))
}
