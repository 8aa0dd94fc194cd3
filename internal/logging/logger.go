// Package logging builds the JSON line logger shared by the server, middleware and migrations.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/m-mizutani/masq"
)

// TimeKey replaces slog's default "time" key so log lines keep the "ts" field.
const TimeKey = "ts"

// New returns a JSON logger writing to stdout.
func New(loc *time.Location, level string) *slog.Logger {
	return NewWithWriter(os.Stdout, loc, level)
}

// NewWithWriter returns a JSON logger writing one object per line to w.
// Timestamps are rendered in loc (UTC when nil) and sensitive attributes are redacted.
func NewWithWriter(w io.Writer, loc *time.Location, level string) *slog.Logger {
	if loc == nil {
		loc = time.UTC
	}
	redact := masq.New(redactOptions()...)

	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 {
				switch a.Key {
				case slog.TimeKey:
					return slog.String(TimeKey, a.Value.Time().In(loc).Format(time.RFC3339Nano))
				case slog.LevelKey:
					return slog.String(slog.LevelKey, strings.ToLower(a.Value.String()))
				}
			}
			return redact(groups, a)
		},
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func redactOptions() []masq.Option {
	return []masq.Option{
		masq.WithFieldName("password"),
		masq.WithFieldName("secret"),
		masq.WithFieldName("dsn"),
		masq.WithFieldName("access_key"),
		masq.WithFieldName("secret_key"),
		masq.WithFieldName("authorization"),
		masq.WithFieldPrefix("secret"),
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
