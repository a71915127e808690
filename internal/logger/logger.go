package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Logger writes one JSON object per event, tagged with the service and
// host so a till's log can be shipped alongside others.
type Logger struct {
	service  string
	hostname string
	handler  *slog.Logger
}

// New creates a logger writing to w at the given minimum level
func New(service string, level slog.Level, w io.Writer) *Logger {
	hostname, _ := os.Hostname()

	handler := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))

	return &Logger{
		service:  service,
		hostname: hostname,
		handler:  handler,
	}
}

// Nop discards everything; used by tests and optional wiring
func Nop() *Logger {
	return New("nop", slog.LevelError+1, io.Discard)
}

// ParseLevel maps a config string onto a slog level
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// GenerateRequestID returns a fresh correlation id
func GenerateRequestID() string {
	return uuid.NewString()
}

func (l *Logger) log(level slog.Level, action, requestID, message string, fields map[string]any, extra ...slog.Attr) {
	attrs := []slog.Attr{
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		slog.String("service", l.service),
		slog.String("hostname", l.hostname),
		slog.String("action", action),
		slog.String("request_id", requestID),
	}
	if len(fields) > 0 {
		details := make([]any, 0, len(fields))
		for k, v := range fields {
			details = append(details, slog.Any(k, v))
		}
		attrs = append(attrs, slog.Group("details", details...))
	}
	attrs = append(attrs, extra...)
	l.handler.LogAttrs(context.TODO(), level, message, attrs...)
}

func (l *Logger) Debug(action, requestID, message string, fields map[string]any) {
	l.log(slog.LevelDebug, action, requestID, message, fields)
}

func (l *Logger) Info(action, requestID, message string, fields map[string]any) {
	l.log(slog.LevelInfo, action, requestID, message, fields)
}

func (l *Logger) Warn(action, requestID, message string, err error, fields map[string]any) {
	var extra []slog.Attr
	if err != nil {
		extra = append(extra, slog.String("error", err.Error()))
	}
	l.log(slog.LevelWarn, action, requestID, message, fields, extra...)
}

func (l *Logger) Error(action, requestID, message string, err error, fields map[string]any) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	l.log(slog.LevelError, action, requestID, message, fields,
		slog.Group("error",
			slog.String("msg", msg),
			slog.String("stack", string(debug.Stack())),
		),
	)
}
