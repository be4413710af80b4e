// Package logger wraps log/slog with the event helpers the server emits.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	UserIDKey    contextKey = "user_id"
)

type Logger struct {
	*slog.Logger
}

// New logs text at debug level in development and JSON at info level otherwise.
func New(env string) *Logger {
	return NewWriter(env, os.Stdout)
}

func NewWriter(env string, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler
	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return &Logger{Logger: slog.New(handler)}
}

// Nop discards everything. Handlers fall back to it when no logger is injected.
func Nop() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	out := l
	if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
		out = &Logger{Logger: out.With(slog.String("request_id", id))}
	}
	if id, ok := ctx.Value(UserIDKey).(string); ok && id != "" {
		out = &Logger{Logger: out.With(slog.String("user_id", id))}
	}
	return out
}

func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

func (l *Logger) HTTPError(method, path string, status int, err error, clientIP string) {
	l.Error("http_error",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.String("error", err.Error()),
		slog.String("client_ip", clientIP),
	)
}

func (l *Logger) AuthEvent(event, email string, success bool, reason string) {
	if success {
		l.Info("auth_event", slog.String("event", event), slog.String("email", email), slog.Bool("success", true))
		return
	}
	l.Warn("auth_event",
		slog.String("event", event),
		slog.String("email", email),
		slog.Bool("success", false),
		slog.String("reason", reason),
	)
}

func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error", slog.String("operation", operation), slog.String("error", err.Error()))
}

func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded", slog.String("client_ip", clientIP), slog.String("path", path))
}

// Calculation records one engine run. An empty code means success.
func (l *Logger) Calculation(tool, errorCode string, latencyMs float64) {
	if errorCode == "" {
		l.Debug("calculation", slog.String("tool", tool), slog.Float64("latency_ms", latencyMs))
		return
	}
	l.Info("calculation",
		slog.String("tool", tool),
		slog.String("error_code", errorCode),
		slog.Float64("latency_ms", latencyMs),
	)
}
