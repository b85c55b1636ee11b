// Package logging provides the structured logger handed to every component
// by the composition root.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"
)

// DefaultPath is the relative path of the plain-text session log.
const DefaultPath = "log.txt"

// Field is a structured logging attribute.
type Field struct {
	Key   string
	Value any
}

// Convenience helpers for common field types.
func String(key, value string) Field      { return Field{Key: key, Value: value} }
func Int(key string, value int) Field     { return Field{Key: key, Value: value} }
func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field   { return Field{Key: key, Value: value} }
func Any(key string, value any) Field     { return Field{Key: key, Value: value} }

// Err records err under the "error" key; a nil error logs as empty.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: ""}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Logger is the logging context passed explicitly to every component.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Field)
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Config controls the handler behind a Logger.
type Config struct {
	Level     string // debug, info, warn, error; anything else is debug
	Format    string // text or json
	AddSource bool   // record the caller's file:line
}

// New returns a Logger writing to w.
func New(w io.Writer, cfg Config) Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}
	if strings.EqualFold(cfg.Format, "json") {
		return &handlerLogger{h: slog.NewJSONHandler(w, opts)}
	}
	return &handlerLogger{h: slog.NewTextHandler(w, opts)}
}

// Open opens the log file at path for appending, creating it if needed, and
// returns a Logger writing to it. The caller owns the returned closer.
func Open(path string, cfg Config) (Logger, io.Closer, error) {
	if path == "" {
		path = DefaultPath
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return New(f, cfg), f, nil
}

// Noop returns a logger that drops everything.
func Noop() Logger { return noopLogger{} }

// OrNoop returns l, or a Noop logger when l is nil.
func OrNoop(l Logger) Logger {
	if l == nil {
		return Noop()
	}
	return l
}

// handlerLogger builds records itself so the source location is the caller
// of Debug/Info/Warn/Error rather than this file.
type handlerLogger struct {
	h slog.Handler
}

func (l *handlerLogger) With(fields ...Field) Logger {
	return &handlerLogger{h: l.h.WithAttrs(attrs(fields))}
}

func (l *handlerLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, slog.LevelDebug, msg, fields)
}

func (l *handlerLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, slog.LevelInfo, msg, fields)
}

func (l *handlerLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, slog.LevelWarn, msg, fields)
}

func (l *handlerLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, slog.LevelError, msg, fields)
}

func (l *handlerLogger) log(ctx context.Context, level slog.Level, msg string, fields []Field) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.h.Enabled(ctx, level) {
		return
	}
	// Skip runtime.Callers, log, and the level method.
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.AddAttrs(attrs(fields)...)
	_ = l.h.Handle(ctx, r)
}

type noopLogger struct{}

func (noopLogger) With(...Field) Logger                    { return noopLogger{} }
func (noopLogger) Debug(context.Context, string, ...Field) {}
func (noopLogger) Info(context.Context, string, ...Field)  {}
func (noopLogger) Warn(context.Context, string, ...Field)  {}
func (noopLogger) Error(context.Context, string, ...Field) {}

func attrs(fields []Field) []slog.Attr {
	out := make([]slog.Attr, len(fields))
	for i, f := range fields {
		out[i] = slog.Any(f.Key, f.Value)
	}
	return out
}

func parseLevel(level string) slog.Level {
	if strings.EqualFold(level, "warning") {
		return slog.LevelWarn
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelDebug
	}
	return l
}
