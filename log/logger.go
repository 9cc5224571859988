// Copyright (c) 2026 The Harvester developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

const (
	LevelCrit  = slog.Level(12)
	LevelError = slog.LevelError
	LevelWarn  = slog.LevelWarn
	LevelInfo  = slog.LevelInfo
	LevelDebug = slog.LevelDebug
	LevelTrace = slog.Level(-8)

	levelMaxVerbosity = slog.Level(-1 << 31)
)

// LevelString returns a 5-character string containing the name of a level.
func LevelString(l slog.Level) string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelCrit:
		return "crit"
	default:
		return "unknown"
	}
}

// Logger writes key/value pairs to a Handler.
type Logger interface {
	// With returns a new Logger that has this logger's attributes plus the given attributes.
	With(ctx ...any) Logger

	// Log logs a message at the specified level with context key/value pairs.
	Log(level slog.Level, msg string, ctx ...any)

	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)

	// Crit logs a message at the crit level and exits the process.
	Crit(msg string, ctx ...any)

	// Handler returns the underlying handler of the logger.
	Handler() slog.Handler
}

type logger struct {
	inner *slog.Logger
}

// NewLogger returns a logger with the specified handler set.
func NewLogger(h slog.Handler) Logger {
	return &logger{slog.New(h)}
}

func (l *logger) Handler() slog.Handler {
	return l.inner.Handler()
}

func (l *logger) With(ctx ...any) Logger {
	return &logger{l.inner.With(ctx...)}
}

func (l *logger) Log(level slog.Level, msg string, ctx ...any) {
	l.write(level, msg, ctx...)
}

func (l *logger) Trace(msg string, ctx ...any) { l.write(LevelTrace, msg, ctx...) }
func (l *logger) Debug(msg string, ctx ...any) { l.write(LevelDebug, msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.write(LevelInfo, msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.write(LevelWarn, msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.write(LevelError, msg, ctx...) }

func (l *logger) Crit(msg string, ctx ...any) {
	l.write(LevelCrit, msg, ctx...)
	os.Exit(1)
}

func (l *logger) write(level slog.Level, msg string, ctx ...any) {
	l.inner.Log(context.Background(), level, msg, ctx...)
}

var root atomic.Value

func init() {
	root.Store(&logger{slog.New(DiscardHandler())})
}

// SetDefault sets the default global logger.
func SetDefault(l Logger) {
	root.Store(l.(*logger))
	slog.SetDefault(l.(*logger).inner)
}

// Root returns the root logger.
func Root() Logger {
	return root.Load().(Logger)
}

// WithContext returns a logger with the given attributes attached. The
// returned logger tracks the root logger, so package-level loggers created
// before SetDefault still write to the handler installed later.
func WithContext(ctx ...any) Logger {
	return &ctxLogger{attrs: ctx}
}

type ctxLogger struct {
	attrs []any
}

func (l *ctxLogger) Handler() slog.Handler {
	return Root().Handler()
}

func (l *ctxLogger) With(ctx ...any) Logger {
	attrs := l.attrs[:len(l.attrs):len(l.attrs)]
	return &ctxLogger{attrs: append(attrs, ctx...)}
}

func (l *ctxLogger) Log(level slog.Level, msg string, ctx ...any) {
	Root().With(l.attrs...).Log(level, msg, ctx...)
}

func (l *ctxLogger) Trace(msg string, ctx ...any) { l.Log(LevelTrace, msg, ctx...) }
func (l *ctxLogger) Debug(msg string, ctx ...any) { l.Log(LevelDebug, msg, ctx...) }
func (l *ctxLogger) Info(msg string, ctx ...any)  { l.Log(LevelInfo, msg, ctx...) }
func (l *ctxLogger) Warn(msg string, ctx ...any)  { l.Log(LevelWarn, msg, ctx...) }
func (l *ctxLogger) Error(msg string, ctx ...any) { l.Log(LevelError, msg, ctx...) }

func (l *ctxLogger) Crit(msg string, ctx ...any) {
	l.Log(LevelCrit, msg, ctx...)
	os.Exit(1)
}

// Trace is a convenient alias for Root().Trace.
func Trace(msg string, ctx ...any) { Root().Trace(msg, ctx...) }

// Debug is a convenient alias for Root().Debug.
func Debug(msg string, ctx ...any) { Root().Debug(msg, ctx...) }

// Info is a convenient alias for Root().Info.
func Info(msg string, ctx ...any) { Root().Info(msg, ctx...) }

// Warn is a convenient alias for Root().Warn.
func Warn(msg string, ctx ...any) { Root().Warn(msg, ctx...) }

// Error is a convenient alias for Root().Error.
func Error(msg string, ctx ...any) { Root().Error(msg, ctx...) }

// Crit is a convenient alias for Root().Crit.
func Crit(msg string, ctx ...any) { Root().Crit(msg, ctx...) }
