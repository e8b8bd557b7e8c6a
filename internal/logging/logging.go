package logging

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the package-level structured logger.
var Logger *slog.Logger

// Verbose reports whether debug logging is enabled.
var Verbose bool

func init() {
	Setup(false, false, nil)
}

// Setup configures the package logger. Debug messages are only emitted in
// verbose mode. A nil writer logs to stderr, keeping stdout free for
// configuration output.
func Setup(verbose, jsonOutput bool, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}

	Verbose = verbose

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	Logger = slog.New(handler)
}

// Debug logs a message at debug level.
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Info logs a message at info level.
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a message at warn level.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Error logs a message at error level.
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// With returns a logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	return Logger.With(args...)
}
