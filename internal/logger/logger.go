package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var (
	base = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	logFile *os.File
)

// InitLogging configures the package logger. With an empty path logs go to
// stderr in console format, otherwise JSON lines are appended to path.
// A log file opened by an earlier call is closed.
func InitLogging(path, level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	var f *os.File
	if path != "" {
		if f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		out = f
	}

	base = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	return nil
}

// Close closes the log file, if any, and sends further logs to stderr.
func Close() error {
	if logFile == nil {
		return nil
	}
	base = base.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	err := logFile.Close()
	logFile = nil
	return err
}

// SetOutput replaces the package logger, keeping its level.
func SetOutput(w io.Writer) {
	base = base.Output(w)
}

// Logger returns the logger attached to ctx, or the package logger.
func Logger(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
			return l
		}
	}
	return &base
}

func DebugLog(ctx context.Context, format string, args ...interface{}) {
	Logger(ctx).Debug().Msgf(format, args...)
}

func InfoLog(ctx context.Context, format string, args ...interface{}) {
	Logger(ctx).Info().Msgf(format, args...)
}

func WarnLog(ctx context.Context, format string, args ...interface{}) {
	Logger(ctx).Warn().Msgf(format, args...)
}

func ErrorLog(ctx context.Context, format string, args ...interface{}) {
	Logger(ctx).Error().Msgf(format, args...)
}
