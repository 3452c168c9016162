// Package logging is a small wrapper around zerolog shared by the host and
// the daemon. Library packages (edsig, contract, abi, storage) do not log.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// LogOptions configures a Logger.
type LogOptions struct {
	Level  string    // "debug", "info", "warn", "error"; default "info"
	Format string    // "json" or "text"; default "text"
	Output io.Writer // default os.Stderr
}

// Logger wraps zerolog.Logger with key/value helpers.
type Logger struct {
	logger zerolog.Logger
}

// ParseLevel maps a level name to a zerolog level. The empty string is info.
func ParseLevel(s string) (zerolog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel, fmt.Errorf("logging: invalid level %q", s)
	}
	return level, nil
}

// NewLogger builds a Logger. The level is applied to this logger only, so
// tests and embedded hosts do not fight over zerolog's global level.
func NewLogger(opts LogOptions) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	switch opts.Format {
	case "json":
	case "", "text":
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "2006-01-02 15:04:05",
		}
	default:
		return nil, fmt.Errorf("logging: invalid format %q", opts.Format)
	}

	return &Logger{
		logger: zerolog.New(out).Level(level).With().Timestamp().Logger(),
	}, nil
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(keyValues ...interface{}) *Logger {
	return &Logger{logger: l.logger.With().Fields(keyValues).Logger()}
}

func (l *Logger) Debug(msg string, keyValues ...interface{}) {
	if e := l.logger.Debug(); e.Enabled() {
		e.Fields(keyValues).Msg(msg)
	}
}

func (l *Logger) Info(msg string, keyValues ...interface{}) {
	l.logger.Info().Fields(keyValues).Msg(msg)
}

func (l *Logger) Warn(msg string, keyValues ...interface{}) {
	l.logger.Warn().Fields(keyValues).Msg(msg)
}

// Error records a failure together with err.
func (l *Logger) Error(err error, msg string, keyValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keyValues).Msg(msg)
}
