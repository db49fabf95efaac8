package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Level represents logging level
type Level = zerolog.Level

// Logger levels
const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
)

// Config holds logger configuration
type Config struct {
	Level      Level
	TimeFormat string
	Output     io.Writer
	// Console switches to the human readable writer used in development.
	Console bool
	Service string
}

// Logger wraps zerolog.Logger
type Logger struct {
	ZL zerolog.Logger
}

// NewLogger creates a new logger instance
func NewLogger(cfg *Config) *Logger {
	if cfg == nil {
		cfg = &Config{
			Level:      InfoLevel,
			TimeFormat: time.RFC3339,
			Output:     os.Stdout,
			Console:    true,
		}
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	out := cfg.Output
	if cfg.Console {
		out = zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: cfg.TimeFormat,
		}
	}

	ctx := zerolog.New(out).
		Level(cfg.Level).
		With().
		Timestamp().
		Caller()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}

	return &Logger{ZL: ctx.Logger()}
}

// ParseLevel falls back to info for unknown names.
func ParseLevel(name string) Level {
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		return InfoLevel
	}
	return lvl
}

// SetGlobal installs l as the package level zerolog logger.
func SetGlobal(l *Logger) {
	log.Logger = l.ZL
	zerolog.DefaultContextLogger = &log.Logger
}

// WithContext adds context fields to logger
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if rid, ok := ctx.Value(RequestIDKey{}).(string); ok && rid != "" {
		return &Logger{ZL: l.ZL.With().Str("request_id", rid).Logger()}
	}
	return l
}

// WithFields adds fields to logger
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{ZL: l.ZL.With().Fields(fields).Logger()}
}

func (l *Logger) Info(msg string, fields ...interface{}) {
	l.ZL.Info().Fields(fields).Msg(msg)
}

func (l *Logger) Warn(msg string, fields ...interface{}) {
	l.ZL.Warn().Fields(fields).Msg(msg)
}

func (l *Logger) Error(err error, msg string, fields ...interface{}) {
	l.ZL.Error().Err(err).Fields(fields).Msg(msg)
}

func (l *Logger) Fatal(err error, msg string, fields ...interface{}) {
	l.ZL.Fatal().Err(err).Fields(fields).Msg(msg)
}

func (l *Logger) Debug(msg string, fields ...interface{}) {
	l.ZL.Debug().Fields(fields).Msg(msg)
}

// RequestIDKey is the context key the request id middleware stores under.
type RequestIDKey struct{}
