package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
)

type Config struct {
	Level      Level
	TimeFormat string
	Output     io.Writer
	// JSON emits structured output instead of the console writer.
	// Workers log to stdout for humans; set JSON when shipping to a
	// collector.
	JSON bool
}

// Logger is a thin zerolog wrapper with variadic key-value fields, the
// shape the background jobs and the outbox processor log through.
type Logger struct {
	zl zerolog.Logger
}

func NewLogger(cfg *Config) *Logger {
	if cfg == nil {
		cfg = &Config{
			Level:      InfoLevel,
			TimeFormat: time.RFC3339,
			Output:     os.Stdout,
		}
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	out := cfg.Output
	if !cfg.JSON {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: cfg.TimeFormat}
	}

	zl := zerolog.New(out).Level(cfg.Level).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// WithComponent returns a child logger tagged with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", name).Logger()}
}

// WithFields returns a child logger carrying the given fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{zl: l.zl.With().Fields(fields).Logger()}
}

func (l *Logger) Debug(msg string, kv ...interface{}) {
	l.zl.Debug().Fields(kv).Msg(msg)
}

func (l *Logger) Info(msg string, kv ...interface{}) {
	l.zl.Info().Fields(kv).Msg(msg)
}

func (l *Logger) Warn(msg string, kv ...interface{}) {
	l.zl.Warn().Fields(kv).Msg(msg)
}

func (l *Logger) Error(err error, msg string, kv ...interface{}) {
	l.zl.Error().Err(err).Fields(kv).Msg(msg)
}

func (l *Logger) Fatal(err error, msg string, kv ...interface{}) {
	l.zl.Fatal().Err(err).Fields(kv).Msg(msg)
}
