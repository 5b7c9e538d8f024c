package app

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel is a zerolog level restricted to the four the session uses.
type LogLevel int8

const (
	LogLevelDebug = LogLevel(zerolog.DebugLevel)
	LogLevelInfo  = LogLevel(zerolog.InfoLevel)
	LogLevelWarn  = LogLevel(zerolog.WarnLevel)
	LogLevelError = LogLevel(zerolog.ErrorLevel)
)

func (l LogLevel) String() string {
	return zerolog.Level(l).String()
}

// ParseLogLevel accepts zerolog level names in any case. Levels below
// debug fold into debug, levels above error into error, anything else is
// info.
func ParseLogLevel(s string) LogLevel {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	switch {
	case err != nil || lvl == zerolog.NoLevel || lvl == zerolog.Disabled:
		return LogLevelInfo
	case lvl < zerolog.DebugLevel:
		return LogLevelDebug
	case lvl > zerolog.ErrorLevel:
		return LogLevelError
	}
	return LogLevel(lvl)
}

// LogFormat is "console" for key=value lines or "json".
type LogFormat string

const (
	LogFormatConsole LogFormat = "console"
	LogFormatJSON    LogFormat = "json"
)

// LoggerConfig configures NewLogger. The zero value logs everything to
// stderr in console format.
type LoggerConfig struct {
	Level  LogLevel
	Output io.Writer
	Format LogFormat

	// Prefix becomes the "service" field of every entry.
	Prefix string
}

// Logger is a structured logger. Loggers derived with the With methods
// share the minimum level of their parent.
type Logger struct {
	zl  zerolog.Logger
	min *atomic.Int32 // nil for NullLogger
}

// NullLogger drops everything.
var NullLogger = &Logger{zl: zerolog.Nop()}

func NewLogger(cfg LoggerConfig) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format != LogFormatJSON {
		out = zerolog.ConsoleWriter{Out: out, NoColor: true, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).With().Timestamp()
	if cfg.Prefix != "" {
		ctx = ctx.Str("service", cfg.Prefix)
	}
	l := &Logger{zl: ctx.Logger(), min: new(atomic.Int32)}
	l.min.Store(int32(cfg.Level))
	return l
}

func (l *Logger) with(fn func(zerolog.Context) zerolog.Context) *Logger {
	if l.min == nil {
		return l
	}
	return &Logger{zl: fn(l.zl.With()).Logger(), min: l.min}
}

func (l *Logger) WithField(key string, value any) *Logger {
	return l.with(func(c zerolog.Context) zerolog.Context { return c.Interface(key, value) })
}

func (l *Logger) WithFields(fields map[string]any) *Logger {
	return l.with(func(c zerolog.Context) zerolog.Context { return c.Fields(fields) })
}

// WithComponent tags entries with the part of the program that wrote them.
func (l *Logger) WithComponent(component string) *Logger {
	return l.with(func(c zerolog.Context) zerolog.Context { return c.Str("component", component) })
}

func (l *Logger) WithError(err error) *Logger {
	return l.with(func(c zerolog.Context) zerolog.Context { return c.Err(err) })
}

// SetLevel changes the minimum level of l, its parent and every logger
// derived from either.
func (l *Logger) SetLevel(level LogLevel) {
	if l.min != nil {
		l.min.Store(int32(level))
	}
}

func (l *Logger) Level() LogLevel {
	if l.min == nil {
		return LogLevel(zerolog.Disabled)
	}
	return LogLevel(l.min.Load())
}

// Debug, Info, Warn and Error format msg with args like fmt.Sprintf when
// args are given.
func (l *Logger) Debug(msg string, args ...any) { l.write(LogLevelDebug, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.write(LogLevelInfo, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.write(LogLevelWarn, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.write(LogLevelError, msg, args) }

func (l *Logger) write(level LogLevel, msg string, args []any) {
	if l == nil || l.min == nil || int32(level) < l.min.Load() {
		return
	}
	e := l.zl.WithLevel(zerolog.Level(level))
	if len(args) == 0 {
		e.Msg(msg)
		return
	}
	e.Msgf(msg, args...)
}
