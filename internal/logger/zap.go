// Package logger builds the service's zap logger, optionally teed into Sentry.
package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const sentryFlushTimeout = 2 * time.Second

// tagKeys are log fields promoted to Sentry tags so events can be grouped
// by request and by the upstream endpoint or cache namespace involved.
var tagKeys = map[string]bool{
	"request_id": true,
	"endpoint":   true,
	"namespace":  true,
}

// Config holds logger configuration.
type Config struct {
	Service string // added to every entry as "service"
	Level   string // debug, info, warn, error
	Format  string // json, console
	Output  string // stdout, stderr, or file path
}

// SentryConfig holds Sentry configuration.
type SentryConfig struct {
	Enabled     bool
	DSN         string
	Environment string
	SampleRate  float64
}

// Logger is a zap.Logger whose Sync also flushes Sentry.
type Logger struct {
	*zap.Logger
	sentryEnabled bool
}

// New creates a Logger. Sentry receives error-level entries only when it is
// enabled and a DSN is configured. An unknown level falls back to info.
func New(cfg Config, sentryCfg SentryConfig) (*Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	out, err := newWriteSyncer(cfg.Output)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(newEncoder(cfg.Format), out, level)

	sentryEnabled := sentryCfg.Enabled && sentryCfg.DSN != ""
	if sentryEnabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              sentryCfg.DSN,
			Environment:      sentryCfg.Environment,
			SampleRate:       sentryCfg.SampleRate,
			AttachStacktrace: true,
		}); err != nil {
			return nil, fmt.Errorf("init sentry: %w", err)
		}
		core = zapcore.NewTee(core, &sentryCore{LevelEnabler: zapcore.ErrorLevel})
	}

	opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
	if cfg.Service != "" {
		opts = append(opts, zap.Fields(zap.String("service", cfg.Service)))
	}

	return &Logger{
		Logger:        zap.New(core, opts...),
		sentryEnabled: sentryEnabled,
	}, nil
}

// Sync flushes buffered log entries and queued Sentry events.
func (l *Logger) Sync() error {
	if l.sentryEnabled {
		sentry.Flush(sentryFlushTimeout)
	}

	return l.Logger.Sync()
}

func newEncoder(format string) zapcore.Encoder {
	ec := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if format == "console" {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}

	return zapcore.NewJSONEncoder(ec)
}

func newWriteSyncer(output string) (zapcore.WriteSyncer, error) {
	switch output {
	case "", "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	}

	file, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log output %s: %w", output, err)
	}

	return zapcore.AddSync(file), nil
}

// sentryCore is a zapcore.Core that turns entries into Sentry events.
type sentryCore struct {
	zapcore.LevelEnabler
	fields []zapcore.Field
}

func (c *sentryCore) With(fields []zapcore.Field) zapcore.Core {
	return &sentryCore{
		LevelEnabler: c.LevelEnabler,
		fields:       append(append([]zapcore.Field(nil), c.fields...), fields...),
	}
}

func (c *sentryCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}

	return checked
}

func (c *sentryCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	extra := fieldsToMap(append(append([]zapcore.Field(nil), c.fields...), fields...))

	event := sentry.NewEvent()
	event.Level = zapLevelToSentry(entry.Level)
	event.Message = entry.Message
	event.Logger = entry.LoggerName
	event.Timestamp = entry.Time
	event.Tags = tagsFrom(extra)
	event.Extra = extra

	sentry.CaptureEvent(event)

	return nil
}

func (c *sentryCore) Sync() error {
	sentry.Flush(sentryFlushTimeout)

	return nil
}

func zapLevelToSentry(level zapcore.Level) sentry.Level {
	switch level {
	case zapcore.DebugLevel:
		return sentry.LevelDebug
	case zapcore.InfoLevel:
		return sentry.LevelInfo
	case zapcore.WarnLevel:
		return sentry.LevelWarning
	case zapcore.ErrorLevel:
		return sentry.LevelError
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return sentry.LevelFatal
	default:
		return sentry.LevelInfo
	}
}

// fieldsToMap encodes zap fields the same way the JSON encoder sees them.
func fieldsToMap(fields []zapcore.Field) map[string]any {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}

	return enc.Fields
}

func tagsFrom(extra map[string]any) map[string]string {
	tags := make(map[string]string)
	for key, v := range extra {
		if s, ok := v.(string); ok && tagKeys[key] && s != "" {
			tags[key] = s
		}
	}

	return tags
}
