package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/angelmondragon/spendwise-backend/pkg/env"
	"github.com/rs/zerolog"
)

// Context field names shared by every service.
const (
	FieldRequestID      = "request_id"
	FieldOrganizationID = "organization_id"
	FieldBusinessUnitID = "business_unit_id"
	FieldConsumerID     = "consumer_id"
)

// Options configures the structured logger.
type Options struct {
	ServiceName string
	Level       zerolog.Level
	WarnStack   bool
	Output      io.Writer
}

// Logger carries a zerolog base and reads per-request fields from the context.
type Logger struct {
	base      *zerolog.Logger
	warnStack bool
}

// Scope identifies who a log line is about. Empty fields are left out.
type Scope struct {
	RequestID      string
	OrganizationID string
	BusinessUnitID string
	ConsumerID     string
}

func (s Scope) fields() map[string]string {
	out := make(map[string]string, 4)
	for key, value := range map[string]string{
		FieldRequestID:      s.RequestID,
		FieldOrganizationID: s.OrganizationID,
		FieldBusinessUnitID: s.BusinessUnitID,
		FieldConsumerID:     s.ConsumerID,
	} {
		if value = strings.TrimSpace(value); value != "" {
			out[key] = value
		}
	}
	return out
}

type ctxKey struct{}

// New writes JSON to Output (stdout by default), or console lines when
// SPENDWISE_LOG_FORMAT=console.
func New(opts Options) *Logger {
	if opts.Level == zerolog.NoLevel {
		opts.Level = zerolog.InfoLevel
	}
	output := opts.Output
	if output == nil {
		output = os.Stdout
	}
	if env.First("json", "SPENDWISE_LOG_FORMAT", "LOG_FORMAT") == "console" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: "15:04:05"}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	base := zerolog.New(output).
		Level(opts.Level).
		With().
		Timestamp().
		Str("service", opts.ServiceName).
		Logger()

	return &Logger{base: &base, warnStack: opts.WarnStack}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	base := zerolog.Nop()
	return &Logger{base: &base}
}

// ParseLevel falls back to info for empty or unknown levels.
func ParseLevel(value string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) from(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if entry, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
			return entry
		}
	}
	return l.base
}

func (l *Logger) with(ctx context.Context, build func(zerolog.Context) zerolog.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	entry := build(l.from(ctx).With()).Logger()
	return context.WithValue(ctx, ctxKey{}, &entry)
}

func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	return l.with(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Interface(key, value)
	})
}

func (l *Logger) WithFields(ctx context.Context, fields map[string]any) context.Context {
	return l.with(ctx, func(c zerolog.Context) zerolog.Context {
		for k, v := range fields {
			c = c.Interface(k, v)
		}
		return c
	})
}

// WithScope attaches the non-empty identifiers of scope.
func (l *Logger) WithScope(ctx context.Context, scope Scope) context.Context {
	return l.with(ctx, func(c zerolog.Context) zerolog.Context {
		for k, v := range scope.fields() {
			c = c.Str(k, v)
		}
		return c
	})
}

func (l *Logger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return l.WithScope(ctx, Scope{RequestID: requestID})
}

func (l *Logger) Debug(ctx context.Context, msg string) {
	l.from(ctx).Debug().Msg(msg)
}

func (l *Logger) Info(ctx context.Context, msg string) {
	l.from(ctx).Info().Msg(msg)
}

func (l *Logger) Warn(ctx context.Context, msg string) {
	event := l.from(ctx).Warn()
	if l.warnStack {
		event = event.Str("stack", stackTrace())
	}
	event.Msg(msg)
}

// Error always records a stack.
func (l *Logger) Error(ctx context.Context, msg string, err error) {
	event := l.from(ctx).Error()
	if err != nil {
		event = event.Err(err)
	}
	event.Str("stack", stackTrace()).Msg(msg)
}

func stackTrace() string {
	return strings.TrimSpace(string(debug.Stack()))
}
