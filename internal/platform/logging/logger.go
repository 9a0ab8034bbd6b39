// Package logging wraps zap behind a key/value API shared by every package.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

// Logger takes alternating key/value args. The *Context variants add
// trace_id and span_id when ctx carries a valid span. A nil *Logger writes
// to Default().
type Logger struct {
	core   *zap.Logger
	synced *atomic.Bool
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(NewNop())
}

// ParseLevel maps debug, info, warn(ing) and error; anything else is info.
func ParseLevel(v string) Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	}
	return LevelInfo
}

func NewJSON(level Level) *Logger {
	return NewJSONWriter(os.Stdout, level)
}

// NewJSONWriter logs one JSON object per line to w.
func NewJSONWriter(w io.Writer, level Level) *Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	enc.EncodeDuration = zapcore.StringDurationEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(zapcore.AddSync(w)), level)
	// skip log() and the exported level method so caller points at user code
	return FromZap(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2), zap.AddStacktrace(LevelError)))
}

func NewNop() *Logger {
	return FromZap(nil)
}

func FromZap(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{core: z, synced: new(atomic.Bool)}
}

func Default() *Logger {
	return defaultLogger.Load()
}

func SetDefault(logger *Logger) {
	if logger == nil {
		logger = NewNop()
	}
	defaultLogger.Store(logger)
}

func (l *Logger) resolve() *Logger {
	if l == nil || l.core == nil {
		return Default()
	}
	return l
}

// Zap exposes the underlying logger for libraries that take their own
// logger type, e.g. Sugar() for pyroscope.
func (l *Logger) Zap() *zap.Logger {
	return l.resolve().core
}

// Sync flushes the underlying writer once per logger tree. Children made by
// With and Named share the flag with their parent.
func (l *Logger) Sync() error {
	if l == nil || l.core == nil || !l.synced.CompareAndSwap(false, true) {
		return nil
	}
	err := l.core.Sync()
	if err == nil || isStdStreamSyncError(err) {
		return nil
	}
	return fmt.Errorf("sync logger: %w", err)
}

func (l *Logger) derive(z *zap.Logger) *Logger {
	return &Logger{core: z, synced: l.synced}
}

func (l *Logger) With(args ...any) *Logger {
	base := l.resolve()
	return base.derive(base.core.With(zapFields(args, 0)...))
}

// Named returns a child logger whose entries carry the component name.
func (l *Logger) Named(name string) *Logger {
	base := l.resolve()
	return base.derive(base.core.Named(name))
}

func (l *Logger) Debug(msg string, args ...any) { l.log(nil, LevelDebug, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.log(nil, LevelInfo, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(nil, LevelWarn, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.log(nil, LevelError, msg, args) }

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, LevelDebug, msg, args)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, LevelInfo, msg, args)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, LevelWarn, msg, args)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, LevelError, msg, args)
}

func (l *Logger) log(ctx context.Context, level Level, msg string, args []any) {
	ce := l.resolve().core.Check(level, msg)
	if ce == nil {
		return
	}

	var span trace.SpanContext
	if ctx != nil {
		span = trace.SpanContextFromContext(ctx)
	}
	if !span.IsValid() {
		ce.Write(zapFields(args, 0)...)
		return
	}

	fields := zapFields(args, 2)
	fields = append(fields,
		zap.String("trace_id", span.TraceID().String()),
		zap.String("span_id", span.SpanID().String()),
	)
	ce.Write(fields...)
}

// zapFields pairs up args. A non-string or empty key is logged as "arg"; a
// trailing key without a value is logged as null. extra reserves capacity.
func zapFields(args []any, extra int) []zap.Field {
	if len(args) == 0 && extra == 0 {
		return nil
	}

	out := make([]zap.Field, 0, (len(args)+1)/2+extra)
	for len(args) > 0 {
		key, _ := args[0].(string)
		if key == "" {
			key = "arg"
		}
		if len(args) == 1 {
			out = append(out, zap.Any(key, nil))
			break
		}
		out = append(out, field(key, args[1]))
		args = args[2:]
	}
	return out
}

func field(key string, value any) zap.Field {
	switch v := value.(type) {
	case error:
		return zap.NamedError(key, v)
	case fmt.Stringer:
		return zap.Stringer(key, v)
	}
	return zap.Any(key, value)
}

// stdout and stderr cannot be fsynced on most platforms.
func isStdStreamSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "invalid argument") || strings.Contains(msg, "inappropriate ioctl")
}
