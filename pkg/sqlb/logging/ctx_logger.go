package logging

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

const traceIDKey = "__trace_id__"

// loggerWithSkip is implemented by loggers that accept a level directly.
type loggerWithSkip interface {
	logfWithSkip(skip int, level Level, format string, args ...any)
}

// ContextLogger wraps a Logger and tags every message with the
// OpenTelemetry trace id found in the context, if any.
type ContextLogger struct {
	base    Logger
	traceID string
}

func NewContextLogger(ctx context.Context, base Logger) *ContextLogger {
	var traceID string

	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		traceID = sc.TraceID().String()
	}

	return &ContextLogger{base: base, traceID: traceID}
}

func (l *ContextLogger) withTraceInfo(args ...any) []any {
	if l.traceID != "" {
		return append(args, map[string]any{traceIDKey: l.traceID})
	}

	return args
}

func (l *ContextLogger) logWithSkip(level Level, format string, args ...any) {
	if ls, ok := l.base.(loggerWithSkip); ok {
		ls.logfWithSkip(3, level, format, l.withTraceInfo(args...)...)
		return
	}

	args = l.withTraceInfo(args...)

	switch level {
	case DEBUG:
		pick(format, l.base.Debug, l.base.Debugf)(format, args...)
	case INFO:
		pick(format, l.base.Info, l.base.Infof)(format, args...)
	case NOTICE:
		pick(format, l.base.Notice, l.base.Noticef)(format, args...)
	case WARN:
		pick(format, l.base.Warn, l.base.Warnf)(format, args...)
	case ERROR:
		pick(format, l.base.Error, l.base.Errorf)(format, args...)
	case FATAL:
		pick(format, l.base.Fatal, l.base.Fatalf)(format, args...)
	}
}

func pick(format string, plain func(...any), formatted func(string, ...any)) func(string, ...any) {
	if format == "" {
		return func(_ string, args ...any) { plain(args...) }
	}

	return formatted
}

func (l *ContextLogger) Debug(args ...any)             { l.logWithSkip(DEBUG, "", args...) }
func (l *ContextLogger) Debugf(f string, args ...any)  { l.logWithSkip(DEBUG, f, args...) }
func (l *ContextLogger) Log(args ...any)               { l.logWithSkip(INFO, "", args...) }
func (l *ContextLogger) Logf(f string, args ...any)    { l.logWithSkip(INFO, f, args...) }
func (l *ContextLogger) Info(args ...any)              { l.logWithSkip(INFO, "", args...) }
func (l *ContextLogger) Infof(f string, args ...any)   { l.logWithSkip(INFO, f, args...) }
func (l *ContextLogger) Notice(args ...any)            { l.logWithSkip(NOTICE, "", args...) }
func (l *ContextLogger) Noticef(f string, args ...any) { l.logWithSkip(NOTICE, f, args...) }
func (l *ContextLogger) Warn(args ...any)              { l.logWithSkip(WARN, "", args...) }
func (l *ContextLogger) Warnf(f string, args ...any)   { l.logWithSkip(WARN, f, args...) }
func (l *ContextLogger) Error(args ...any)             { l.logWithSkip(ERROR, "", args...) }
func (l *ContextLogger) Errorf(f string, args ...any)  { l.logWithSkip(ERROR, f, args...) }
func (l *ContextLogger) Fatal(args ...any)             { l.logWithSkip(FATAL, "", args...) }
func (l *ContextLogger) Fatalf(f string, args ...any)  { l.logWithSkip(FATAL, f, args...) }
func (l *ContextLogger) ChangeLevel(level Level)       { l.base.ChangeLevel(level) }
