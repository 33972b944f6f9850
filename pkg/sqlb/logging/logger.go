package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// Logger is the logging contract used across sqlb.
type Logger interface {
	Debug(args ...any)
	Debugf(format string, args ...any)
	Log(args ...any)
	Logf(format string, args ...any)
	Info(args ...any)
	Infof(format string, args ...any)
	Notice(args ...any)
	Noticef(format string, args ...any)
	Warn(args ...any)
	Warnf(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	ChangeLevel(level Level)
}

// PrettyPrint is implemented by log messages that know how to render
// themselves on a terminal.
type PrettyPrint interface {
	PrettyPrint(writer io.Writer)
}

type logEntry struct {
	Level   Level     `json:"level"`
	Time    time.Time `json:"time"`
	Message any       `json:"message"`
	TraceID string    `json:"trace_id,omitempty"`
}

func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

type logger struct {
	mu         sync.Mutex
	level      Level
	normalOut  io.Writer
	errorOut   io.Writer
	isTerminal bool
	exit       func(code int)
}

// NewLogger returns a logger writing to stdout, and to stderr from ERROR up.
// Output is JSON lines unless stdout is a terminal.
func NewLogger(level Level) Logger {
	return &logger{
		level:      level,
		normalOut:  os.Stdout,
		errorOut:   os.Stderr,
		isTerminal: checkIfTerminal(os.Stdout),
		exit:       os.Exit,
	}
}

// NewFileLogger appends JSON lines to path. An empty path discards output.
func NewFileLogger(path string) Logger {
	l := &logger{level: DEBUG, normalOut: io.Discard, errorOut: io.Discard, exit: os.Exit}

	if path == "" {
		return l
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return l
	}

	l.normalOut, l.errorOut = f, f

	return l
}

func checkIfTerminal(w io.Writer) bool {
	switch v := w.(type) {
	case *os.File:
		return term.IsTerminal(int(v.Fd()))
	default:
		return false
	}
}

func (l *logger) logf(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	out := l.normalOut
	if level >= ERROR {
		out = l.errorOut
	}

	args, traceID := extractTraceID(args)

	entry := logEntry{Level: level, Time: time.Now()}

	switch {
	case format != "":
		entry.Message = fmt.Sprintf(format, args...)
	case len(args) == 1:
		entry.Message = args[0]
	default:
		entry.Message = fmt.Sprint(args...)
	}

	if l.isTerminal {
		l.prettyPrint(out, &entry, traceID)
	} else {
		entry.TraceID = traceID
		_ = json.NewEncoder(out).Encode(entry)
	}

	if level == FATAL {
		l.exit(1)
	}
}

func (l *logger) prettyPrint(out io.Writer, e *logEntry, traceID string) {
	fmt.Fprintf(out, "\u001B[38;5;%dm%s\u001B[0m [%s] ", e.Level.color(), e.Level.String()[:4], e.Time.Format(time.TimeOnly))

	if traceID != "" {
		fmt.Fprintf(out, "\u001B[38;5;8m%s\u001B[0m ", traceID)
	}

	if p, ok := e.Message.(PrettyPrint); ok {
		p.PrettyPrint(out)
		return
	}

	fmt.Fprintf(out, "%v\n", e.Message)
}

// extractTraceID removes the trace marker appended by ContextLogger.
func extractTraceID(args []any) ([]any, string) {
	if len(args) == 0 {
		return args, ""
	}

	m, ok := args[len(args)-1].(map[string]any)
	if !ok {
		return args, ""
	}

	id, ok := m[traceIDKey].(string)
	if !ok {
		return args, ""
	}

	return args[:len(args)-1], id
}

func (l *logger) logfWithSkip(_ int, level Level, format string, args ...any) {
	l.logf(level, format, args...)
}

func (l *logger) Debug(args ...any)                  { l.logf(DEBUG, "", args...) }
func (l *logger) Debugf(format string, args ...any)  { l.logf(DEBUG, format, args...) }
func (l *logger) Log(args ...any)                    { l.logf(INFO, "", args...) }
func (l *logger) Logf(format string, args ...any)    { l.logf(INFO, format, args...) }
func (l *logger) Info(args ...any)                   { l.logf(INFO, "", args...) }
func (l *logger) Infof(format string, args ...any)   { l.logf(INFO, format, args...) }
func (l *logger) Notice(args ...any)                 { l.logf(NOTICE, "", args...) }
func (l *logger) Noticef(format string, args ...any) { l.logf(NOTICE, format, args...) }
func (l *logger) Warn(args ...any)                   { l.logf(WARN, "", args...) }
func (l *logger) Warnf(format string, args ...any)   { l.logf(WARN, format, args...) }
func (l *logger) Error(args ...any)                  { l.logf(ERROR, "", args...) }
func (l *logger) Errorf(format string, args ...any)  { l.logf(ERROR, format, args...) }
func (l *logger) Fatal(args ...any)                  { l.logf(FATAL, "", args...) }
func (l *logger) Fatalf(format string, args ...any)  { l.logf(FATAL, format, args...) }

func (l *logger) ChangeLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.level = level
}
