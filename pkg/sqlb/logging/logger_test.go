package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func newTestLogger(level Level) (*logger, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer

	return &logger{level: level, normalOut: &out, errorOut: &errOut, exit: func(int) {}}, &out, &errOut
}

func TestLogger_LevelFiltering(t *testing.T) {
	l, out, errOut := newTestLogger(INFO)

	l.Debug("hidden")
	l.Infof("user %d", 7)
	l.Error("boom")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), `"message":"user 7"`)
	assert.Contains(t, out.String(), `"level":"INFO"`)
	assert.Contains(t, errOut.String(), `"message":"boom"`)

	l.ChangeLevel(DEBUG)
	l.Debug("shown")
	assert.Contains(t, out.String(), "shown")
}

func TestLogger_StructuredMessage(t *testing.T) {
	l, out, _ := newTestLogger(DEBUG)

	l.Debug(map[string]any{"query": "select 1"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
	assert.Equal(t, map[string]any{"query": "select 1"}, entry["message"])
}

type pretty string

func (p pretty) PrettyPrint(w io.Writer) { fmt.Fprintf(w, "PRETTY %s\n", string(p)) }

func TestLogger_TerminalUsesPrettyPrint(t *testing.T) {
	l, out, _ := newTestLogger(DEBUG)
	l.isTerminal = true

	l.Info(pretty("select 1"))

	assert.Contains(t, out.String(), "PRETTY select 1")
}

func TestLogger_FatalExits(t *testing.T) {
	l, _, errOut := newTestLogger(DEBUG)

	code := -1
	l.exit = func(c int) { code = c }

	l.Fatalf("bad %s", "config")

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "bad config")
}

func TestContextLogger_TraceID(t *testing.T) {
	l, out, _ := newTestLogger(DEBUG)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	NewContextLogger(ctx, l).Infof("hello %s", "world")

	assert.Contains(t, out.String(), `"trace_id":"4bf92f3577b34da6a3ce929d0e0e4736"`)
	assert.Contains(t, out.String(), `"message":"hello world"`)
}

func TestContextLogger_NoSpan(t *testing.T) {
	l, out, _ := newTestLogger(DEBUG)

	NewContextLogger(context.Background(), l).Warn("plain")

	assert.NotContains(t, out.String(), "trace_id")
	assert.Contains(t, out.String(), `"level":"WARN"`)
}

func TestGetLevelFromString(t *testing.T) {
	assert.Equal(t, DEBUG, GetLevelFromString("debug"))
	assert.Equal(t, ERROR, GetLevelFromString("ERROR"))
	assert.Equal(t, INFO, GetLevelFromString("unknown"))
}
