package logging

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Logger writes one JSON object per line. Every entry carries ts (RFC3339Nano),
// level and msg; callers add arbitrary fields. When the context holds a valid
// span, trace_id and span_id are added so log lines can be joined with
// exported traces.
type Logger struct {
	mu  sync.Mutex
	enc *json.Encoder
	loc *time.Location
}

// New returns a logger writing to stdout in UTC.
func New() *Logger {
	return NewWithWriter(os.Stdout, time.UTC)
}

// NewWithWriter returns a logger writing to w, timestamping in loc.
func NewWithWriter(w io.Writer, loc *time.Location) *Logger {
	if loc == nil {
		loc = time.UTC
	}
	return &Logger{enc: json.NewEncoder(w), loc: loc}
}

// Info logs an informational entry.
func (l *Logger) Info(ctx context.Context, msg string, fields map[string]any) {
	l.log(ctx, "info", msg, fields)
}

// Warn logs a warning entry.
func (l *Logger) Warn(ctx context.Context, msg string, fields map[string]any) {
	l.log(ctx, "warn", msg, fields)
}

// Error logs an error entry. err may be nil.
func (l *Logger) Error(ctx context.Context, msg string, err error, fields map[string]any) {
	if err != nil {
		if fields == nil {
			fields = map[string]any{}
		}
		fields["error"] = err.Error()
	}
	l.log(ctx, "error", msg, fields)
}

func (l *Logger) log(ctx context.Context, level, msg string, fields map[string]any) {
	entry := make(map[string]any, len(fields)+5)
	for k, v := range fields {
		entry[k] = v
	}
	entry["ts"] = time.Now().In(l.loc).Format(time.RFC3339Nano)
	entry["level"] = level
	entry["msg"] = msg

	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			entry["trace_id"] = sc.TraceID().String()
			entry["span_id"] = sc.SpanID().String()
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.enc.Encode(entry)
}
