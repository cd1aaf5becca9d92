package tracing

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// FileExporter appends finished spans to a JSONL file, one span per line.
type FileExporter struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewFileExporter opens path for appending, creating parent directories.
func NewFileExporter(path string) (*FileExporter, error) {
	clean := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(clean), 0750); err != nil {
		return nil, fmt.Errorf("create trace directory: %w", err)
	}
	f, err := os.OpenFile(clean, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600) // #nosec G304 -- path is cleaned above
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	return &FileExporter{file: f, enc: json.NewEncoder(f)}, nil
}

// ExportSpans implements sdktrace.SpanExporter.
func (e *FileExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.file == nil {
		return fmt.Errorf("trace file closed")
	}
	for _, s := range spans {
		if err := e.enc.Encode(newSpanRecord(s)); err != nil {
			return fmt.Errorf("encode span: %w", err)
		}
	}
	return nil
}

// Shutdown implements sdktrace.SpanExporter.
func (e *FileExporter) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.file == nil {
		return nil
	}
	err := e.file.Close()
	e.file = nil
	return err
}

// SpanRecord is one exported span.
type SpanRecord struct {
	TraceID    string         `json:"trace_id"`
	SpanID     string         `json:"span_id"`
	ParentID   string         `json:"parent_span_id,omitempty"`
	Name       string         `json:"name"`
	Start      string         `json:"start_time"`
	DurationMs float64        `json:"duration_ms"`
	Status     string         `json:"status"`
	StatusMsg  string         `json:"status_message,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
	Events     []EventRecord  `json:"events,omitempty"`
}

// EventRecord is one span event.
type EventRecord struct {
	Name       string         `json:"name"`
	Time       string         `json:"time"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

func newSpanRecord(s sdktrace.ReadOnlySpan) SpanRecord {
	rec := SpanRecord{
		TraceID:    s.SpanContext().TraceID().String(),
		SpanID:     s.SpanContext().SpanID().String(),
		Name:       s.Name(),
		Start:      s.StartTime().Format(time.RFC3339Nano),
		DurationMs: float64(s.EndTime().Sub(s.StartTime()).Microseconds()) / 1000.0,
		Status:     statusName(s.Status().Code),
		StatusMsg:  s.Status().Description,
		Attributes: attrMap(s.Attributes()),
	}
	if p := s.Parent(); p.IsValid() {
		rec.ParentID = p.SpanID().String()
	}
	for _, ev := range s.Events() {
		rec.Events = append(rec.Events, EventRecord{
			Name:       ev.Name,
			Time:       ev.Time.Format(time.RFC3339Nano),
			Attributes: attrMap(ev.Attributes),
		})
	}
	return rec
}

func attrMap(kvs []attribute.KeyValue) map[string]any {
	if len(kvs) == 0 {
		return nil
	}
	m := make(map[string]any, len(kvs))
	for _, kv := range kvs {
		m[string(kv.Key)] = kv.Value.AsInterface()
	}
	return m
}

func statusName(c codes.Code) string {
	switch c {
	case codes.Ok:
		return "OK"
	case codes.Error:
		return "ERROR"
	default:
		return "UNSET"
	}
}
