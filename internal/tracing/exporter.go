package tracing

import (
	"bufio"
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

// JournalExporter appends one JSON line per finished span to a drop
// journal. Drag and drop attributes become top-level fields, so
//
//	jq 'select(.action == "rejected") | .reason' traces.jsonl
//
// reads the way the sidebar talks about drops.
type JournalExporter struct {
	mu   sync.Mutex
	file *os.File
	w    *bufio.Writer
}

var _ sdktrace.SpanExporter = (*JournalExporter)(nil)

// NewJournalExporter opens path for appending, creating its directory.
func NewJournalExporter(path string) (*JournalExporter, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) // #nosec G304 -- configured path
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return &JournalExporter{file: f, w: bufio.NewWriter(f)}, nil
}

// ExportSpans writes spans in the order the batcher hands them over.
func (e *JournalExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.file == nil {
		return fmt.Errorf("journal closed")
	}

	enc := json.NewEncoder(e.w)
	for _, s := range spans {
		if err := enc.Encode(entryFromSpan(s)); err != nil {
			return fmt.Errorf("write journal entry %s: %w", s.Name(), err)
		}
	}
	return e.w.Flush()
}

// Shutdown flushes and closes the journal. Later calls are no-ops.
func (e *JournalExporter) Shutdown(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.file == nil {
		return nil
	}
	flushErr := e.w.Flush()
	closeErr := e.file.Close()
	e.file = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// Entry is one journal line.
type Entry struct {
	At      time.Time `json:"at"`
	Span    string    `json:"span"`
	TraceID string    `json:"trace_id"`
	Parent  string    `json:"parent,omitempty"`
	TookMs  float64   `json:"took_ms"`
	Error   string    `json:"error,omitempty"`

	Gesture  string    `json:"gesture,omitempty"`
	Source   *Endpoint `json:"source,omitempty"`
	Target   *Endpoint `json:"target,omitempty"`
	Edge     string    `json:"edge,omitempty"`
	Position *float64  `json:"position,omitempty"`
	Action   string    `json:"action,omitempty"`
	Reason   string    `json:"reason,omitempty"`
	Commands *int      `json:"commands,omitempty"`
	TabID    int       `json:"tab,omitempty"`

	// Extra holds attributes the journal has no field for.
	Extra  map[string]any `json:"extra,omitempty"`
	Events []string       `json:"events,omitempty"`
}

// Endpoint is one side of a drop.
type Endpoint struct {
	Kind    string `json:"kind"`
	SpaceID string `json:"space"`
	TabID   int    `json:"tab,omitempty"`
	GroupID int    `json:"group,omitempty"`
	Index   *int   `json:"index,omitempty"`
}

func entryFromSpan(s sdktrace.ReadOnlySpan) Entry {
	e := Entry{
		At:      s.StartTime().UTC(),
		Span:    s.Name(),
		TraceID: s.SpanContext().TraceID().String(),
		TookMs:  float64(s.EndTime().Sub(s.StartTime()).Microseconds()) / 1000,
	}
	if p := s.Parent(); p.IsValid() {
		e.Parent = p.SpanID().String()
	}
	if st := s.Status(); st.Code == codes.Error {
		e.Error = st.Description
		if e.Error == "" {
			e.Error = "error"
		}
	}
	for _, kv := range s.Attributes() {
		e.set(kv)
	}
	for _, ev := range s.Events() {
		e.Events = append(e.Events, ev.Name)
	}
	return e
}

func (e *Entry) source() *Endpoint {
	if e.Source == nil {
		e.Source = &Endpoint{}
	}
	return e.Source
}

func (e *Entry) target() *Endpoint {
	if e.Target == nil {
		e.Target = &Endpoint{}
	}
	return e.Target
}

func (e *Entry) set(kv attribute.KeyValue) {
	v := kv.Value
	switch string(kv.Key) {
	case AttrGestureID:
		e.Gesture = v.AsString()
	case AttrSourceKind:
		e.source().Kind = v.AsString()
	case AttrSourceTabID:
		e.source().TabID = int(v.AsInt64())
	case AttrSourceGroup:
		e.source().GroupID = int(v.AsInt64())
	case AttrSourceSpace:
		e.source().SpaceID = v.AsString()
	case AttrTargetKind:
		e.target().Kind = v.AsString()
	case AttrTargetIndex:
		i := int(v.AsInt64())
		e.target().Index = &i
	case AttrTargetSpace:
		e.target().SpaceID = v.AsString()
	case AttrEdge:
		e.Edge = v.AsString()
	case AttrPosition:
		f := v.AsFloat64()
		e.Position = &f
	case AttrAction:
		e.Action = v.AsString()
	case AttrReason:
		e.Reason = v.AsString()
	case AttrCommandCount:
		n := int(v.AsInt64())
		e.Commands = &n
	case AttrTabID:
		e.TabID = int(v.AsInt64())
	default:
		if e.Extra == nil {
			e.Extra = make(map[string]any)
		}
		e.Extra[string(kv.Key)] = v.AsInterface()
	}
}
