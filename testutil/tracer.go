package testutil

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is a trace.Tracer that keeps every started span in memory.
// Only the span methods used by fsmx are implemented.
type Tracer struct {
	trace.Tracer

	mu    sync.Mutex
	spans []*Span
}

// Start records a new span.
func (t *Tracer) Start(ctx context.Context, name string, options ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(options...)
	s := &Span{name: name, attrs: map[attribute.Key]attribute.Value{}}
	for _, kv := range cfg.Attributes() {
		s.attrs[kv.Key] = kv.Value
	}
	t.mu.Lock()
	t.spans = append(t.spans, s)
	t.mu.Unlock()
	return trace.ContextWithSpan(ctx, s), s
}

// Spans returns the spans started so far.
func (t *Tracer) Spans() []*Span {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Span, len(t.spans))
	copy(out, t.spans)
	return out
}

// Span is an in-memory trace.Span.
type Span struct {
	trace.Span

	mu     sync.Mutex
	name   string
	attrs  map[attribute.Key]attribute.Value
	errs   []error
	status codes.Code
	ended  bool
}

func (s *Span) End(options ...trace.SpanEndOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended = true
}

func (s *Span) SetAttributes(kv ...attribute.KeyValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range kv {
		s.attrs[a.Key] = a.Value
	}
}

func (s *Span) RecordError(err error, options ...trace.EventOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, err)
}

func (s *Span) SetStatus(code codes.Code, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = code
}

func (s *Span) IsRecording() bool { return true }

func (s *Span) SpanContext() trace.SpanContext { return trace.SpanContext{} }

// Name returns the span name.
func (s *Span) Name() string { return s.name }

// Attr returns the string form of attribute key, or "" when unset.
func (s *Span) Attr(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.attrs[attribute.Key(key)]
	if !ok {
		return ""
	}
	return v.Emit()
}

// Errors returns the recorded errors.
func (s *Span) Errors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.errs...)
}

// Status returns the last status code set.
func (s *Span) Status() codes.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Ended reports whether End was called.
func (s *Span) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}
