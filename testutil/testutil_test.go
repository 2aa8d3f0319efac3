package testutil

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/comalice/fsmx/internal/primitives"
)

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	ctx := context.Background()
	var o primitives.Outcome[string, string]

	if err := Action[string, string](r, "a")(ctx, o); err != nil {
		t.Fatalf("Action returned %v", err)
	}
	if !Guard(r, "g", true)() {
		t.Error("Guard should return its result")
	}
	err := Failing[string, string](r, "f", nil)(ctx, o)
	if err == nil || err.Error() != "f failed" {
		t.Errorf("Failing default error = %v", err)
	}

	got := r.Calls()
	want := []string{"a", "g", "f"}
	if len(got) != len(want) {
		t.Fatalf("Calls() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Calls()[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	r.Reset()
	if len(r.Calls()) != 0 {
		t.Error("Reset should clear calls")
	}
}

func TestTracer(t *testing.T) {
	tr := &Tracer{}
	_, span := tr.Start(context.Background(), "op")
	span.SetAttributes(attribute.String("k", "v"), attribute.Bool("b", true))
	span.RecordError(errors.New("boom"))
	span.SetStatus(codes.Error, "boom")
	span.End()

	spans := tr.Spans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.Name() != "op" || !s.Ended() {
		t.Errorf("span %q ended=%t", s.Name(), s.Ended())
	}
	if s.Attr("k") != "v" || s.Attr("b") != "true" {
		t.Errorf("attrs k=%q b=%q", s.Attr("k"), s.Attr("b"))
	}
	if len(s.Errors()) != 1 || s.Status() != codes.Error {
		t.Errorf("errors=%v status=%v", s.Errors(), s.Status())
	}
}
