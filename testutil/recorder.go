// Package testutil provides helpers shared by fsmx tests: a callback recorder
// that captures invocation order and a span-recording tracer.
package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/comalice/fsmx/internal/primitives"
)

// Recorder captures the names of invoked callbacks in call order.
type Recorder struct {
	mu    sync.Mutex
	calls []string
}

// Record appends name to the call log.
func (r *Recorder) Record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
}

// Calls returns a copy of the call log.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// Reset clears the call log.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// Action returns a callback that records name and succeeds.
func Action[S, T comparable](r *Recorder, name string) primitives.Action[S, T] {
	return func(ctx context.Context, o primitives.Outcome[S, T]) error {
		r.Record(name)
		return nil
	}
}

// Failing returns a callback that records name and fails with err.
func Failing[S, T comparable](r *Recorder, name string, err error) primitives.Action[S, T] {
	if err == nil {
		err = errors.New(name + " failed")
	}
	return func(ctx context.Context, o primitives.Outcome[S, T]) error {
		r.Record(name)
		return err
	}
}

// Guard returns a guard that records name and returns result.
func Guard(r *Recorder, name string, result bool) primitives.Guard {
	return func() bool {
		r.Record(name)
		return result
	}
}
