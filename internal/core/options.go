// Options for configuring StateMachine instances.

package core

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

type options struct {
	id            string
	logger        *slog.Logger
	tracer        trace.Tracer
	publisher     Publisher
	recheckGuards bool
}

// Option applies configuration to a StateMachine via the functional options pattern.
type Option func(*options)

// WithID sets the machine identifier used in logs, spans and published records.
// A random UUID is used when unset.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracer sets the tracer used to open one span per fire.
// Defaults to the tracer of the global OpenTelemetry provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithPublisher configures a Publisher that receives a record of every fire.
func WithPublisher(p Publisher) Option {
	return func(o *options) {
		o.publisher = p
	}
}

// WithGuardRecheck re-evaluates the chosen transition's guard immediately
// before committing. A guard that no longer holds fails the fire with
// primitives.ErrGuardRejected.
func WithGuardRecheck() Option {
	return func(o *options) {
		o.recheckGuards = true
	}
}
