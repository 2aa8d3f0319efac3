// Package core provides the fsmx execution engine.
//
// A StateMachine holds the current state and a reference to a shared, read-only
// MachineConfig. Fire resolves one trigger against the current state and runs
// exit, action and entry callbacks synchronously. The engine is not safe for
// concurrent Fire calls; hosts that share a machine across goroutines must
// serialise access (see package realtime).
package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/comalice/fsmx/internal/primitives"
)

const tracerName = "github.com/comalice/fsmx"

// StateMachine is the runtime instance of a finite state machine.
type StateMachine[S, T comparable] struct {
	id        string
	config    *primitives.MachineConfig[S, T]
	current   S
	last      primitives.Outcome[S, T]
	logger    *slog.Logger
	tracer    trace.Tracer
	publisher Publisher
	recheck   bool
}

// New creates a StateMachine positioned at initial. The configuration is
// validated once here and must not be mutated afterwards.
func New[S, T comparable](config *primitives.MachineConfig[S, T], initial S, opts ...Option) (*StateMachine[S, T], error) {
	if config == nil {
		return nil, errors.New("machine config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid machine config: %w", err)
	}

	o := options{
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}

	return &StateMachine[S, T]{
		id:        o.id,
		config:    config,
		current:   initial,
		last:      primitives.Outcome[S, T]{From: initial, To: initial},
		logger:    o.logger.With(slog.String("machine_id", o.id)),
		tracer:    o.tracer,
		publisher: o.publisher,
		recheck:   o.recheckGuards,
	}, nil
}

// MustNew is like New but panics on an invalid configuration.
func MustNew[S, T comparable](config *primitives.MachineConfig[S, T], initial S, opts ...Option) *StateMachine[S, T] {
	m, err := New(config, initial, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// ID returns the machine identifier.
func (m *StateMachine[S, T]) ID() string {
	return m.id
}

// Config returns the shared machine configuration.
func (m *StateMachine[S, T]) Config() *primitives.MachineConfig[S, T] {
	return m.config
}

// CurrentState returns the current state.
func (m *StateMachine[S, T]) CurrentState() S {
	return m.current
}

// LastOutcome returns the outcome of the most recent Fire.
// Before the first Fire it is a successful outcome at the initial state.
func (m *StateMachine[S, T]) LastOutcome() primitives.Outcome[S, T] {
	return m.last
}

// WasLastFireSuccessful reports whether the most recent Fire took a transition.
func (m *StateMachine[S, T]) WasLastFireSuccessful() bool {
	return !m.last.Failed
}

// CanFire reports whether trigger would resolve to a transition from the
// current state. Guards are evaluated; no callbacks run.
func (m *StateMachine[S, T]) CanFire(trigger T) bool {
	var zero T
	if trigger == zero {
		return false
	}
	_, err := m.config.ResolveTransition(m.current, trigger)
	return err == nil
}

// PermittedTriggers returns the triggers that currently resolve from the
// current state, in registration order.
func (m *StateMachine[S, T]) PermittedTriggers() []T {
	sc, ok := m.config.Lookup(m.current)
	if !ok {
		return nil
	}
	var permitted []T
	for _, trigger := range sc.Triggers() {
		if _, err := sc.Resolve(trigger); err == nil {
			permitted = append(permitted, trigger)
		}
	}
	return permitted
}

// Fire offers trigger to the current state.
//
// On success the source exit callback, the transition action and the
// destination entry callback run in that order before the current state moves
// to the destination; internal transitions run the action only. When no
// transition resolves the outcome is marked failed, the current state is left
// unchanged, no callbacks run and the returned error is nil.
//
// A non-nil error is returned only for a zero-value trigger
// (primitives.ErrInvalidTrigger) or when a callback fails
// (*primitives.CallbackError). Callback side effects that already ran are not
// rolled back.
func (m *StateMachine[S, T]) Fire(ctx context.Context, trigger T) (primitives.Outcome[S, T], error) {
	from := m.current
	ctx, span := m.tracer.Start(ctx, "fsmx.Fire", trace.WithAttributes(
		attribute.String("fsmx.machine_id", m.id),
		attribute.String("fsmx.from", fmt.Sprint(from)),
		attribute.String("fsmx.trigger", fmt.Sprint(trigger)),
	))
	defer span.End()

	var zero T
	if trigger == zero {
		o := primitives.Fail(from, trigger, primitives.ErrInvalidTrigger)
		m.record(ctx, span, o)
		return o, primitives.ErrInvalidTrigger
	}

	t, err := m.config.ResolveTransition(from, trigger)
	if err != nil {
		if errors.Is(err, primitives.ErrAmbiguousGuard) {
			m.logger.WarnContext(ctx, "ambiguous guards, transition refused",
				slog.Any("state", from), slog.Any("trigger", trigger), slog.Any("error", err))
		} else {
			m.logger.DebugContext(ctx, "trigger not resolved",
				slog.Any("state", from), slog.Any("trigger", trigger), slog.Any("error", err))
		}
		o := primitives.Fail(from, trigger, err)
		m.record(ctx, span, o)
		return o, nil
	}

	if m.recheck && t.Conditional() && !t.Allows() {
		o := primitives.Fail(from, trigger, fmt.Errorf("state %v, trigger %v: %w", from, trigger, primitives.ErrGuardRejected))
		m.record(ctx, span, o)
		return o, nil
	}

	o := primitives.Outcome[S, T]{
		From:       from,
		Trigger:    trigger,
		To:         t.Destination(),
		Transition: t,
	}
	if err := m.apply(ctx, o); err != nil {
		o.Failed = true
		o.Err = err
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		m.logger.ErrorContext(ctx, "transition callback failed",
			slog.Any("from", from), slog.Any("trigger", trigger), slog.Any("to", o.To), slog.Any("error", err))
		m.record(ctx, span, o)
		return o, err
	}

	m.current = o.To
	m.logger.DebugContext(ctx, "transition",
		slog.Any("from", from), slog.Any("trigger", trigger), slog.Any("to", o.To), slog.Bool("internal", t.Internal()))
	m.record(ctx, span, o)
	return o, nil
}

// apply runs the callbacks of a resolved transition.
func (m *StateMachine[S, T]) apply(ctx context.Context, o primitives.Outcome[S, T]) error {
	t := o.Transition
	if !t.Internal() {
		if source, ok := m.config.Lookup(o.From); ok {
			if err := source.Exit(ctx, o); err != nil {
				return &primitives.CallbackError{Phase: primitives.PhaseExit, Err: err}
			}
		}
	}
	if err := t.Execute(ctx, o); err != nil {
		return &primitives.CallbackError{Phase: primitives.PhaseAction, Err: err}
	}
	if !t.Internal() {
		if destination, ok := m.config.Lookup(o.To); ok {
			if err := destination.Enter(ctx, o); err != nil {
				return &primitives.CallbackError{Phase: primitives.PhaseEntry, Err: err}
			}
		}
	}
	return nil
}

// record retains o as the last outcome and reports it to the span and publisher.
func (m *StateMachine[S, T]) record(ctx context.Context, span trace.Span, o primitives.Outcome[S, T]) {
	m.last = o
	span.SetAttributes(
		attribute.String("fsmx.to", fmt.Sprint(o.To)),
		attribute.Bool("fsmx.failed", o.Failed),
	)
	if m.publisher == nil {
		return
	}
	rec := TransitionRecord{
		MachineID: m.id,
		From:      fmt.Sprint(o.From),
		Trigger:   fmt.Sprint(o.Trigger),
		To:        fmt.Sprint(o.To),
		Internal:  o.Internal(),
		Failed:    o.Failed,
		Timestamp: time.Now(),
	}
	if o.Err != nil {
		rec.Reason = o.Err.Error()
	}
	if err := m.publisher.Publish(ctx, rec); err != nil {
		m.logger.WarnContext(ctx, "publish transition record", slog.Any("error", err))
	}
}
