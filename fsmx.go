// Package fsmx is a small, generic finite state machine engine.
//
// States and triggers are any comparable types. A MachineConfig is built once
// with Configure and the Permit family, then shared read-only by any number of
// StateMachine instances:
//
//	mc := fsmx.NewMachineConfig[State, Trigger]()
//	mc.Configure(Idle).Permit(Prepare, Ready)
//	mc.Configure(Ready).
//		PermitIf(Poll, Waiting, sensorOK).
//		OnEntry(announce)
//
//	m, err := fsmx.New(mc, Idle)
//	outcome, err := m.Fire(ctx, Prepare)
//
// Fire is synchronous. Exit, action and entry callbacks run in that order on
// the caller's goroutine. A trigger that is not permitted never panics: the
// outcome is marked failed and the current state is unchanged.
//
// Conflicts between transitions registered for the same trigger are resolved
// in registration order. The first unconditional registration wins over later
// unconditional ones, a satisfied guard overrides an unconditional transition,
// and two satisfied guards are ambiguous, so the trigger is refused.
package fsmx

import (
	"github.com/comalice/fsmx/internal/core"
	"github.com/comalice/fsmx/internal/primitives"
)

type (
	// StateMachine is the runtime instance of a finite state machine.
	StateMachine[S, T comparable] = core.StateMachine[S, T]
	// MachineConfig maps each state to its StateConfig.
	MachineConfig[S, T comparable] = primitives.MachineConfig[S, T]
	// StateConfig holds the outgoing transitions and callbacks of one state.
	StateConfig[S, T comparable] = primitives.StateConfig[S, T]
	// Transition is one registered edge.
	Transition[S, T comparable] = primitives.Transition[S, T]
	// TransitionOption customises a transition at registration.
	TransitionOption[S, T comparable] = primitives.TransitionOption[S, T]
	// Outcome describes the result of one Fire.
	Outcome[S, T comparable] = primitives.Outcome[S, T]
	// Action is a transition action or an entry/exit callback.
	Action[S, T comparable] = primitives.Action[S, T]
	// Guard gates a conditional transition. It is evaluated at fire time.
	Guard = primitives.Guard

	Option           = core.Option
	Publisher        = core.Publisher
	TransitionRecord = core.TransitionRecord
	Signals          = primitives.Signals
	CallbackError    = primitives.CallbackError
	Phase            = primitives.Phase
)

const (
	PhaseExit   = primitives.PhaseExit
	PhaseAction = primitives.PhaseAction
	PhaseEntry  = primitives.PhaseEntry
)

var (
	ErrNoTransition      = primitives.ErrNoTransition
	ErrAmbiguousGuard    = primitives.ErrAmbiguousGuard
	ErrUnconfiguredState = primitives.ErrUnconfiguredState
	ErrGuardRejected     = primitives.ErrGuardRejected
	ErrInvalidTrigger    = primitives.ErrInvalidTrigger
	ErrNilGuard          = primitives.ErrNilGuard
)

var (
	WithID           = core.WithID
	WithLogger       = core.WithLogger
	WithTracer       = core.WithTracer
	WithPublisher    = core.WithPublisher
	WithGuardRecheck = core.WithGuardRecheck
)

// NewMachineConfig creates an empty MachineConfig.
func NewMachineConfig[S, T comparable]() *MachineConfig[S, T] {
	return primitives.NewMachineConfig[S, T]()
}

// New creates a StateMachine positioned at initial. The configuration is
// validated here and must not be mutated afterwards.
func New[S, T comparable](config *MachineConfig[S, T], initial S, opts ...Option) (*StateMachine[S, T], error) {
	return core.New(config, initial, opts...)
}

// MustNew is like New but panics on an invalid configuration.
func MustNew[S, T comparable](config *MachineConfig[S, T], initial S, opts ...Option) *StateMachine[S, T] {
	return core.MustNew(config, initial, opts...)
}

// Do attaches action to a transition.
func Do[S, T comparable](action Action[S, T]) TransitionOption[S, T] {
	return primitives.Do(action)
}

// NewSignals creates an empty store of guard readings.
func NewSignals() *Signals {
	return primitives.NewSignals()
}
