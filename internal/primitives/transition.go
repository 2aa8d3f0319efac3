package primitives

import "context"

// Guard gates a conditional transition. It is evaluated at fire time, never at
// registration time, and may read external mutable state.
type Guard func() bool

// Action is a side-effect callback run on a transition or on state entry/exit.
// The outcome describes the transition in progress.
type Action[S, T comparable] func(ctx context.Context, o Outcome[S, T]) error

// Transition is an immutable edge between two states.
type Transition[S, T comparable] struct {
	source      S
	destination S
	trigger     T
	guard       Guard
	action      Action[S, T]
	internal    bool
}

// TransitionOption customises a transition at registration time.
type TransitionOption[S, T comparable] func(*Transition[S, T])

// Do attaches an action that runs between the source exit and destination entry.
func Do[S, T comparable](action Action[S, T]) TransitionOption[S, T] {
	return func(t *Transition[S, T]) {
		t.action = action
	}
}

func (t *Transition[S, T]) Source() S      { return t.source }
func (t *Transition[S, T]) Destination() S { return t.destination }
func (t *Transition[S, T]) Trigger() T     { return t.trigger }

// Internal reports whether entry and exit callbacks are skipped.
func (t *Transition[S, T]) Internal() bool { return t.internal }

// Conditional reports whether the transition carries a guard.
func (t *Transition[S, T]) Conditional() bool { return t.guard != nil }

// Reentrant reports whether the transition leads back to its own source.
func (t *Transition[S, T]) Reentrant() bool { return t.source == t.destination }

// Allows evaluates the guard. Unconditional transitions always allow.
func (t *Transition[S, T]) Allows() bool {
	if t.guard == nil {
		return true
	}
	return t.guard()
}

// Execute runs the transition action, if any.
func (t *Transition[S, T]) Execute(ctx context.Context, o Outcome[S, T]) error {
	if t.action == nil {
		return nil
	}
	return t.action(ctx, o)
}
