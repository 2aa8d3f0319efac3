package primitives

import (
	"context"
	"errors"
	"fmt"
)

// StateConfig holds the outgoing transitions and entry/exit callbacks of one state.
// Registration order of transitions is significant for conflict resolution.
type StateConfig[S, T comparable] struct {
	state       S
	transitions []*Transition[S, T]
	onEntry     Action[S, T]
	onExit      Action[S, T]
	errs        []error
}

// NewStateConfig creates an empty configuration for state.
// Prefer MachineConfig.Configure, which owns the returned configuration.
func NewStateConfig[S, T comparable](state S) *StateConfig[S, T] {
	return &StateConfig[S, T]{state: state}
}

// State returns the state this configuration describes.
func (s *StateConfig[S, T]) State() S {
	return s.state
}

// Transitions returns the registered transitions in registration order.
func (s *StateConfig[S, T]) Transitions() []*Transition[S, T] {
	out := make([]*Transition[S, T], len(s.transitions))
	copy(out, s.transitions)
	return out
}

// Triggers returns the distinct triggers with at least one registered transition,
// in first-registration order.
func (s *StateConfig[S, T]) Triggers() []T {
	seen := make(map[T]struct{}, len(s.transitions))
	var triggers []T
	for _, t := range s.transitions {
		if _, ok := seen[t.trigger]; ok {
			continue
		}
		seen[t.trigger] = struct{}{}
		triggers = append(triggers, t.trigger)
	}
	return triggers
}

// Permit registers an unconditional external transition.
// A second unconditional registration for the same trigger is ignored.
func (s *StateConfig[S, T]) Permit(trigger T, destination S, opts ...TransitionOption[S, T]) *StateConfig[S, T] {
	return s.add(trigger, destination, nil, false, opts)
}

// PermitInternal registers an unconditional internal transition: its action runs
// but no entry or exit callbacks fire.
func (s *StateConfig[S, T]) PermitInternal(trigger T, destination S, opts ...TransitionOption[S, T]) *StateConfig[S, T] {
	return s.add(trigger, destination, nil, true, opts)
}

// PermitIf registers a conditional external transition.
func (s *StateConfig[S, T]) PermitIf(trigger T, destination S, guard Guard, opts ...TransitionOption[S, T]) *StateConfig[S, T] {
	if guard == nil {
		s.errs = append(s.errs, fmt.Errorf("state %v, trigger %v: %w", s.state, trigger, ErrNilGuard))
		return s
	}
	return s.add(trigger, destination, guard, false, opts)
}

// PermitInternalIf registers a conditional internal transition.
func (s *StateConfig[S, T]) PermitInternalIf(trigger T, destination S, guard Guard, opts ...TransitionOption[S, T]) *StateConfig[S, T] {
	if guard == nil {
		s.errs = append(s.errs, fmt.Errorf("state %v, trigger %v: %w", s.state, trigger, ErrNilGuard))
		return s
	}
	return s.add(trigger, destination, guard, true, opts)
}

// OnEntry sets the callback run when an external transition enters this state.
func (s *StateConfig[S, T]) OnEntry(action Action[S, T]) *StateConfig[S, T] {
	s.onEntry = action
	return s
}

// OnExit sets the callback run when an external transition leaves this state.
func (s *StateConfig[S, T]) OnExit(action Action[S, T]) *StateConfig[S, T] {
	s.onExit = action
	return s
}

// Enter runs the entry callback, if any.
func (s *StateConfig[S, T]) Enter(ctx context.Context, o Outcome[S, T]) error {
	if s.onEntry == nil {
		return nil
	}
	return s.onEntry(ctx, o)
}

// Exit runs the exit callback, if any.
func (s *StateConfig[S, T]) Exit(ctx context.Context, o Outcome[S, T]) error {
	if s.onExit == nil {
		return nil
	}
	return s.onExit(ctx, o)
}

func (s *StateConfig[S, T]) add(trigger T, destination S, guard Guard, internal bool, opts []TransitionOption[S, T]) *StateConfig[S, T] {
	var zero T
	if trigger == zero {
		s.errs = append(s.errs, fmt.Errorf("state %v: %w", s.state, ErrInvalidTrigger))
		return s
	}
	if guard == nil && s.hasUnconditional(trigger) {
		return s
	}
	t := &Transition[S, T]{
		source:      s.state,
		destination: destination,
		trigger:     trigger,
		guard:       guard,
		internal:    internal,
	}
	for _, opt := range opts {
		opt(t)
	}
	s.transitions = append(s.transitions, t)
	return s
}

func (s *StateConfig[S, T]) hasUnconditional(trigger T) bool {
	for _, t := range s.transitions {
		if t.trigger == trigger && !t.Conditional() {
			return true
		}
	}
	return false
}

// Resolve picks the transition to take for trigger.
//
// Candidates are scanned in registration order. An unconditional transition
// becomes the best candidate unless a guard has already been satisfied; a
// satisfied guard always overrides. A second satisfied guard makes the trigger
// ambiguous and nothing is chosen.
func (s *StateConfig[S, T]) Resolve(trigger T) (*Transition[S, T], error) {
	var best *Transition[S, T]
	satisfied := false
	for _, t := range s.transitions {
		if t.trigger != trigger {
			continue
		}
		if !t.Conditional() {
			if !satisfied {
				best = t
			}
			continue
		}
		if !t.guard() {
			continue
		}
		if satisfied {
			return nil, fmt.Errorf("state %v, trigger %v: %w", s.state, trigger, ErrAmbiguousGuard)
		}
		best = t
		satisfied = true
	}
	if best == nil {
		return nil, fmt.Errorf("state %v, trigger %v: %w", s.state, trigger, ErrNoTransition)
	}
	return best, nil
}

// Validate reports registration errors recorded on this configuration.
func (s *StateConfig[S, T]) Validate() error {
	return errors.Join(s.errs...)
}
