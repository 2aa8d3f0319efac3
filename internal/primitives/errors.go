package primitives

import (
	"errors"
	"fmt"
)

var (
	ErrNoTransition      = errors.New("no transition registered for trigger")
	ErrAmbiguousGuard    = errors.New("more than one guard satisfied for trigger")
	ErrUnconfiguredState = errors.New("state is not configured")
	ErrGuardRejected     = errors.New("guard no longer holds at commit")
	ErrInvalidTrigger    = errors.New("zero-value trigger")
	ErrNilGuard          = errors.New("conditional transition requires a guard")
)

// Phase names the callback slot that was running when a CallbackError occurred.
type Phase string

const (
	PhaseExit   Phase = "exit"
	PhaseAction Phase = "action"
	PhaseEntry  Phase = "entry"
)

// CallbackError wraps an error returned by a caller-supplied callback during fire.
type CallbackError struct {
	Phase Phase
	Err   error
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("%s callback: %v", e.Phase, e.Err)
}

func (e *CallbackError) Unwrap() error {
	return e.Err
}
