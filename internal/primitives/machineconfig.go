package primitives

import (
	"errors"
	"fmt"
)

// MachineConfig maps each state to its StateConfig.
// Build it completely before the first fire; it is not safe to mutate
// concurrently with a running machine.
type MachineConfig[S, T comparable] struct {
	configs map[S]*StateConfig[S, T]
	order   []S
}

// NewMachineConfig creates an empty MachineConfig.
func NewMachineConfig[S, T comparable]() *MachineConfig[S, T] {
	return &MachineConfig[S, T]{
		configs: make(map[S]*StateConfig[S, T]),
	}
}

// Configure returns the configuration for state, creating it on first use.
// Repeated calls with an equal state return the same configuration.
func (m *MachineConfig[S, T]) Configure(state S) *StateConfig[S, T] {
	if sc, ok := m.configs[state]; ok {
		return sc
	}
	sc := NewStateConfig[S, T](state)
	m.configs[state] = sc
	m.order = append(m.order, state)
	return sc
}

// Lookup returns the configuration for state without creating one.
func (m *MachineConfig[S, T]) Lookup(state S) (*StateConfig[S, T], bool) {
	sc, ok := m.configs[state]
	return sc, ok
}

// ResolveTransition resolves trigger against the configuration of state.
func (m *MachineConfig[S, T]) ResolveTransition(state S, trigger T) (*Transition[S, T], error) {
	sc, ok := m.configs[state]
	if !ok {
		return nil, fmt.Errorf("state %v: %w", state, ErrUnconfiguredState)
	}
	return sc.Resolve(trigger)
}

// States returns configured states in configuration order.
func (m *MachineConfig[S, T]) States() []S {
	out := make([]S, len(m.order))
	copy(out, m.order)
	return out
}

// Validate reports every registration error recorded while building the configuration.
func (m *MachineConfig[S, T]) Validate() error {
	var errs []error
	for _, state := range m.order {
		if err := m.configs[state].Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
