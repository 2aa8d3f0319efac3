package primitives

import "fmt"

// Outcome records what a single fire did. Transition is nil when nothing was chosen.
// Err carries the failure reason when Failed is set.
type Outcome[S, T comparable] struct {
	From       S
	Trigger    T
	To         S
	Transition *Transition[S, T]
	Failed     bool
	Err        error
}

// Internal reports whether the chosen transition skipped entry and exit.
func (o Outcome[S, T]) Internal() bool {
	return o.Transition != nil && o.Transition.Internal()
}

// Reentrant reports whether the chosen transition targets its own source.
func (o Outcome[S, T]) Reentrant() bool {
	return o.Transition != nil && o.Transition.Reentrant()
}

func (o Outcome[S, T]) String() string {
	if o.Failed {
		return fmt.Sprintf("%v --%v--> (failed: %v)", o.From, o.Trigger, o.Err)
	}
	return fmt.Sprintf("%v --%v--> %v", o.From, o.Trigger, o.To)
}

// Fail returns a failed outcome for trigger fired from state.
func Fail[S, T comparable](from S, trigger T, err error) Outcome[S, T] {
	return Outcome[S, T]{
		From:    from,
		Trigger: trigger,
		To:      from,
		Failed:  true,
		Err:     err,
	}
}
