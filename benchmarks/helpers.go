// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/comalice/fsmx/internal/core"
	"github.com/comalice/fsmx/internal/primitives"
	"github.com/comalice/fsmx/internal/production"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// GenFlatConfig creates a ring of n states cycling via "tick".
func GenFlatConfig(n int) *primitives.MachineConfig[string, string] {
	if n < 1 {
		n = 1
	}
	mc := primitives.NewMachineConfig[string, string]()
	for i := 0; i < n; i++ {
		mc.Configure(fmt.Sprintf("s%d", i)).Permit("tick", fmt.Sprintf("s%d", (i+1)%n))
	}
	return mc
}

// GenWideTransitions creates one main state with many guarded "tick"
// transitions of which only the last holds, so resolution scans them all.
func GenWideTransitions(numTransitions int) *primitives.MachineConfig[string, string] {
	if numTransitions < 1 {
		numTransitions = 1
	}
	mc := primitives.NewMachineConfig[string, string]()
	main := mc.Configure("main")
	for i := 0; i < numTransitions; i++ {
		target := fmt.Sprintf("target%d", i)
		last := i == numTransitions-1
		main.PermitIf("tick", target, func() bool { return last })
		mc.Configure(target).Permit("tick", "main")
	}
	return mc
}

// GenDefinitionYAML renders the flat ring of n states as a YAML definition.
func GenDefinitionYAML(n int) []byte {
	if n < 1 {
		n = 1
	}
	def := production.Definition{
		Machine: fmt.Sprintf("flat_%d", n),
		Initial: "s0",
	}
	for i := 0; i < n; i++ {
		def.States = append(def.States, production.StateDefinition{
			Name: fmt.Sprintf("s%d", i),
			Transitions: []production.TransitionDefinition{
				{Trigger: "tick", To: fmt.Sprintf("s%d", (i+1)%n)},
			},
		})
	}
	data, err := yaml.Marshal(def)
	if err != nil {
		panic(err)
	}
	return data
}

// NewMachine creates a silent machine at initial.
func NewMachine(mc *primitives.MachineConfig[string, string], initial string) *core.StateMachine[string, string] {
	return core.MustNew(mc, initial, core.WithID("bench"), core.WithLogger(quiet))
}
