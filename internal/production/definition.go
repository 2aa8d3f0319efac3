package production

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/fsmx/internal/extensibility"
	"github.com/comalice/fsmx/internal/primitives"
)

// Definition is the declarative form of a machine configuration with string
// states and triggers. JSON documents decode as well, being valid YAML.
type Definition struct {
	Machine string            `json:"machine" yaml:"machine"`
	Initial string            `json:"initial" yaml:"initial"`
	States  []StateDefinition `json:"states" yaml:"states"`
}

// StateDefinition describes one state. OnEntry and OnExit name registered actions.
type StateDefinition struct {
	Name        string                 `json:"name" yaml:"name"`
	OnEntry     string                 `json:"on_entry,omitempty" yaml:"on_entry,omitempty"`
	OnExit      string                 `json:"on_exit,omitempty" yaml:"on_exit,omitempty"`
	Transitions []TransitionDefinition `json:"transitions,omitempty" yaml:"transitions,omitempty"`
}

// TransitionDefinition describes one outgoing transition. Guard names a
// registered guard, When is an expression over the registry signals; at most
// one of them may be set. An internal transition without To stays in place.
type TransitionDefinition struct {
	Trigger  string `json:"trigger" yaml:"trigger"`
	To       string `json:"to,omitempty" yaml:"to,omitempty"`
	Internal bool   `json:"internal,omitempty" yaml:"internal,omitempty"`
	Guard    string `json:"guard,omitempty" yaml:"guard,omitempty"`
	When     string `json:"when,omitempty" yaml:"when,omitempty"`
	Action   string `json:"action,omitempty" yaml:"action,omitempty"`
}

// Registry resolves the names used in a Definition to caller-supplied guards
// and actions. It is passed explicitly to Build; there is no global registry.
type Registry struct {
	guards  map[string]primitives.Guard
	actions map[string]primitives.Action[string, string]
	signals *primitives.Signals
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		guards:  make(map[string]primitives.Guard),
		actions: make(map[string]primitives.Action[string, string]),
	}
}

// Guard registers a named guard.
func (r *Registry) Guard(name string, guard primitives.Guard) *Registry {
	r.guards[name] = guard
	return r
}

// Action registers a named action.
func (r *Registry) Action(name string, action primitives.Action[string, string]) *Registry {
	r.actions[name] = action
	return r
}

// Signals sets the store that When expressions read.
func (r *Registry) Signals(signals *primitives.Signals) *Registry {
	r.signals = signals
	return r
}

// ParseDefinition decodes a YAML or JSON definition. Unknown fields are rejected.
func ParseDefinition(data []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var def Definition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("yaml unmarshal: empty definition")
		}
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("definition validation: %w", err)
	}
	return &def, nil
}

// Marshal encodes the definition as YAML.
func (d *Definition) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return data, nil
}

// Validate checks structural rules that do not depend on a Registry.
func (d *Definition) Validate() error {
	if d.Machine == "" {
		return errors.New("machine name is required")
	}
	if d.Initial == "" {
		return errors.New("initial state is required")
	}
	if len(d.States) == 0 {
		return errors.New("states list is required and cannot be empty")
	}
	seen := make(map[string]bool, len(d.States))
	var errs []error
	for i, s := range d.States {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("state %d: name is required", i))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("state %q: defined more than once", name))
		}
		seen[name] = true
		for j, t := range s.Transitions {
			if t.Trigger == "" {
				errs = append(errs, fmt.Errorf("state %q, transition %d: trigger is required", name, j))
			}
			if t.To == "" && !t.Internal {
				errs = append(errs, fmt.Errorf("state %q, transition %d: target is required", name, j))
			}
			if t.Guard != "" && t.When != "" {
				errs = append(errs, fmt.Errorf("state %q, transition %d: guard and when are mutually exclusive", name, j))
			}
		}
	}
	if !seen[d.Initial] {
		errs = append(errs, fmt.Errorf("initial state %q not found in states", d.Initial))
	}
	return errors.Join(errs...)
}

// Build turns the definition into a MachineConfig, resolving every name
// against reg. Unknown names are errors.
func (d *Definition) Build(reg *Registry) (*primitives.MachineConfig[string, string], error) {
	if reg == nil {
		reg = NewRegistry()
	}
	mc := primitives.NewMachineConfig[string, string]()
	var errs []error
	for _, s := range d.States {
		sc := mc.Configure(s.Name)
		if s.OnEntry != "" {
			a, err := reg.action(s.OnEntry)
			if err != nil {
				errs = append(errs, fmt.Errorf("state %q on_entry: %w", s.Name, err))
			}
			sc.OnEntry(a)
		}
		if s.OnExit != "" {
			a, err := reg.action(s.OnExit)
			if err != nil {
				errs = append(errs, fmt.Errorf("state %q on_exit: %w", s.Name, err))
			}
			sc.OnExit(a)
		}
		for _, t := range s.Transitions {
			if err := reg.permit(sc, t); err != nil {
				errs = append(errs, fmt.Errorf("state %q, trigger %q: %w", s.Name, t.Trigger, err))
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := mc.Validate(); err != nil {
		return nil, err
	}
	return mc, nil
}

// LoadDefinition parses data and builds its MachineConfig in one step.
func LoadDefinition(data []byte, reg *Registry) (*Definition, *primitives.MachineConfig[string, string], error) {
	def, err := ParseDefinition(data)
	if err != nil {
		return nil, nil, err
	}
	mc, err := def.Build(reg)
	if err != nil {
		return nil, nil, fmt.Errorf("build machine %q: %w", def.Machine, err)
	}
	return def, mc, nil
}

func (r *Registry) action(name string) (primitives.Action[string, string], error) {
	a, ok := r.actions[name]
	if !ok {
		return nil, fmt.Errorf("action %q not registered", name)
	}
	return a, nil
}

func (r *Registry) guard(t TransitionDefinition) (primitives.Guard, error) {
	switch {
	case t.Guard != "":
		g, ok := r.guards[t.Guard]
		if !ok {
			return nil, fmt.Errorf("guard %q not registered", t.Guard)
		}
		return g, nil
	case t.When != "":
		if r.signals == nil {
			return nil, fmt.Errorf("when %q: registry has no signals", t.When)
		}
		return extensibility.ExpressionGuard(r.signals, t.When)
	default:
		return nil, nil
	}
}

func (r *Registry) permit(sc *primitives.StateConfig[string, string], t TransitionDefinition) error {
	guard, err := r.guard(t)
	if err != nil {
		return err
	}
	var opts []primitives.TransitionOption[string, string]
	if t.Action != "" {
		a, err := r.action(t.Action)
		if err != nil {
			return err
		}
		opts = append(opts, primitives.Do(a))
	}
	to := t.To
	if to == "" {
		to = sc.State()
	}
	switch {
	case guard == nil && t.Internal:
		sc.PermitInternal(t.Trigger, to, opts...)
	case guard == nil:
		sc.Permit(t.Trigger, to, opts...)
	case t.Internal:
		sc.PermitInternalIf(t.Trigger, to, guard, opts...)
	default:
		sc.PermitIf(t.Trigger, to, guard, opts...)
	}
	return nil
}
