package primitives

import (
	"errors"
	"strings"
	"testing"
)

func TestMachineConfigConfigureIsIdempotent(t *testing.T) {
	mc := NewMachineConfig[state, trigger]()
	first := mc.Configure(stateA)
	second := mc.Configure(stateA)
	if first != second {
		t.Error("Configure should return the same StateConfig for an equal state")
	}

	mc.Configure(stateB)
	states := mc.States()
	if len(states) != 2 || states[0] != stateA || states[1] != stateB {
		t.Errorf("States() = %v, want [A B]", states)
	}
}

func TestMachineConfigLookupDoesNotCreate(t *testing.T) {
	mc := NewMachineConfig[state, trigger]()
	if _, ok := mc.Lookup(stateA); ok {
		t.Error("Lookup on empty config should report false")
	}
	if len(mc.States()) != 0 {
		t.Errorf("Lookup created a state: %v", mc.States())
	}

	sc := mc.Configure(stateA)
	got, ok := mc.Lookup(stateA)
	if !ok || got != sc {
		t.Error("Lookup should return the configured StateConfig")
	}
}

func TestMachineConfigResolveTransition(t *testing.T) {
	mc := NewMachineConfig[state, trigger]()
	mc.Configure(stateA).Permit(trigGo, stateB)

	tr, err := mc.ResolveTransition(stateA, trigGo)
	if err != nil {
		t.Fatalf("ResolveTransition: %v", err)
	}
	if tr.Destination() != stateB {
		t.Errorf("Destination() = %v, want B", tr.Destination())
	}

	if _, err := mc.ResolveTransition(stateA, trigStop); !errors.Is(err, ErrNoTransition) {
		t.Errorf("unregistered trigger: got %v, want ErrNoTransition", err)
	}
	if _, err := mc.ResolveTransition(stateC, trigGo); !errors.Is(err, ErrUnconfiguredState) {
		t.Errorf("unconfigured state: got %v, want ErrUnconfiguredState", err)
	}
}

func TestMachineConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		build   func(mc *MachineConfig[state, trigger])
		wantErr []error
	}{
		{
			name:  "empty",
			build: func(mc *MachineConfig[state, trigger]) {},
		},
		{
			name: "valid",
			build: func(mc *MachineConfig[state, trigger]) {
				mc.Configure(stateA).Permit(trigGo, stateB).PermitIf(trigStop, stateC, always)
				mc.Configure(stateB).PermitInternal(trigGo, stateB)
			},
		},
		{
			name: "errors across states are joined",
			build: func(mc *MachineConfig[state, trigger]) {
				mc.Configure(stateA).Permit("", stateB)
				mc.Configure(stateB).PermitIf(trigGo, stateC, nil)
			},
			wantErr: []error{ErrInvalidTrigger, ErrNilGuard},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc := NewMachineConfig[state, trigger]()
			tt.build(mc)
			err := mc.Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			for _, want := range tt.wantErr {
				if !errors.Is(err, want) {
					t.Errorf("Validate() = %v, want %v", err, want)
				}
			}
		})
	}
}

func TestOutcome(t *testing.T) {
	mc := NewMachineConfig[state, trigger]()
	mc.Configure(stateA).PermitInternal(trigGo, stateA)
	tr, err := mc.ResolveTransition(stateA, trigGo)
	if err != nil {
		t.Fatalf("ResolveTransition: %v", err)
	}

	ok := Outcome[state, trigger]{From: stateA, Trigger: trigGo, To: stateA, Transition: tr}
	if !ok.Internal() || !ok.Reentrant() {
		t.Errorf("Internal()=%t Reentrant()=%t, want both true", ok.Internal(), ok.Reentrant())
	}
	if got := ok.String(); got != "A --go--> A" {
		t.Errorf("String() = %q", got)
	}

	failed := Fail[state, trigger](stateA, trigStop, ErrNoTransition)
	if !failed.Failed || failed.To != stateA || failed.Transition != nil {
		t.Errorf("Fail() = %+v", failed)
	}
	if failed.Internal() {
		t.Error("failed outcome should not be internal")
	}
	if !strings.Contains(failed.String(), "failed") {
		t.Errorf("String() = %q, want it to mention failure", failed.String())
	}
}

func TestCallbackError(t *testing.T) {
	cause := errors.New("motor stalled")
	err := error(&CallbackError{Phase: PhaseEntry, Err: cause})
	if !errors.Is(err, cause) {
		t.Error("CallbackError should unwrap to its cause")
	}
	if err.Error() != "entry callback: motor stalled" {
		t.Errorf("Error() = %q", err.Error())
	}

	var cbErr *CallbackError
	if !errors.As(err, &cbErr) || cbErr.Phase != PhaseEntry {
		t.Errorf("errors.As failed or wrong phase: %v", cbErr)
	}
}
