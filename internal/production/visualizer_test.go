// Tests for DOT export.
package production

import (
	"strings"
	"testing"

	"github.com/comalice/fsmx/internal/primitives"
)

func TestExportDOT_Simple(t *testing.T) {
	mc := primitives.NewMachineConfig[string, string]()
	mc.Configure("s1").Permit("e1", "s2")
	mc.Configure("s2")

	dot := ExportDOT(mc, "s2")

	if !strings.HasPrefix(dot, "digraph StateMachine {") {
		t.Error("Missing DOT header")
	}
	if !strings.Contains(dot, `"s1" [label="s1"]`) {
		t.Error("Missing state node s1")
	}
	if !strings.Contains(dot, `"s2" [label="s2" style="rounded,filled" fillcolor=lightgreen]`) {
		t.Errorf("Missing active state highlight:\n%s", dot)
	}
	if !strings.Contains(dot, `"s1" -> "s2" [label="e1"]`) {
		t.Error("Missing transition edge")
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("Missing closing brace")
	}
}

func TestExportDOT_EdgeStyles(t *testing.T) {
	mc := primitives.NewMachineConfig[string, string]()
	mc.Configure("WAITING").
		PermitIf("FINISH", "DONE", func() bool { return true }).
		PermitInternal("POLL", "WAITING")

	dot := ExportDOT(mc, "WAITING")

	if !strings.Contains(dot, `"WAITING" -> "DONE" [label="FINISH [guard]" style=dashed]`) {
		t.Errorf("Missing guarded edge:\n%s", dot)
	}
	if !strings.Contains(dot, `"WAITING" -> "WAITING" [label="POLL" style=dotted]`) {
		t.Errorf("Missing internal edge:\n%s", dot)
	}
	if !strings.Contains(dot, `"DONE" [label="DONE"]`) {
		t.Error("Unconfigured destination should still be rendered")
	}
}

func TestExportDOT_IntStates(t *testing.T) {
	mc := primitives.NewMachineConfig[int, int]()
	mc.Configure(1).Permit(10, 2)

	dot := ExportDOT(mc, 1)
	if !strings.Contains(dot, `"1" -> "2" [label="10"]`) {
		t.Errorf("Missing edge for int states:\n%s", dot)
	}
}
