// Package production provides integrations around the engine: Graphviz export,
// transition record publishing and declarative machine definitions.
package production

import (
	"bytes"
	"fmt"

	"github.com/comalice/fsmx/internal/primitives"
)

// Edge represents a transition edge.
type Edge struct {
	From  string
	To    string
	Label string
	Style string
}

// ExportDOT generates Graphviz DOT source for config with current highlighted.
// Destinations that were never configured are rendered as plain nodes.
func ExportDOT[S, T comparable](config *primitives.MachineConfig[S, T], current S) string {
	var buf bytes.Buffer
	buf.WriteString(`digraph StateMachine {
  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)

	nodes := make(map[string]bool)
	var order []string
	addNode := func(name string) {
		if !nodes[name] {
			nodes[name] = true
			order = append(order, name)
		}
	}
	for _, state := range config.States() {
		addNode(fmt.Sprint(state))
	}
	edges := collectEdges(config)
	for _, e := range edges {
		addNode(e.To)
	}

	active := fmt.Sprint(current)
	for _, name := range order {
		style := ""
		if name == active {
			style = ` style="rounded,filled" fillcolor=lightgreen`
		}
		fmt.Fprintf(&buf, "  %q [label=%q%s];\n", name, name, style)
	}
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q%s];\n", e.From, e.To, e.Label, e.Style)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// collectEdges lists every registered transition in configuration order.
// Guarded edges are labelled with a [guard] suffix and drawn dashed; internal
// edges are drawn dotted.
func collectEdges[S, T comparable](config *primitives.MachineConfig[S, T]) []Edge {
	var edges []Edge
	for _, state := range config.States() {
		sc, _ := config.Lookup(state)
		for _, t := range sc.Transitions() {
			e := Edge{
				From:  fmt.Sprint(t.Source()),
				To:    fmt.Sprint(t.Destination()),
				Label: fmt.Sprint(t.Trigger()),
			}
			if t.Conditional() {
				e.Label += " [guard]"
				e.Style = " style=dashed"
			}
			if t.Internal() {
				e.Style = " style=dotted"
			}
			edges = append(edges, e)
		}
	}
	return edges
}
