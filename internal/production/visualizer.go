package production

import (
	"bytes"
	"fmt"

	"github.com/corvidlabs/actorhsm"
)

// ExportDOT renders m's state hierarchy as Graphviz DOT source, marking
// every id in active as filled. Adapted from the teacher's
// DefaultVisualizer.ExportDOT: that version walked primitives.StateConfig
// trees built from a config's Children slices; this one walks
// actorhsm.StateDescriptor/TransitionDescriptor, which index states by
// parent id rather than nesting them, so roots/children are recomputed
// from the flat list instead of being given structurally.
func ExportDOT[C any](m *actorhsm.Machine[C], active []actorhsm.StateID) string {
	states := m.Describe()
	activeSet := make(map[actorhsm.StateID]bool, len(active))
	for _, id := range active {
		activeSet[id] = true
	}

	children := make(map[actorhsm.StateID][]actorhsm.StateDescriptor)
	byID := make(map[actorhsm.StateID]actorhsm.StateDescriptor, len(states))
	var roots []actorhsm.StateDescriptor
	for _, s := range states {
		byID[s.ID] = s
		if s.Parent == "" {
			roots = append(roots, s)
		} else {
			children[s.Parent] = append(children[s.Parent], s)
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph Statechart {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, fontsize=10, style=rounded];\n")
	buf.WriteString("  edge [fontsize=9];\n")

	for _, root := range roots {
		renderState(&buf, root, children, activeSet)
	}

	for _, t := range m.Transitions() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", t.Source, t.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func renderState(buf *bytes.Buffer, s actorhsm.StateDescriptor, children map[actorhsm.StateID][]actorhsm.StateDescriptor, active map[actorhsm.StateID]bool) {
	kids := children[s.ID]
	if len(kids) == 0 {
		style := ""
		if active[s.ID] {
			style = " style=filled fillcolor=lightgreen"
		}
		fmt.Fprintf(buf, "  %q [label=%q%s];\n", s.ID, s.ID, style)
		return
	}

	fmt.Fprintf(buf, "  subgraph cluster_%s {\n", s.ID)
	label := fmt.Sprintf("%s (%s)", s.ID, s.Kind)
	style := ""
	if active[s.ID] {
		style = " style=filled fillcolor=orange"
	} else if s.Kind == actorhsm.Parallel {
		style = " style=filled fillcolor=lightblue"
	}
	fmt.Fprintf(buf, "    label=%q%s;\n", label, style)
	for _, child := range kids {
		renderState(buf, child, children, active)
	}
	buf.WriteString("  }\n")
}
