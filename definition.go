package actorhsm

import "fmt"

// DefaultMaxActiveRegions bounds the number of simultaneously active leaves
// a machine may have (the size of active_leaves) absent an explicit
// WithMaxActiveRegions option on NewMachine. NewInstance pre-sizes the
// initial active-leaf slice to this bound; each transition builds a fresh
// slice in spliceActive, so the engine still allocates on the hot path.
const DefaultMaxActiveRegions = 8

// MachineDefinition is the immutable, shared-by-all-instances description
// of a machine type: §3's "machine description". It is produced by
// whatever external process lowers a statechart declaration into tables
// (out of scope here — this package only consumes it) and is never mutated
// after NewMachine.
type MachineDefinition[C any] struct {
	States      []StateNode[C]
	Transitions []Transition[C]
	Initial     StateID
}

// Validate checks the construction-time invariants from §3: unique state
// ids, a forest of parent links, every compound/parallel state has a valid
// DefaultChild, every parallel state has at least two compound/parallel
// children, and no cycles. It does not check reachability of transition
// targets beyond existence.
func (d *MachineDefinition[C]) Validate() error {
	byID := make(map[StateID]*StateNode[C], len(d.States))
	for i := range d.States {
		s := &d.States[i]
		if s.ID == "" {
			return fmt.Errorf("machinedef: state at index %d has empty ID", i)
		}
		if _, dup := byID[s.ID]; dup {
			return fmt.Errorf("machinedef: duplicate state id %q", s.ID)
		}
		byID[s.ID] = s
	}

	children := make(map[StateID][]StateID, len(d.States))
	for i := range d.States {
		s := &d.States[i]
		if s.Parent == "" {
			continue
		}
		if _, ok := byID[s.Parent]; !ok {
			return fmt.Errorf("machinedef: state %q has unknown parent %q", s.ID, s.Parent)
		}
		children[s.Parent] = append(children[s.Parent], s.ID)
	}

	// No cycles in parent links.
	for i := range d.States {
		seen := make(map[StateID]bool)
		for cur := d.States[i].ID; cur != ""; {
			if seen[cur] {
				return fmt.Errorf("machinedef: cycle in parent links reaching %q", cur)
			}
			seen[cur] = true
			parent := byID[cur].Parent
			cur = parent
		}
	}

	for i := range d.States {
		s := &d.States[i]
		switch s.Kind {
		case Atomic:
			if len(children[s.ID]) != 0 {
				return fmt.Errorf("machinedef: atomic state %q has children", s.ID)
			}
		case Compound:
			if s.DefaultChild == "" {
				return fmt.Errorf("machinedef: compound state %q has no DefaultChild", s.ID)
			}
			if !containsID(children[s.ID], s.DefaultChild) {
				return fmt.Errorf("machinedef: compound state %q DefaultChild %q is not a child", s.ID, s.DefaultChild)
			}
		case Parallel:
			regions := children[s.ID]
			if len(regions) < 2 {
				return fmt.Errorf("machinedef: parallel state %q needs >=2 regions, has %d", s.ID, len(regions))
			}
			for _, r := range regions {
				region := byID[r]
				if region.Kind == Atomic {
					return fmt.Errorf("machinedef: parallel state %q region %q must be compound or parallel", s.ID, r)
				}
				if region.Kind == Compound && region.DefaultChild == "" {
					return fmt.Errorf("machinedef: parallel state %q region %q has no DefaultChild", s.ID, r)
				}
			}
		default:
			return fmt.Errorf("machinedef: state %q has unknown kind %v", s.ID, s.Kind)
		}
	}

	if _, ok := byID[d.Initial]; !ok {
		return fmt.Errorf("machinedef: initial state %q not found", d.Initial)
	}

	for i, t := range d.Transitions {
		if _, ok := byID[t.Source]; !ok {
			return fmt.Errorf("machinedef: transition %d source %q not found", i, t.Source)
		}
		if _, ok := byID[t.Target]; !ok {
			return fmt.Errorf("machinedef: transition %d target %q not found", i, t.Target)
		}
		if t.Match == nil {
			return fmt.Errorf("machinedef: transition %d (%s->%s) has nil Match", i, t.Source, t.Target)
		}
	}

	return nil
}

func containsID(ids []StateID, id StateID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// compiled is the lookup-friendly form of a MachineDefinition, computed
// once by NewMachine and shared read-only by every Instance built from
// it — analogous to the stateCache/ancestorCache precomputed in the
// teacher's table-driven interpreter, but keyed by StateID rather than
// dotted path strings so lookups don't allocate.
type compiled[C any] struct {
	def             *MachineDefinition[C]
	byID            map[StateID]*StateNode[C]
	children        map[StateID][]StateID // declaration order preserved
	transitionsFrom map[StateID][]*Transition[C]
	maxActiveRegions int
}

func compile[C any](def *MachineDefinition[C], maxActiveRegions int) (*compiled[C], error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	c := &compiled[C]{
		def:              def,
		byID:             make(map[StateID]*StateNode[C], len(def.States)),
		children:         make(map[StateID][]StateID, len(def.States)),
		transitionsFrom:  make(map[StateID][]*Transition[C], len(def.Transitions)),
		maxActiveRegions: maxActiveRegions,
	}
	for i := range def.States {
		s := &def.States[i]
		c.byID[s.ID] = s
		if s.Parent != "" {
			c.children[s.Parent] = append(c.children[s.Parent], s.ID)
		}
	}
	for i := range def.Transitions {
		t := &def.Transitions[i]
		c.transitionsFrom[t.Source] = append(c.transitionsFrom[t.Source], t)
	}
	return c, nil
}

func (c *compiled[C]) node(id StateID) *StateNode[C] { return c.byID[id] }

// StateDescriptor is a dependency-free view of one compiled StateNode,
// exposed for tooling (visualization, YAML export) that has no business
// touching action/guard function values.
type StateDescriptor struct {
	ID           StateID
	Parent       StateID
	Kind         StateKind
	DefaultChild StateID
}

// TransitionDescriptor is a dependency-free view of one compiled
// Transition, omitting the Match/Guard/Action function values.
type TransitionDescriptor struct {
	Source StateID
	Target StateID
}

// Describe returns every state in declaration order, for tooling built
// against the exported surface rather than the unexported compiled index.
func (m *Machine[C]) Describe() []StateDescriptor {
	out := make([]StateDescriptor, len(m.c.def.States))
	for i, s := range m.c.def.States {
		out[i] = StateDescriptor{ID: s.ID, Parent: s.Parent, Kind: s.Kind, DefaultChild: s.DefaultChild}
	}
	return out
}

// Transitions returns every transition in declaration order.
func (m *Machine[C]) Transitions() []TransitionDescriptor {
	out := make([]TransitionDescriptor, len(m.c.def.Transitions))
	for i, t := range m.c.def.Transitions {
		out[i] = TransitionDescriptor{Source: t.Source, Target: t.Target}
	}
	return out
}

// ancestorsInclusive returns [id, parent(id), ..., root] for id.
func (c *compiled[C]) ancestorsInclusive(id StateID) []StateID {
	var chain []StateID
	for cur := id; cur != ""; {
		chain = append(chain, cur)
		cur = c.byID[cur].Parent
	}
	return chain
}

