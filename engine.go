package actorhsm

import "fmt"

// CompileOption configures NewMachine.
type CompileOption func(*compileConfig)

type compileConfig struct {
	maxActiveRegions int
}

// WithMaxActiveRegions overrides DefaultMaxActiveRegions. Set it to the
// largest number of simultaneously active leaves the machine's parallel
// regions can ever produce; NewInstance and Send report CapacityExceeded
// if a transition would require more.
func WithMaxActiveRegions(n int) CompileOption {
	return func(c *compileConfig) { c.maxActiveRegions = n }
}

// Machine is a compiled, immutable MachineDefinition: the shared, reusable
// form every Instance of a given machine type is built from. Compiling
// once and constructing many Instances from the result is the intended
// usage — the lookup tables in compiled are computed a single time.
type Machine[C any] struct {
	c *compiled[C]
}

// NewMachine validates def and precomputes the lookup tables the engine
// needs, returning a reusable Machine. The Machine keeps def and pointers
// into its States and Transitions slices, so def must not be mutated
// afterward.
func NewMachine[C any](def *MachineDefinition[C], opts ...CompileOption) (*Machine[C], error) {
	cfg := compileConfig{maxActiveRegions: DefaultMaxActiveRegions}
	for _, o := range opts {
		o(&cfg)
	}
	c, err := compile(def, cfg.maxActiveRegions)
	if err != nil {
		return nil, err
	}
	return &Machine[C]{c: c}, nil
}

// Instance is one running statechart: the active leaf set plus the
// user-owned context, per §3's runtime state. An Instance is not safe for
// concurrent use by multiple goroutines — the actor package's loop is
// exactly the mechanism that gives it a single owner.
type Instance[C any] struct {
	m      *Machine[C]
	ctx    C
	active []StateID
}

// NewInstance constructs a running Instance from m, running entry actions
// from the root down to the default initial leaf (or, for a parallel root,
// down to each region's default leaf) per §4.1's construction algorithm.
// primingEvent is passed to every entry action run during construction; a
// zero Event is a reasonable default when no priming payload is needed.
func NewInstance[C any](m *Machine[C], ctx C, primingEvent Event) (*Instance[C], error) {
	inst := &Instance[C]{
		m:      m,
		ctx:    ctx,
		active: make([]StateID, 0, m.c.maxActiveRegions),
	}
	if err := inst.enterInitial(primingEvent); err != nil {
		return nil, err
	}
	if len(inst.active) > m.c.maxActiveRegions {
		return nil, &ProcessingError{
			Kind:  CapacityExceeded,
			State: m.c.def.Initial,
			Err:   fmt.Errorf("initial configuration has %d active leaves, max is %d", len(inst.active), m.c.maxActiveRegions),
		}
	}
	return inst, nil
}

// State returns a copy of the currently active leaf set. Ordering is
// stable across calls (per §3) but not semantically significant.
func (inst *Instance[C]) State() []StateID {
	out := make([]StateID, len(inst.active))
	copy(out, inst.active)
	return out
}

// Context returns the instance's mutable context by value (for C a
// pointer type, callers reach the same underlying data as actions do).
func (inst *Instance[C]) Context() C {
	return inst.ctx
}

func (inst *Instance[C]) isActive(id StateID) bool {
	for _, a := range inst.active {
		if a == id {
			return true
		}
	}
	return false
}

func (inst *Instance[C]) enterInitial(ev Event) error {
	chain := inst.m.c.ancestorsInclusive(inst.m.c.def.Initial)
	reverseIDs(chain) // root-first

	for i, id := range chain {
		s := inst.m.c.node(id)
		if s == nil {
			return &ProcessingError{Kind: MalformedMachine, State: id, Err: fmt.Errorf("unknown state in initial chain")}
		}
		if err := runEntry(s, inst.ctx, ev); err != nil {
			return &ProcessingError{Kind: EntryLogicFailure, State: id, Err: err}
		}
		switch s.Kind {
		case Atomic:
			inst.active = append(inst.active, id)
			return nil
		case Parallel:
			for _, region := range inst.m.c.children[id] {
				leaves, err := inst.enterDefaultSubtree(region, ev)
				if err != nil {
					return err
				}
				inst.active = append(inst.active, leaves...)
			}
			return nil
		case Compound:
			// Entry already run above; the next chain element is this
			// state's child on the path to the designated Initial state,
			// continue the loop.
			if i+1 >= len(chain) {
				return &ProcessingError{Kind: MalformedMachine, State: id, Err: fmt.Errorf("compound state at end of initial chain")}
			}
		}
	}
	return nil
}

func runEntry[C any](s *StateNode[C], ctx C, ev Event) error {
	if s.Entry == nil {
		return nil
	}
	return s.Entry(ctx, ev)
}

func runExit[C any](s *StateNode[C], ctx C, ev Event) error {
	if s.Exit == nil {
		return nil
	}
	return s.Exit(ctx, ev)
}

func reverseIDs(ids []StateID) {
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
}
