// Package production adapts a compiled actorhsm.Machine for production
// concerns the core engine itself stays silent on: loading a machine
// description from YAML, structured logging of transitions, and DOT
// visualization of a running instance.
package production

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/corvidlabs/actorhsm"
)

// RawState is the YAML shape of one state, mirroring
// actorhsm.StateDescriptor but with a string Kind (YAML has no enum
// type) and action/guard references resolved by name rather than value.
type RawState struct {
	ID           string `yaml:"id"`
	Parent       string `yaml:"parent,omitempty"`
	Kind         string `yaml:"kind"`
	DefaultChild string `yaml:"default_child,omitempty"`
	Entry        string `yaml:"entry,omitempty"`
	Exit         string `yaml:"exit,omitempty"`
}

// RawTransition is the YAML shape of one transition. Match is always by
// event type equality when loaded this way — payload-based or wildcard
// matching requires building the MachineDefinition programmatically.
type RawTransition struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
	Event  string `yaml:"event"`
	Guard  string `yaml:"guard,omitempty"`
	Action string `yaml:"action,omitempty"`
}

// RawMachine is the top-level YAML document shape.
type RawMachine struct {
	Initial     string          `yaml:"initial"`
	States      []RawState      `yaml:"states"`
	Transitions []RawTransition `yaml:"transitions"`
}

// ParseMachineYAML decodes a YAML document into a RawMachine, the
// producer-side artifact described in spec §6 before action/guard
// functions are bound to it.
func ParseMachineYAML(data []byte) (RawMachine, error) {
	var raw RawMachine
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return RawMachine{}, fmt.Errorf("production: decode machine yaml: %w", err)
	}
	return raw, nil
}

// ActionLookup resolves the named action references a RawMachine's
// states/transitions carry into the actual ActionFunc[C] values the
// engine runs. A name with no entry in the lookup is left nil (no-op).
type ActionLookup[C any] map[string]actorhsm.ActionFunc[C]

// GuardLookup resolves named guard references the same way.
type GuardLookup[C any] map[string]actorhsm.GuardFunc[C]

// Build lowers raw into an actorhsm.MachineDefinition[C], binding named
// entry/exit/transition actions and guards via actions/guards. This is
// the YAML-driven alternative to building a MachineDefinition by hand;
// it does not replace the out-of-scope DSL front-end — it is one
// concrete, minimal producer of the §6 "machine description" artifact.
func Build[C any](raw RawMachine, actions ActionLookup[C], guards GuardLookup[C]) (*actorhsm.MachineDefinition[C], error) {
	states := make([]actorhsm.StateNode[C], len(raw.States))
	for i, rs := range raw.States {
		kind, err := parseKind(rs.Kind)
		if err != nil {
			return nil, fmt.Errorf("production: state %q: %w", rs.ID, err)
		}
		states[i] = actorhsm.StateNode[C]{
			ID:           actorhsm.StateID(rs.ID),
			Parent:       actorhsm.StateID(rs.Parent),
			Kind:         kind,
			DefaultChild: actorhsm.StateID(rs.DefaultChild),
			Entry:        actions[rs.Entry],
			Exit:         actions[rs.Exit],
		}
	}

	transitions := make([]actorhsm.Transition[C], len(raw.Transitions))
	for i, rt := range raw.Transitions {
		if rt.Event == "" {
			return nil, fmt.Errorf("production: transition %d (%s->%s) has no event", i, rt.Source, rt.Target)
		}
		transitions[i] = actorhsm.Transition[C]{
			Source: actorhsm.StateID(rt.Source),
			Target: actorhsm.StateID(rt.Target),
			Match:  actorhsm.OnType(rt.Event),
			Guard:  guards[rt.Guard],
			Action: actions[rt.Action],
		}
	}

	return &actorhsm.MachineDefinition[C]{
		States:      states,
		Transitions: transitions,
		Initial:     actorhsm.StateID(raw.Initial),
	}, nil
}

func parseKind(s string) (actorhsm.StateKind, error) {
	switch s {
	case "atomic":
		return actorhsm.Atomic, nil
	case "compound":
		return actorhsm.Compound, nil
	case "parallel":
		return actorhsm.Parallel, nil
	default:
		return 0, fmt.Errorf("unknown state kind %q", s)
	}
}
