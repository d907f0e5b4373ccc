package actorhsm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidlabs/actorhsm"
)

type scenarioACtx struct {
	count int
	log   []string
}

func (c *scenarioACtx) record(tag string) { c.log = append(c.log, tag) }

func scenarioADef() *actorhsm.MachineDefinition[*scenarioACtx] {
	return &actorhsm.MachineDefinition[*scenarioACtx]{
		Initial: "S1",
		States: []actorhsm.StateNode[*scenarioACtx]{
			{
				ID:   "S1",
				Kind: actorhsm.Atomic,
				Entry: func(c *scenarioACtx, ev actorhsm.Event) error {
					c.record("e1")
					return nil
				},
				Exit: func(c *scenarioACtx, ev actorhsm.Event) error {
					c.record("x1")
					return nil
				},
			},
			{ID: "S2", Kind: actorhsm.Atomic},
		},
		Transitions: []actorhsm.Transition[*scenarioACtx]{
			{
				Source: "S1", Target: "S2", Match: actorhsm.OnType("Inc"),
				Guard: func(c *scenarioACtx, ev actorhsm.Event) bool { return c.count < 2 },
				Action: func(c *scenarioACtx, ev actorhsm.Event) error {
					c.count++
					c.record("inc_count")
					return nil
				},
			},
			{Source: "S1", Target: "S1", Match: actorhsm.OnType("Dec")},
			{Source: "S2", Target: "S1", Match: actorhsm.OnType("Reset")},
		},
	}
}

// TestScenarioABasicNestedTransitionWithGuards reproduces spec.md's
// Scenario A verbatim.
func TestScenarioABasicNestedTransitionWithGuards(t *testing.T) {
	m, err := actorhsm.NewMachine(scenarioADef())
	require.NoError(t, err)

	c := &scenarioACtx{}
	inst, err := actorhsm.NewInstance(m, c, actorhsm.Event{})
	require.NoError(t, err)

	assert.Equal(t, []actorhsm.StateID{"S1"}, inst.State())
	assert.Equal(t, 0, c.count)
	assert.Equal(t, []string{"e1"}, c.log)

	c.log = nil
	outcome, err := inst.Send(actorhsm.NewEvent("Inc", nil))
	require.NoError(t, err)
	assert.Equal(t, actorhsm.Transitioned, outcome)
	assert.Equal(t, []actorhsm.StateID{"S2"}, inst.State())
	assert.Equal(t, 1, c.count)
	assert.Equal(t, []string{"x1", "inc_count"}, c.log)

	c.log = nil
	_, err = inst.Send(actorhsm.NewEvent("Reset", nil))
	require.NoError(t, err)
	assert.Equal(t, []actorhsm.StateID{"S1"}, inst.State())
	assert.Equal(t, []string{"e1"}, c.log)

	_, err = inst.Send(actorhsm.NewEvent("Inc", nil))
	require.NoError(t, err)
	assert.Equal(t, []actorhsm.StateID{"S2"}, inst.State())
	assert.Equal(t, 2, c.count)

	_, err = inst.Send(actorhsm.NewEvent("Reset", nil))
	require.NoError(t, err)
	assert.Equal(t, []actorhsm.StateID{"S1"}, inst.State())

	c.log = nil
	outcome, err = inst.Send(actorhsm.NewEvent("Inc", nil))
	require.NoError(t, err)
	assert.Equal(t, actorhsm.NoMatch, outcome)
	assert.Equal(t, []actorhsm.StateID{"S1"}, inst.State())
	assert.Equal(t, 2, c.count)
	assert.Empty(t, c.log)
}

type regionCtx struct {
	log []string
}

func (c *regionCtx) record(tag string) { c.log = append(c.log, tag) }

func parallelRegionsDef(withExit bool) *actorhsm.MachineDefinition[*regionCtx] {
	entryTag := func(tag string) actorhsm.ActionFunc[*regionCtx] {
		return func(c *regionCtx, ev actorhsm.Event) error { c.record(tag); return nil }
	}
	exitTag := func(tag string) actorhsm.ActionFunc[*regionCtx] {
		return func(c *regionCtx, ev actorhsm.Event) error { c.record(tag); return nil }
	}

	states := []actorhsm.StateNode[*regionCtx]{
		{ID: "P", Kind: actorhsm.Parallel, Entry: entryTag("enter P"), Exit: exitTag("exit P")},
		{ID: "R1", Parent: "P", Kind: actorhsm.Compound, DefaultChild: "R1A", Entry: entryTag("enter R1"), Exit: exitTag("exit R1")},
		{ID: "R1A", Parent: "R1", Kind: actorhsm.Atomic, Entry: entryTag("enter R1A"), Exit: exitTag("exit R1A")},
		{ID: "R2", Parent: "P", Kind: actorhsm.Compound, DefaultChild: "R2X", Entry: entryTag("enter R2"), Exit: exitTag("exit R2")},
		{ID: "R2X", Parent: "R2", Kind: actorhsm.Atomic, Entry: entryTag("enter R2X"), Exit: exitTag("exit R2X")},
	}
	transitions := []actorhsm.Transition[*regionCtx]{
		{Source: "R1A", Target: "R1A", Match: actorhsm.OnType("EvR1"), Action: func(c *regionCtx, ev actorhsm.Event) error {
			c.record("a1")
			return nil
		}},
		{Source: "R2X", Target: "R2X", Match: actorhsm.OnType("EvR2"), Action: func(c *regionCtx, ev actorhsm.Event) error {
			c.record("a2")
			return nil
		}},
	}
	if withExit {
		states = append(states, actorhsm.StateNode[*regionCtx]{ID: "Outside", Kind: actorhsm.Atomic})
		transitions = append(transitions, actorhsm.Transition[*regionCtx]{
			Source: "P", Target: "Outside", Match: actorhsm.OnType("EvExit"),
		})
	}
	return &actorhsm.MachineDefinition[*regionCtx]{Initial: "P", States: states, Transitions: transitions}
}

// TestScenarioBParallelRegionsIndependentEvents reproduces spec.md's
// Scenario B: an event local to one region leaves the other untouched.
func TestScenarioBParallelRegionsIndependentEvents(t *testing.T) {
	m, err := actorhsm.NewMachine(parallelRegionsDef(false))
	require.NoError(t, err)

	c := &regionCtx{}
	inst, err := actorhsm.NewInstance(m, c, actorhsm.Event{})
	require.NoError(t, err)

	assert.ElementsMatch(t, []actorhsm.StateID{"R1A", "R2X"}, inst.State())

	c.log = nil
	outcome, err := inst.Send(actorhsm.NewEvent("EvR1", nil))
	require.NoError(t, err)
	assert.Equal(t, actorhsm.Transitioned, outcome)
	assert.ElementsMatch(t, []actorhsm.StateID{"R1A", "R2X"}, inst.State())
	assert.Equal(t, []string{"exit R1A", "a1", "enter R1A"}, c.log)
}

// TestScenarioCExitAllRegionsViaParentTransition reproduces spec.md's
// Scenario C: a transition declared on the parallel state itself exits
// every region before entering the target.
func TestScenarioCExitAllRegionsViaParentTransition(t *testing.T) {
	m, err := actorhsm.NewMachine(parallelRegionsDef(true))
	require.NoError(t, err)

	c := &regionCtx{}
	inst, err := actorhsm.NewInstance(m, c, actorhsm.Event{})
	require.NoError(t, err)

	c.log = nil
	outcome, err := inst.Send(actorhsm.NewEvent("EvExit", nil))
	require.NoError(t, err)
	assert.Equal(t, actorhsm.Transitioned, outcome)
	assert.Equal(t, []actorhsm.StateID{"Outside"}, inst.State())
	assert.Equal(t, []string{"exit R1A", "exit R1", "exit R2X", "exit R2", "exit P"}, c.log)
}

// TestSelfTransitionExitsAndReentersSource covers the self-transition LCA
// special case documented in DESIGN.md: src == target takes the parent as
// LCA, so the source itself is exited and re-entered (not a no-op) while
// the parent region stays entered.
func TestSelfTransitionExitsAndReentersSource(t *testing.T) {
	m, err := actorhsm.NewMachine(parallelRegionsDef(false))
	require.NoError(t, err)

	c := &regionCtx{}
	inst, err := actorhsm.NewInstance(m, c, actorhsm.Event{})
	require.NoError(t, err)

	c.log = nil
	_, err = inst.Send(actorhsm.NewEvent("EvR2", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"exit R2X", "a2", "enter R2X"}, c.log)
}

func TestNewInstanceEntersInitialSubtree(t *testing.T) {
	m, err := actorhsm.NewMachine(parallelRegionsDef(false))
	require.NoError(t, err)

	c := &regionCtx{}
	_, err = actorhsm.NewInstance(m, c, actorhsm.Event{})
	require.NoError(t, err)
	assert.Equal(t, []string{"enter P", "enter R1", "enter R1A", "enter R2", "enter R2X"}, c.log)
}
