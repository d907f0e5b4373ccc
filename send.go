package actorhsm

import "fmt"

// Send delivers ev to the instance, implementing §4.1 steps 1-7.
//
// Each currently active leaf is offered the event independently: for every
// leaf, the engine walks from the leaf up to the root and selects the
// first enabled transition it finds (declaration order breaks ties within
// a single state's transition list). Distinct leaves may select distinct
// transitions — parallel regions transition independently — but a
// transition found via a shared ancestor of several leaves still executes
// exactly once, exiting every region beneath that ancestor.
//
// Send returns NoMatch, nil when no active leaf has an enabled transition;
// active_leaves and the context are left untouched. It returns a
// *ProcessingError for a host action failure or a capacity violation; in
// both cases the active-leaf bookkeeping is left as it stood before the
// failing transition; ctx mutations already performed by actions that ran
// before the failure are not rolled back.
func (inst *Instance[C]) Send(ev Event) (Outcome, error) {
	leavesSnapshot := append([]StateID(nil), inst.active...)
	transitioned := false

	for _, leaf := range leavesSnapshot {
		if !inst.isActive(leaf) {
			// Consumed by a wider transition triggered by an earlier leaf
			// in this same Send (e.g. an ancestor-sourced transition that
			// exited this leaf's whole region).
			continue
		}
		src, t := inst.findEnabledTransition(leaf, ev)
		if t == nil {
			continue
		}
		if err := inst.applyTransition(src, t, ev); err != nil {
			return 0, err
		}
		transitioned = true
	}

	if !transitioned {
		return NoMatch, nil
	}
	return Transitioned, nil
}

func (inst *Instance[C]) findEnabledTransition(leaf StateID, ev Event) (StateID, *Transition[C]) {
	for _, anc := range inst.m.c.ancestorsInclusive(leaf) {
		for _, t := range inst.m.c.transitionsFrom[anc] {
			if t.enabled(inst.ctx, ev) {
				return anc, t
			}
		}
	}
	return "", nil
}

func (inst *Instance[C]) applyTransition(src StateID, t *Transition[C], ev Event) error {
	c := inst.m.c
	lca := c.lca(src, t.Target)

	exitRoot := c.childTowards(src, lca)
	activeSet := inst.activeAncestorSet()
	exitOrder, exitedLeaves, err := inst.exitSubtree(exitRoot, activeSet)
	if err != nil {
		return err
	}

	for _, id := range exitOrder {
		s := c.node(id)
		if err := runExit(s, inst.ctx, ev); err != nil {
			return &ProcessingError{Kind: ExitLogicFailure, State: id, Err: err}
		}
	}

	if t.Action != nil {
		if err := t.Action(inst.ctx, ev); err != nil {
			return &ProcessingError{Kind: ExitLogicFailure, State: src, Err: err}
		}
	}

	entryBase := c.childTowards(t.Target, lca)
	enteredLeaves, err := inst.enterTowards(entryBase, t.Target, ev)
	if err != nil {
		return err
	}

	newCount := len(inst.active) - len(exitedLeaves) + len(enteredLeaves)
	if newCount > c.maxActiveRegions {
		return &ProcessingError{
			Kind:  CapacityExceeded,
			State: t.Target,
			Err:   fmt.Errorf("transition would require %d active leaves, max is %d", newCount, c.maxActiveRegions),
		}
	}

	inst.spliceActive(exitedLeaves, enteredLeaves)
	return nil
}

// lca returns the deepest state that is an ancestor-or-self of both a and
// b. A self-transition (a == b) is treated as exiting and re-entering a
// itself, so its LCA is a's parent rather than a.
func (c *compiled[C]) lca(a, b StateID) StateID {
	if a == b {
		return c.byID[a].Parent
	}
	ancA := c.ancestorsInclusive(a)
	ancB := c.ancestorsInclusive(b)
	reverseIDs(ancA)
	reverseIDs(ancB)
	var last StateID
	for i := 0; i < len(ancA) && i < len(ancB); i++ {
		if ancA[i] != ancB[i] {
			break
		}
		last = ancA[i]
	}
	return last
}

// childTowards returns the element of x's ancestor-inclusive chain whose
// Parent is lca: the node strictly below lca that is an ancestor-or-self
// of x. Used to find both the exit root (relative to a transition's
// source) and the entry base (relative to its target).
func (c *compiled[C]) childTowards(x, lca StateID) StateID {
	for _, id := range c.ancestorsInclusive(x) {
		if c.byID[id].Parent == lca {
			return id
		}
	}
	return x
}

func (inst *Instance[C]) activeAncestorSet() map[StateID]bool {
	set := make(map[StateID]bool)
	for _, leaf := range inst.active {
		for _, a := range inst.m.c.ancestorsInclusive(leaf) {
			set[a] = true
		}
	}
	return set
}

func (inst *Instance[C]) activeChildUnder(parent StateID, activeSet map[StateID]bool) (StateID, error) {
	for _, child := range inst.m.c.children[parent] {
		if activeSet[child] {
			return child, nil
		}
	}
	return "", &ProcessingError{Kind: MalformedMachine, State: parent, Err: fmt.Errorf("no active child found under %q", parent)}
}

// exitSubtree walks the currently active descendants of root, innermost
// first, running no actions itself but returning the order exit actions
// must run in plus the set of active_leaves entries being removed. For a
// Parallel root its regions are visited in declaration order, each
// region exited innermost-to-outermost before the next region starts —
// the mirror image of enterTowards/descendDefault's entry order, per
// §4.1 step 7 (see DESIGN.md for why this departs from the "reverse
// region declaration order" wording elsewhere in that section).
func (inst *Instance[C]) exitSubtree(root StateID, activeSet map[StateID]bool) (order []StateID, leaves []StateID, err error) {
	s := inst.m.c.node(root)
	switch s.Kind {
	case Atomic:
		return []StateID{root}, []StateID{root}, nil
	case Compound:
		child, err := inst.activeChildUnder(root, activeSet)
		if err != nil {
			return nil, nil, err
		}
		sub, subLeaves, err := inst.exitSubtree(child, activeSet)
		if err != nil {
			return nil, nil, err
		}
		return append(sub, root), subLeaves, nil
	case Parallel:
		regions := inst.m.c.children[root]
		var all, allLeaves []StateID
		for _, region := range regions {
			sub, subLeaves, err := inst.exitSubtree(region, activeSet)
			if err != nil {
				return nil, nil, err
			}
			all = append(all, sub...)
			allLeaves = append(allLeaves, subLeaves...)
		}
		return append(all, root), allLeaves, nil
	}
	return nil, nil, &ProcessingError{Kind: MalformedMachine, State: root, Err: fmt.Errorf("unknown state kind")}
}

// enterTowards runs current's entry action, then either continues toward
// target (if current is an ancestor of it) or descends current's default
// subtree (if current == target). When current is Parallel, every region
// not on the path to target is entered via its own default subtree, per
// §4.1 step 6 — entering a parallel state always enters every region.
func (inst *Instance[C]) enterTowards(current, target StateID, ev Event) ([]StateID, error) {
	c := inst.m.c
	s := c.node(current)
	if err := runEntry(s, inst.ctx, ev); err != nil {
		return nil, &ProcessingError{Kind: EntryLogicFailure, State: current, Err: err}
	}
	if current == target {
		return inst.descendDefault(current, ev)
	}
	switch s.Kind {
	case Compound:
		next := c.childTowards(target, current)
		return inst.enterTowards(next, target, ev)
	case Parallel:
		var leaves []StateID
		for _, region := range c.children[current] {
			var sub []StateID
			var err error
			if inst.isAncestorOrSelf(region, target) {
				sub, err = inst.enterTowards(region, target, ev)
			} else {
				sub, err = inst.enterDefaultSubtree(region, ev)
			}
			if err != nil {
				return nil, err
			}
			leaves = append(leaves, sub...)
		}
		return leaves, nil
	}
	return nil, &ProcessingError{Kind: MalformedMachine, State: current, Err: fmt.Errorf("atomic ancestor on path to %q", target)}
}

// enterDefaultSubtree runs id's entry action and descends its default
// children/regions, returning the resulting active leaves.
func (inst *Instance[C]) enterDefaultSubtree(id StateID, ev Event) ([]StateID, error) {
	s := inst.m.c.node(id)
	if err := runEntry(s, inst.ctx, ev); err != nil {
		return nil, &ProcessingError{Kind: EntryLogicFailure, State: id, Err: err}
	}
	return inst.descendDefault(id, ev)
}

// descendDefault recurses into id's default child (Compound) or every
// region (Parallel) without re-running id's own entry action.
func (inst *Instance[C]) descendDefault(id StateID, ev Event) ([]StateID, error) {
	s := inst.m.c.node(id)
	switch s.Kind {
	case Atomic:
		return []StateID{id}, nil
	case Compound:
		return inst.enterDefaultSubtree(s.DefaultChild, ev)
	case Parallel:
		var leaves []StateID
		for _, region := range inst.m.c.children[id] {
			sub, err := inst.enterDefaultSubtree(region, ev)
			if err != nil {
				return nil, err
			}
			leaves = append(leaves, sub...)
		}
		return leaves, nil
	}
	return nil, &ProcessingError{Kind: MalformedMachine, State: id, Err: fmt.Errorf("unknown state kind")}
}

func (inst *Instance[C]) isAncestorOrSelf(ancestor, id StateID) bool {
	for _, a := range inst.m.c.ancestorsInclusive(id) {
		if a == ancestor {
			return true
		}
	}
	return false
}

// spliceActive removes every id in exited from inst.active and inserts
// entered at the position the first removed element occupied, keeping
// active_leaves ordering stable relative to the regions that did not
// transition (needed for deterministic cross-region ordering, §5).
func (inst *Instance[C]) spliceActive(exited []StateID, entered []StateID) {
	exitedSet := make(map[StateID]bool, len(exited))
	for _, id := range exited {
		exitedSet[id] = true
	}

	kept := make([]StateID, 0, len(inst.active))
	insertAt := -1
	for _, id := range inst.active {
		if exitedSet[id] {
			if insertAt == -1 {
				insertAt = len(kept)
			}
			continue
		}
		kept = append(kept, id)
	}
	if insertAt == -1 {
		insertAt = len(kept)
	}

	result := make([]StateID, 0, len(kept)+len(entered))
	result = append(result, kept[:insertAt]...)
	result = append(result, entered...)
	result = append(result, kept[insertAt:]...)
	inst.active = result
}
