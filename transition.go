package actorhsm

// Transition is one immutable entry in a MachineDefinition's transition
// table: an edge from Source to Target, enabled when Match(ev) is true and
// (if present) Guard(ctx, ev) is true.
type Transition[C any] struct {
	Source StateID
	Target StateID

	// Match reports whether this transition is a candidate for a given
	// event. Nil is never valid; use OnType for the common case.
	Match MatchFunc

	// Guard, if non-nil, must additionally hold for the transition to be
	// selected. A false guard is not an error: the transition is simply
	// skipped in favor of the next one in declaration order.
	Guard GuardFunc[C]

	// Action runs once, between the exit phase and the entry phase.
	Action ActionFunc[C]
}

// enabled reports whether t is enabled at its source for ev, given ctx.
func (t Transition[C]) enabled(ctx C, ev Event) bool {
	if t.Match == nil || !t.Match(ev) {
		return false
	}
	if t.Guard == nil {
		return true
	}
	return t.Guard(ctx, ev)
}
