// Package actorhsm is a hierarchical statechart engine whose instances
// become actors through the actor package's StatechartActor adapter, which
// lets a statechart speak the same mailbox/supervision protocol as any
// other actor built on top of the mailbox, actor, and supervisor packages.
//
// This file provides the event primitive delivered to a running machine.
//
// Events are value types designed for cheap construction. Once created, an
// Event should not be mutated; transitions and actions receive it by value.
package actorhsm

// Event is delivered to a machine via Instance.Send. Type identifies the
// event for matching against transitions; Data carries optional payload.
type Event struct {
	Type string
	Data any
}

// NewEvent constructs an Event with the given type and payload.
func NewEvent(eventType string, data any) Event {
	return Event{Type: eventType, Data: data}
}
