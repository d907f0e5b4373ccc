// Package actor implements the std-profile actor loop from spec §4.4:
// lifecycle hooks, strictly serial message dispatch over a mailbox, an
// optional batching variant, and the statechart-as-actor adapter.
// Grounded on the teacher's statechart.go RunAsActor(parentCtx, input
// <-chan Event) as the precedent for a channel-driven per-actor
// goroutine, generalized to an arbitrary message type and given the
// on_start/on_stop/on_panic hooks original_source's actor/mod.rs has.
package actor

import "fmt"

// ErrorKind enumerates the closed set of actor lifecycle failures from
// spec §7.
type ErrorKind int

const (
	// StartupFailure means OnStart returned an error; the loop never
	// ran.
	StartupFailure ErrorKind = iota
	// ShutdownFailure means OnStop returned an error after normal loop
	// exit.
	ShutdownFailure
	// PanicKind means the actor's Handle (or a lifecycle hook) panicked;
	// recovered via unwinding capture on this (std) profile.
	PanicKind
	// Custom carries an application-defined failure code.
	Custom
)

func (k ErrorKind) String() string {
	switch k {
	case StartupFailure:
		return "startup_failure"
	case ShutdownFailure:
		return "shutdown_failure"
	case PanicKind:
		return "panic"
	case Custom:
		return "custom"
	default:
		return "unknown"
	}
}

// PanicInfo captures what was recovered from a panicking actor, enriched
// beyond spec.md's bare `{ message, actor_id }` with a stack snippet —
// supplemented from original_source's actor/panic_handling.rs, which
// captures source location detail the distilled spec compresses away.
type PanicInfo struct {
	Message string
	Stack   string
}

// ActorError is the actor lifecycle error type from spec §7.
type ActorError struct {
	Kind    ErrorKind
	ActorID string
	Panic   *PanicInfo // set iff Kind == PanicKind
	Code    string     // set iff Kind == Custom
	Err     error
}

func (e *ActorError) Error() string {
	switch e.Kind {
	case PanicKind:
		return fmt.Sprintf("actor: %q panicked: %s", e.ActorID, e.Panic.Message)
	case Custom:
		return fmt.Sprintf("actor: %q custom error %q: %v", e.ActorID, e.Code, e.Err)
	default:
		return fmt.Sprintf("actor: %q %s: %v", e.ActorID, e.Kind, e.Err)
	}
}

func (e *ActorError) Unwrap() error { return e.Err }

// RestartStrategy is shared between the actor and supervisor packages:
// an actor's OnPanic hook decides how its supervisor should react.
type RestartStrategy int

const (
	// OneForOne restarts only the failed child.
	OneForOne RestartStrategy = iota
	// OneForAll restarts the failed child and every sibling.
	OneForAll
	// RestForOne restarts the failed child and every child added after
	// it (insertion order matters).
	RestForOne
)

func (s RestartStrategy) String() string {
	switch s {
	case OneForOne:
		return "one_for_one"
	case OneForAll:
		return "one_for_all"
	case RestForOne:
		return "rest_for_one"
	default:
		return "unknown"
	}
}
