package supervisor

import (
	"context"
	"log/slog"

	"github.com/corvidlabs/actorhsm/actor"
)

// MessageKind enumerates SupervisorMessage's closed set, per spec §4.5:
// "the supervisor itself is an actor receiving SupervisorMessage
// { ChildStarted, ChildStopped, ChildPanicked, StartChild, StopChild,
// RestartChild }".
type MessageKind int

const (
	ChildStarted MessageKind = iota
	ChildStopped
	ChildPanicked
	StartChild
	StopChild
	RestartChild
)

// Message is one event delivered to a Supervisor running as an actor.
type Message struct {
	Kind    MessageKind
	ChildID string
	Panic   *actor.PanicInfo
}

// Actor wraps a Supervisor as an actor.Actor[Message]. Restart
// mechanics — recreating the concrete failed actor and starting it
// again — are left to RestartFunc, since the supervisor has no way to
// construct an arbitrary child's concrete type itself (spec §9).
// actor.Spawn always creates a fresh mailbox; keeping a child's mailbox
// across a restart takes calling actor.RunLoop again on that mailbox's
// original Receiver.
type Actor struct {
	Supervisor *Supervisor
	Log        *slog.Logger

	// RestartFunc is invoked once per id GetChildrenToRestart names,
	// in the order returned (insertion order, per RestForOne/OneForAll).
	// It may be nil, in which case restart decisions are logged only.
	RestartFunc func(id string)
}

// NewActor builds a supervisor Actor. A nil log falls back to
// slog.Default().
func NewActor(sup *Supervisor, log *slog.Logger, restart func(id string)) *Actor {
	if log == nil {
		log = slog.Default()
	}
	return &Actor{Supervisor: sup, Log: log, RestartFunc: restart}
}

// Handle processes one Message, applying the restart-rate-limiting
// policy on ChildPanicked and invoking RestartFunc for whichever
// children the resulting strategy names.
func (a *Actor) Handle(ctx context.Context, msg Message) error {
	switch msg.Kind {
	case ChildPanicked:
		strategy, restart := a.Supervisor.HandleChildFailure(msg.ChildID)
		if !restart {
			a.Log.Warn("child exceeded max restarts, giving up", "child", msg.ChildID)
			return nil
		}
		toRestart := a.Supervisor.GetChildrenToRestart(msg.ChildID, strategy)
		a.Log.Info("restarting children", "strategy", strategy.String(), "failed", msg.ChildID, "children", toRestart)
		if a.RestartFunc != nil {
			for _, id := range toRestart {
				a.RestartFunc(id)
			}
		}
	case ChildStarted:
		a.Supervisor.SetRunning(msg.ChildID, true)
	case ChildStopped:
		a.Supervisor.SetRunning(msg.ChildID, false)
	case StartChild:
		if err := a.Supervisor.AddChild(msg.ChildID, a.Supervisor.DefaultStrategy()); err != nil {
			a.Log.Error("start child failed", "child", msg.ChildID, "error", err)
		}
	case StopChild:
		a.Supervisor.RemoveChild(msg.ChildID)
	case RestartChild:
		if a.RestartFunc != nil {
			a.RestartFunc(msg.ChildID)
		}
	}
	return nil
}
