package actor

import "context"

// Actor is the contract from spec §4.4: Handle runs one message at a
// time, never concurrently with itself. A non-nil error is logged and
// swallowed by the loop (§7 propagation policy) — it does not terminate
// the actor. Panics are the only thing that do; recover them by not
// recovering at all inside Handle and letting RunLoop's own recover
// convert them into an ActorError.
type Actor[M any] interface {
	Handle(ctx context.Context, msg M) error
}

// Starter is an optional lifecycle hook. If an Actor implements it,
// OnStart runs once before the loop begins; a non-nil error prevents
// loop entry and is reported as StartupFailure.
type Starter interface {
	OnStart(ctx context.Context) error
}

// Stopper is an optional lifecycle hook run once after normal loop exit
// (std profile only — the embedded profile has no shutdown path).
type Stopper interface {
	OnStop(ctx context.Context) error
}

// Panicker is an optional hook through which an actor names a restart
// strategy for a panic. RunLoop, RunBatchLoop and the supervisor package
// do not call it; a Supervisor applies the strategy given to AddChild.
type Panicker interface {
	OnPanic(info PanicInfo) RestartStrategy
}

// BatchActor is the batching variant from spec §4.4: HandleBatch
// replaces Handle, and MaxBatchSize bounds how many messages RunBatchLoop
// collects before invoking it.
type BatchActor[M any] interface {
	HandleBatch(ctx context.Context, msgs []M) error
	MaxBatchSize() int
}
