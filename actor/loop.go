package actor

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/corvidlabs/actorhsm/mailbox"
)

type spawnConfig struct {
	capacity int
	logger   *slog.Logger
	actorID  string
}

// SpawnOption configures Spawn/SpawnBatch.
type SpawnOption func(*spawnConfig)

// WithMailboxCapacity sets the new actor's mailbox capacity. Default 16.
func WithMailboxCapacity(n int) SpawnOption {
	return func(c *spawnConfig) { c.capacity = n }
}

// WithLogger sets the logger the loop reports lifecycle and swallowed
// handler errors to. Default slog.Default().
func WithLogger(log *slog.Logger) SpawnOption {
	return func(c *spawnConfig) { c.logger = log }
}

// WithActorID sets the identifier reported in ActorError.ActorID.
// Default "".
func WithActorID(id string) SpawnOption {
	return func(c *spawnConfig) { c.actorID = id }
}

func resolveConfig(opts []SpawnOption) spawnConfig {
	cfg := spawnConfig{capacity: 16, logger: slog.Default()}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// Spawn starts a, running on its own goroutine, and returns an Address
// to send it messages plus a done channel that receives exactly once:
// nil on clean shutdown, or an *ActorError describing why the actor
// stopped (StartupFailure, ShutdownFailure, or PanicKind).
func Spawn[M any](ctx context.Context, a Actor[M], opts ...SpawnOption) (*Address[M], <-chan error) {
	cfg := resolveConfig(opts)
	sender, receiver := mailbox.New[M](cfg.capacity)
	done := make(chan error, 1)

	go func() {
		done <- RunLoop(ctx, receiver, a, cfg.logger, cfg.actorID)
	}()

	return &Address[M]{sender: sender}, done
}

// RunLoop drives a per spec §4.4's loop semantics: OnStart, then serial
// message dispatch until ctx is canceled or the mailbox closes, then
// OnStop. A panic anywhere in OnStart/Handle/OnStop is recovered and
// reported as a PanicKind ActorError; it does not propagate to the
// caller of RunLoop. Exported (not just used by Spawn) so a supervisor
// restart can call it directly against a fresh goroutine reusing the
// same Receiver, per spec §7/§12's address-reuse-across-restart
// requirement.
func RunLoop[M any](ctx context.Context, receiver *mailbox.Receiver[M], a Actor[M], log *slog.Logger, actorID string) (result error) {
	if log == nil {
		log = slog.Default()
	}

	defer func() {
		if r := recover(); r != nil {
			result = &ActorError{
				Kind:    PanicKind,
				ActorID: actorID,
				Panic:   &PanicInfo{Message: fmt.Sprint(r), Stack: string(debug.Stack())},
			}
			log.Error("actor panicked", "actor_id", actorID, "panic", r)
		}
	}()

	if starter, ok := a.(Starter); ok {
		if err := starter.OnStart(ctx); err != nil {
			return &ActorError{Kind: StartupFailure, ActorID: actorID, Err: err}
		}
	}

	for {
		msg, ok := receiver.Recv(ctx)
		if !ok {
			break
		}
		if err := a.Handle(ctx, msg); err != nil {
			log.Error("actor handler failed", "actor_id", actorID, "error", err)
		}
	}

	if stopper, ok := a.(Stopper); ok {
		if err := stopper.OnStop(ctx); err != nil {
			return &ActorError{Kind: ShutdownFailure, ActorID: actorID, Err: err}
		}
	}
	return nil
}
