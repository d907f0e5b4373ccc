package actor

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/corvidlabs/actorhsm/mailbox"
)

// SpawnBatch is Spawn's batching counterpart: a collects up to
// a.MaxBatchSize() messages per invocation rather than one.
func SpawnBatch[M any](ctx context.Context, a BatchActor[M], opts ...SpawnOption) (*Address[M], <-chan error) {
	cfg := resolveConfig(opts)
	sender, receiver := mailbox.New[M](cfg.capacity)
	done := make(chan error, 1)

	go func() {
		done <- RunBatchLoop(ctx, receiver, a, cfg.logger, cfg.actorID)
	}()

	return &Address[M]{sender: sender}, done
}

// RunBatchLoop mirrors RunLoop but collects a batch before dispatching:
// a blocking Recv for the first message, then non-blocking TryRecv
// drains for up to MaxBatchSize()-1 more. Ordering within a batch is
// arrival order. Grounded on spec §4.4's batching variant and
// original_source's actor/mod.rs batch collection loop.
func RunBatchLoop[M any](ctx context.Context, receiver *mailbox.Receiver[M], a BatchActor[M], log *slog.Logger, actorID string) (result error) {
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

	maxBatch := a.MaxBatchSize()
	if maxBatch < 1 {
		maxBatch = 1
	}

	for {
		first, ok := receiver.Recv(ctx)
		if !ok {
			break
		}
		batch := make([]M, 0, maxBatch)
		batch = append(batch, first)
		for len(batch) < maxBatch {
			msg, ok := receiver.TryRecv()
			if !ok {
				break
			}
			batch = append(batch, msg)
		}
		if err := a.HandleBatch(ctx, batch); err != nil {
			log.Error("actor batch handler failed", "actor_id", actorID, "batch_size", len(batch), "error", err)
		}
	}

	if stopper, ok := a.(Stopper); ok {
		if err := stopper.OnStop(ctx); err != nil {
			return &ActorError{Kind: ShutdownFailure, ActorID: actorID, Err: err}
		}
	}
	return nil
}
