package actor

import (
	"context"

	"github.com/corvidlabs/actorhsm/mailbox"
)

// Address is a lightweight handle wrapping a mailbox sender — the sole
// means by which external code delivers messages to a running actor
// (spec §3). It is safe to share across goroutines. An Address is tied to
// the mailbox Spawn or SpawnBatch created for it; that call keeps the
// mailbox's Receiver to itself, so once the spawned loop returns nothing
// drains the mailbox and no restart can reuse it through this package.
type Address[M any] struct {
	sender *mailbox.Sender[M]
}

// Send delivers msg, awaiting mailbox space per spec §4.3's std
// back-pressure semantics.
func (a *Address[M]) Send(ctx context.Context, msg M) error {
	return a.sender.Send(ctx, msg)
}

// TrySend delivers msg without blocking, failing fast with Full if the
// mailbox has no free slot.
func (a *Address[M]) TrySend(msg M) error {
	return a.sender.TrySend(msg)
}
