// Package mailbox implements the std-profile bounded FIFO from spec
// §4.3: multi-producer / single-consumer, back-pressure via an awaiting
// Send, fail-fast TrySend, and Closed detection when the receiver is
// dropped. It is grounded on the teacher's realtime/runtime.go capacity
// check (errors.New("event queue full")) and realtime/event.go's
// priority-ordered batch, generalized from a statechart-specific event
// batch into a channel-backed generic Mailbox[M].
package mailbox

import (
	"context"
	"fmt"
	"sync"
)

// SendErrorKind distinguishes why a send could not be delivered.
type SendErrorKind int

const (
	// Full means the mailbox was at capacity (TrySend only; a Send whose
	// context is canceled while waiting returns ctx.Err() instead).
	Full SendErrorKind = iota
	// Closed means the receiver has been dropped. Never produced by the
	// embedded profile (internal/embedded), only std.
	Closed
)

func (k SendErrorKind) String() string {
	if k == Full {
		return "full"
	}
	return "closed"
}

// SendError reports a rejected send, carrying the message back to the
// caller per spec §6 (Full(msg) | Closed(msg)) so it is never silently
// dropped.
type SendError[M any] struct {
	Kind SendErrorKind
	Msg  M
}

func (e *SendError[M]) Error() string {
	return fmt.Sprintf("mailbox: send rejected: %s", e.Kind)
}

// New creates a bounded mailbox of capacity N and returns its two
// endpoints. Capacity 0 is a valid, always-full rendezvous mailbox.
func New[M any](capacity int) (*Sender[M], *Receiver[M]) {
	ch := make(chan M, capacity)
	closed := make(chan struct{})
	return &Sender[M]{ch: ch, closed: closed},
		&Receiver[M]{ch: ch, closed: closed}
}

// Sender is the producer-side handle. It is safe to copy and share
// across goroutines (multi-producer).
type Sender[M any] struct {
	ch     chan<- M
	closed <-chan struct{}
}

// TrySend delivers msg without blocking: Full if the buffer has no free
// slot right now, Closed if the receiver is gone, nil on success.
func (s *Sender[M]) TrySend(msg M) error {
	select {
	case <-s.closed:
		return &SendError[M]{Kind: Closed, Msg: msg}
	default:
	}
	select {
	case s.ch <- msg:
		return nil
	case <-s.closed:
		return &SendError[M]{Kind: Closed, Msg: msg}
	default:
		return &SendError[M]{Kind: Full, Msg: msg}
	}
}

// Send delivers msg, awaiting free buffer space — the std profile's
// back-pressure mechanism. It returns early with ctx.Err() if ctx is
// canceled first, or a Closed SendError if the receiver is dropped.
func (s *Sender[M]) Send(ctx context.Context, msg M) error {
	select {
	case <-s.closed:
		return &SendError[M]{Kind: Closed, Msg: msg}
	default:
	}
	select {
	case s.ch <- msg:
		return nil
	case <-s.closed:
		return &SendError[M]{Kind: Closed, Msg: msg}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receiver is the consumer-side handle. Only one goroutine should drain
// it at a time to preserve the single-consumer FIFO guarantee.
type Receiver[M any] struct {
	ch        <-chan M
	closed    chan struct{}
	closeOnce sync.Once
}

// TryRecv returns the next message without blocking, or ok == false if
// none is currently buffered.
func (r *Receiver[M]) TryRecv() (msg M, ok bool) {
	select {
	case msg, ok = <-r.ch:
		return msg, ok
	default:
		return msg, false
	}
}

// Recv awaits the next message, returning ok == false if ctx is canceled
// first, or once Close has been called and no buffered message remains.
func (r *Receiver[M]) Recv(ctx context.Context) (msg M, ok bool) {
	select {
	case msg, ok = <-r.ch:
		return msg, ok
	case <-r.closed:
		return r.TryRecv()
	case <-ctx.Done():
		return msg, false
	}
}

// Close marks the mailbox closed: subsequent Send/TrySend calls observe
// Closed at once, whether or not the buffer still holds messages. Messages
// already buffered remain receivable. Idempotent.
func (r *Receiver[M]) Close() {
	r.closeOnce.Do(func() { close(r.closed) })
}
