// Package embedded implements the cooperative, no-goroutine-per-actor
// profile from spec §5: a statically-sized ring buffer mailbox with
// fail-fast TrySend (no blocking send is offered — spec forbids blocking
// in interrupt/real-time contexts) and a tick-driven poll loop in place
// of the std profile's per-actor goroutine. Grounded on the teacher's
// realtime/runtime.go (Config{TickRate, MaxEventsPerTick}, tickLoop,
// capacity-checked eventBatch).
package embedded

import (
	"errors"
	"sync"
)

// ErrFull is returned by TrySend when the ring buffer has no free slot.
// Embedded mailboxes never observe Closed (spec §4.3): the consumer is
// assumed to live as long as the program.
var ErrFull = errors.New("embedded: mailbox full")

// RingMailbox is a fixed-capacity FIFO with no dynamic allocation after
// construction, approximating the no-heap-after-construction discipline
// with a pre-sized Go slice rather than a true const-generic array (Go
// has no const generics).
type RingMailbox[M any] struct {
	mu         sync.Mutex
	buf        []M
	head, tail int
	count      int
}

// NewRingMailbox allocates a ring buffer of the given capacity once.
func NewRingMailbox[M any](capacity int) *RingMailbox[M] {
	return &RingMailbox[M]{buf: make([]M, capacity)}
}

// TrySend enqueues msg, or returns ErrFull if the buffer is at capacity.
// Never blocks.
func (r *RingMailbox[M]) TrySend(msg M) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count == len(r.buf) {
		return ErrFull
	}
	r.buf[r.tail] = msg
	r.tail = (r.tail + 1) % len(r.buf)
	r.count++
	return nil
}

// TryRecv dequeues the oldest message, or reports ok == false if empty.
// Never blocks.
func (r *RingMailbox[M]) TryRecv() (msg M, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count == 0 {
		return msg, false
	}
	msg = r.buf[r.head]
	var zero M
	r.buf[r.head] = zero
	r.head = (r.head + 1) % len(r.buf)
	r.count--
	return msg, true
}

// Len reports the number of currently buffered messages.
func (r *RingMailbox[M]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
