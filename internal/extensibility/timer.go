// Package extensibility provides optional decorations around the core
// engine: a timer/sleep capability for timer-driven transitions, and a
// logging action wrapper, grounded on the teacher's TimerEventSource and
// LoggingActionRunner.
package extensibility

import (
	"context"
	"time"

	"github.com/corvidlabs/actorhsm"
)

// Deliver matches the shape of an actor Address's send method, without
// this package importing the actor package — the abstract sleep(duration)
// capability from spec §6 only needs somewhere to deliver an event on
// expiry, not a concrete actor implementation.
type Deliver func(ctx context.Context, ev actorhsm.Event) error

// Timer delivers ev to deliver once after d, or repeatedly every d if
// repeating is true, until Stop is called. It is the Go rendering of
// spec §6's "sleep(duration) capability... composed into a future passed
// into the message stream" and is grounded on the teacher's
// TimerEventSource (time.Ticker-backed, channel delivery), generalized to
// push through an arbitrary Deliver rather than only a channel the
// machine's own event loop reads.
type Timer struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTimer starts a goroutine that calls deliver(ev) after d (once, or
// every d if repeating). Delivery errors are not retried; a Full/Closed
// mailbox error simply drops that tick, matching the teacher's
// TimerEventSource "drop if full" policy.
func NewTimer(parent context.Context, d time.Duration, ev actorhsm.Event, repeating bool, deliver Deliver) *Timer {
	ctx, cancel := context.WithCancel(parent)
	t := &Timer{cancel: cancel, done: make(chan struct{})}
	go t.run(ctx, d, ev, repeating, deliver)
	return t
}

func (t *Timer) run(ctx context.Context, d time.Duration, ev actorhsm.Event, repeating bool, deliver Deliver) {
	defer close(t.done)

	if !repeating {
		select {
		case <-time.After(d):
			_ = deliver(ctx, ev)
		case <-ctx.Done():
		}
		return
	}

	ticker := time.NewTicker(d)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = deliver(ctx, ev)
		case <-ctx.Done():
			return
		}
	}
}

// Stop cancels the timer and waits for its goroutine to exit.
func (t *Timer) Stop() {
	t.cancel()
	<-t.done
}
