package embedded

import (
	"time"
)

// Config mirrors the teacher's realtime.Config: TickRate governs how
// often the loop wakes to poll the mailbox, MaxEventsPerTick bounds how
// many buffered messages are drained per wake (starvation guard against
// one actor's poll loop never yielding back to the cooperative
// scheduler).
type Config struct {
	TickRate         time.Duration
	MaxEventsPerTick int
}

// DefaultConfig matches the teacher's realtime defaults: a 10ms tick,
// draining up to 16 events per tick.
func DefaultConfig() Config {
	return Config{TickRate: 10 * time.Millisecond, MaxEventsPerTick: 16}
}

// Handler processes one dequeued message. It mirrors actor.Actor's
// Handle but takes no context.Context — the embedded profile has no
// cancellation primitive (spec §5); a stop channel is the cooperative
// equivalent.
type Handler[M any] func(msg M)

// Run drains mb on every tick, up to cfg.MaxEventsPerTick messages per
// wake, calling handle for each, until stop is closed. It never spawns a
// goroutine per message — handle runs inline on the loop's own
// goroutine, preserving the "one message at a time, never re-entrant"
// invariant (§5) without relying on a channel-fed per-actor goroutine
// the way the std profile's actor loop does.
func Run[M any](mb *RingMailbox[M], cfg Config, handle Handler[M], stop <-chan struct{}) {
	ticker := time.NewTicker(cfg.TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			for i := 0; i < cfg.MaxEventsPerTick; i++ {
				msg, ok := mb.TryRecv()
				if !ok {
					break
				}
				handle(msg)
			}
		}
	}
}
