package extensibility

import (
	"log/slog"
	"time"

	"github.com/corvidlabs/actorhsm"
)

// WithLogging wraps action with a log call recording how long it took —
// at Debug level on success, at Error level with the error on failure —
// the successor to the teacher's
// LoggingActionRunner (which wrapped ActionRunner.Run with log.Printf
// timing around every action uniformly). Here any single ActionFunc can
// be opted into logging individually — entry, exit, or transition
// actions alike — since the new engine does not route every action
// through one central runner interface.
func WithLogging[C any](log *slog.Logger, name string, action actorhsm.ActionFunc[C]) actorhsm.ActionFunc[C] {
	if action == nil {
		return nil
	}
	if log == nil {
		log = slog.Default()
	}
	return func(ctx C, ev actorhsm.Event) error {
		start := time.Now()
		err := action(ctx, ev)
		elapsed := time.Since(start)
		if err != nil {
			log.Error("action failed", "name", name, "event", ev.Type, "elapsed", elapsed, "error", err)
			return err
		}
		log.Debug("action ran", "name", name, "event", ev.Type, "elapsed", elapsed)
		return nil
	}
}
