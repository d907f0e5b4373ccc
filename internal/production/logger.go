package production

import (
	"errors"
	"log/slog"
	"time"

	"github.com/corvidlabs/actorhsm"
)

// LoggedSend wraps inst.Send(ev) with structured logging, the successor
// to the teacher's LoggingActionRunner (which wrapped a single action
// with log.Printf timing). Here the decoration wraps the whole
// send(event) call so it can log the outcome, not just one action. A nil
// logger falls back to slog.Default().
//
// Go methods cannot introduce new type parameters, so this is a free
// function parameterized over the instance's context type rather than a
// method on a TransitionLogger wrapper type.
func LoggedSend[C any](log *slog.Logger, inst *actorhsm.Instance[C], ev actorhsm.Event) (actorhsm.Outcome, error) {
	if log == nil {
		log = slog.Default()
	}

	start := time.Now()
	outcome, err := inst.Send(ev)
	elapsed := time.Since(start)

	if err != nil {
		var pe *actorhsm.ProcessingError
		if errors.As(err, &pe) {
			log.Error("transition failed",
				"event", ev.Type,
				"kind", pe.Kind.String(),
				"state", string(pe.State),
				"elapsed", elapsed,
			)
		} else {
			log.Error("transition failed", "event", ev.Type, "error", err, "elapsed", elapsed)
		}
		return outcome, err
	}

	log.Debug("transition processed",
		"event", ev.Type,
		"outcome", outcome.String(),
		"active", inst.State(),
		"elapsed", elapsed,
	)
	return outcome, nil
}
