package actor

import (
	"context"
	"log/slog"

	"github.com/corvidlabs/actorhsm"
	"github.com/corvidlabs/actorhsm/internal/production"
)

// StatechartActor makes any actorhsm.Instance an Actor whose Message is
// its event type, per spec §4.4: "Any statechart is an actor whose
// Message equals its event type; handle(msg) forwards to the HSM
// engine's send." The return value of Send is logged, never returned to
// Handle's own caller's caller — per spec, the return value of send is
// discarded at the actor boundary; this is the same open design
// extension original_source's statechart-actor integration flags (only
// logging, no supervision-visible propagation).
type StatechartActor[C any] struct {
	Instance *actorhsm.Instance[C]
	Log      *slog.Logger
}

// NewStatechartActor wraps inst. A nil log falls back to slog.Default().
func NewStatechartActor[C any](inst *actorhsm.Instance[C], log *slog.Logger) *StatechartActor[C] {
	return &StatechartActor[C]{Instance: inst, Log: log}
}

// Handle forwards msg to the wrapped Instance's Send, logging the
// outcome. It returns the underlying error too, so a caller that wants
// stricter behavior (e.g. a custom Actor wrapping this one) can still
// observe it; RunLoop itself only logs and continues, matching spec.
func (s *StatechartActor[C]) Handle(ctx context.Context, ev actorhsm.Event) error {
	_, err := production.LoggedSend(s.Log, s.Instance, ev)
	return err
}
