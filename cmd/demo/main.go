package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corvidlabs/actorhsm"
	"github.com/corvidlabs/actorhsm/actor"
	"github.com/corvidlabs/actorhsm/internal/extensibility"
	"github.com/corvidlabs/actorhsm/internal/production"
)

type trafficCtx struct {
	cycles int
}

// trafficLightYAML is the machine description artifact spec §6 expects a
// producer to emit: state/transition tables plus an initial state. Action
// and guard references are resolved by name against the lookups passed to
// production.Build, the way internal/primitives/stateconfig.go's YAML tags
// resolve against the teacher's out-of-scope DSL front-end.
const trafficLightYAML = `
initial: red
states:
  - id: red
    kind: atomic
  - id: green
    kind: atomic
  - id: yellow
    kind: atomic
transitions:
  - source: red
    target: green
    event: TIMER
    action: count_cycle
  - source: green
    target: yellow
    event: TIMER
  - source: yellow
    target: red
    event: TIMER
`

func countCycle(ctx *trafficCtx, ev actorhsm.Event) error {
	ctx.cycles++
	return nil
}

func trafficLight(log *slog.Logger) (*actorhsm.MachineDefinition[*trafficCtx], error) {
	raw, err := production.ParseMachineYAML([]byte(trafficLightYAML))
	if err != nil {
		return nil, err
	}
	actions := production.ActionLookup[*trafficCtx]{
		"count_cycle": extensibility.WithLogging(log, "count_cycle", countCycle),
	}
	return production.Build(raw, actions, nil)
}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	def, err := trafficLight(log)
	if err != nil {
		panic(err)
	}
	m, err := actorhsm.NewMachine(def)
	if err != nil {
		panic(err)
	}

	tctx := &trafficCtx{}
	inst, err := actorhsm.NewInstance(m, tctx, actorhsm.Event{})
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sa := actor.NewStatechartActor(inst, log)
	addr, done := actor.Spawn[actorhsm.Event](ctx, sa, actor.WithActorID("traffic-light"), actor.WithLogger(log))

	timer := extensibility.NewTimer(ctx, 2*time.Second, actorhsm.NewEvent("TIMER", nil), true,
		func(ctx context.Context, ev actorhsm.Event) error {
			return addr.Send(ctx, ev)
		})
	defer timer.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	fmt.Println(production.ExportDOT(m, inst.State()))

	<-sig
	cancel()
	<-done
	fmt.Printf("stopped after %d cycles, final state %v\n", tctx.cycles, inst.State())
}
