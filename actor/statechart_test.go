package actor_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidlabs/actorhsm"
	"github.com/corvidlabs/actorhsm/actor"
)

type counterCtx struct {
	count *int
}

func scenarioAMachine() *actorhsm.MachineDefinition[counterCtx] {
	return &actorhsm.MachineDefinition[counterCtx]{
		Initial: "S1",
		States: []actorhsm.StateNode[counterCtx]{
			{ID: "S1", Kind: actorhsm.Atomic},
			{ID: "S2", Kind: actorhsm.Atomic},
		},
		Transitions: []actorhsm.Transition[counterCtx]{
			{
				Source: "S1", Target: "S2", Match: actorhsm.OnType("Inc"),
				Guard: func(ctx counterCtx, ev actorhsm.Event) bool { return *ctx.count < 2 },
				Action: func(ctx counterCtx, ev actorhsm.Event) error {
					*ctx.count++
					return nil
				},
			},
			{Source: "S2", Target: "S1", Match: actorhsm.OnType("Reset")},
		},
	}
}

func TestStatechartActorDrivesTransitionsThroughMailbox(t *testing.T) {
	count := 0
	m, err := actorhsm.NewMachine(scenarioAMachine())
	require.NoError(t, err)
	inst, err := actorhsm.NewInstance(m, counterCtx{count: &count}, actorhsm.Event{})
	require.NoError(t, err)
	assert.Equal(t, []actorhsm.StateID{"S1"}, inst.State())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sa := actor.NewStatechartActor(inst, nil)
	addr, done := actor.Spawn[actorhsm.Event](ctx, sa)

	require.NoError(t, addr.Send(context.Background(), actorhsm.NewEvent("Inc", nil)))
	require.Eventually(t, func() bool {
		s := inst.State()
		return len(s) == 1 && s[0] == "S2"
	}, time.Second, time.Millisecond)
	assert.Equal(t, 1, count)

	require.NoError(t, addr.Send(context.Background(), actorhsm.NewEvent("Reset", nil)))
	require.Eventually(t, func() bool {
		s := inst.State()
		return len(s) == 1 && s[0] == "S1"
	}, time.Second, time.Millisecond)

	cancel()
	<-done
}
