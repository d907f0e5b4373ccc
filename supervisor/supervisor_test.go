package supervisor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidlabs/actorhsm/actor"
	"github.com/corvidlabs/actorhsm/supervisor"
)

// fakeClock advances only when told to, so the restart-window logic is
// deterministic regardless of wall-clock timing.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }
func (f *fakeClock) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func TestAddChildRejectsDuplicate(t *testing.T) {
	sup := supervisor.New()
	require.NoError(t, sup.AddChild("a", actor.OneForOne))

	err := sup.AddChild("a", actor.OneForOne)
	require.Error(t, err)
	var se *supervisor.SupervisorError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, supervisor.ChildAlreadyExists, se.Kind)
}

func TestAddChildRejectsPastCapacity(t *testing.T) {
	sup := supervisor.New(supervisor.WithMaxChildren(1))
	require.NoError(t, sup.AddChild("a", actor.OneForOne))

	err := sup.AddChild("b", actor.OneForOne)
	require.Error(t, err)
	var se *supervisor.SupervisorError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, supervisor.CapacityExceeded, se.Kind)
}

func TestRemoveChildReportsPresence(t *testing.T) {
	sup := supervisor.New()
	require.NoError(t, sup.AddChild("a", actor.OneForOne))
	assert.True(t, sup.RemoveChild("a"))
	assert.False(t, sup.RemoveChild("a"))
}

// TestRateLimitedRestartGivesUpAfterMaxRestarts reproduces spec.md's
// Scenario F: max_restarts=2, window=10s, one child C. Three panics
// within 5s: first two yield a restart decision, the third gives up and
// removes C. A subsequent add_child(C) succeeds.
func TestRateLimitedRestartGivesUpAfterMaxRestarts(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	sup := supervisor.New(
		supervisor.WithMaxRestarts(2),
		supervisor.WithRestartWindow(10*time.Second),
		supervisor.WithClock(clock.Now),
	)
	require.NoError(t, sup.AddChild("C", actor.OneForOne))

	_, ok := sup.HandleChildFailure("C")
	assert.True(t, ok, "first failure should still permit restart")

	clock.advance(2 * time.Second)
	_, ok = sup.HandleChildFailure("C")
	assert.True(t, ok, "second failure within window should still permit restart")

	clock.advance(3 * time.Second)
	_, ok = sup.HandleChildFailure("C")
	assert.False(t, ok, "third failure within window should exceed max_restarts and give up")

	assert.False(t, sup.IsRunning("C"))
	require.NoError(t, sup.AddChild("C", actor.OneForOne), "re-adding C after give-up must succeed")
}

func TestRestartCountResetsAfterWindowElapses(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	sup := supervisor.New(
		supervisor.WithMaxRestarts(1),
		supervisor.WithRestartWindow(10*time.Second),
		supervisor.WithClock(clock.Now),
	)
	require.NoError(t, sup.AddChild("C", actor.OneForOne))

	_, ok := sup.HandleChildFailure("C")
	require.True(t, ok)

	clock.advance(20 * time.Second)
	_, ok = sup.HandleChildFailure("C")
	assert.True(t, ok, "window elapsed, restart count should have reset")
}

func TestHandleChildFailureUnknownChild(t *testing.T) {
	sup := supervisor.New()
	_, ok := sup.HandleChildFailure("ghost")
	assert.False(t, ok)
}

func TestGetChildrenToRestartOneForOne(t *testing.T) {
	sup := supervisor.New()
	require.NoError(t, sup.AddChild("a", actor.OneForOne))
	require.NoError(t, sup.AddChild("b", actor.OneForOne))
	require.NoError(t, sup.AddChild("c", actor.OneForOne))

	got := sup.GetChildrenToRestart("b", actor.OneForOne)
	assert.Equal(t, []string{"b"}, got)
}

func TestGetChildrenToRestartOneForAll(t *testing.T) {
	sup := supervisor.New()
	require.NoError(t, sup.AddChild("a", actor.OneForAll))
	require.NoError(t, sup.AddChild("b", actor.OneForAll))
	require.NoError(t, sup.AddChild("c", actor.OneForAll))

	got := sup.GetChildrenToRestart("b", actor.OneForAll)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

// TestGetChildrenToRestartRestForOneInsertionOrder is the explicit
// correction from spec §9: RestForOne must restart the failed child and
// every child added after it, in insertion order, not just the failed
// child.
func TestGetChildrenToRestartRestForOneInsertionOrder(t *testing.T) {
	sup := supervisor.New()
	require.NoError(t, sup.AddChild("a", actor.RestForOne))
	require.NoError(t, sup.AddChild("b", actor.RestForOne))
	require.NoError(t, sup.AddChild("c", actor.RestForOne))
	require.NoError(t, sup.AddChild("d", actor.RestForOne))

	got := sup.GetChildrenToRestart("b", actor.RestForOne)
	assert.Equal(t, []string{"b", "c", "d"}, got)
}

func TestGetChildrenToRestartRestForOneFailedIsLast(t *testing.T) {
	sup := supervisor.New()
	require.NoError(t, sup.AddChild("a", actor.RestForOne))
	require.NoError(t, sup.AddChild("b", actor.RestForOne))

	got := sup.GetChildrenToRestart("b", actor.RestForOne)
	assert.Equal(t, []string{"b"}, got)
}

func TestPollChildrenReturnsCompletionOnce(t *testing.T) {
	sup := supervisor.New()
	require.NoError(t, sup.AddChild("a", actor.OneForOne))

	done := make(chan error, 1)
	sup.Watch("a", done)
	done <- assert.AnError

	completions := sup.PollChildren()
	require.Len(t, completions, 1)
	assert.Equal(t, "a", completions[0].ChildID)
	assert.ErrorIs(t, completions[0].Err, assert.AnError)

	assert.Empty(t, sup.PollChildren(), "completion must not be reported twice")
}

func TestSetRunningAndIsRunning(t *testing.T) {
	sup := supervisor.New()
	require.NoError(t, sup.AddChild("a", actor.OneForOne))
	assert.True(t, sup.IsRunning("a"), "AddChild should mark the child running")

	sup.SetRunning("a", false)
	assert.False(t, sup.IsRunning("a"))

	assert.False(t, sup.IsRunning("ghost"))
}

func TestSimulatePanicDrivesSameRateLimitPath(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	sup := supervisor.New(
		supervisor.WithMaxRestarts(1),
		supervisor.WithRestartWindow(10*time.Second),
		supervisor.WithClock(clock.Now),
	)
	require.NoError(t, sup.AddChild("C", actor.OneForOne))

	_, ok := sup.SimulatePanic("C")
	assert.True(t, ok)
	_, ok = sup.SimulatePanic("C")
	assert.False(t, ok, "second simulated panic within window should exceed max_restarts")
}
