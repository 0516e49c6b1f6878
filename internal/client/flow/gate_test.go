package flow

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/finapp/internal/client/models"
	"github.com/dmitrijs2005/finapp/internal/client/session"
	"github.com/stretchr/testify/require"
)

func TestGate_WaitsForBothConditions_TimerFirst(t *testing.T) {
	nav := &fakeNav{}
	g := NewGate(nav)

	g.MarkTimerElapsed()
	require.Equal(t, GateWaiting, g.State(), "timer alone must not release the gate")
	require.Empty(t, nav.calls())

	g.MarkSessionSettled(true)
	require.Equal(t, GateAuthenticated, g.State())
	require.Equal(t, []navCall{{Path: PathHome, Replace: true}}, nav.calls())
}

func TestGate_WaitsForBothConditions_SessionFirst(t *testing.T) {
	nav := &fakeNav{}
	g := NewGate(nav)

	// session resolves quickly (user absent); splash must stay up until the
	// minimum display time has passed
	g.MarkSessionSettled(false)
	require.Equal(t, GateWaiting, g.State())
	require.Empty(t, nav.calls())

	g.MarkTimerElapsed()
	require.Equal(t, GateUnauthenticated, g.State())
	require.Equal(t, []navCall{{Path: PathAuth, Replace: true}}, nav.calls())
}

func TestGate_TransitionIsIrreversibleAndSingle(t *testing.T) {
	nav := &fakeNav{}
	g := NewGate(nav)

	g.MarkSessionSettled(true)
	g.MarkTimerElapsed()
	require.Equal(t, GateAuthenticated, g.State())

	// later signals must not re-route or re-navigate
	g.MarkSessionSettled(false)
	g.MarkTimerElapsed()
	require.Equal(t, GateAuthenticated, g.State())
	require.Len(t, nav.calls(), 1)
}

func TestGate_DecisionCapturedAtSettleTime(t *testing.T) {
	nav := &fakeNav{}
	g := NewGate(nav)

	g.MarkSessionSettled(false)
	// a second settle cannot override the first decision
	g.MarkSessionSettled(true)
	g.MarkTimerElapsed()

	require.Equal(t, GateUnauthenticated, g.State())
	require.Equal(t, PathAuth, nav.calls()[0].Path)
}

func TestGate_Observe(t *testing.T) {
	nav := &fakeNav{}
	g := NewGate(nav)
	g.MarkTimerElapsed()

	g.Observe(session.State{Loading: true})
	require.Equal(t, GateWaiting, g.State(), "loading session must not settle the gate")

	g.Observe(session.State{User: &models.User{ID: "u1"}, Loading: false})
	require.Equal(t, GateAuthenticated, g.State())
}

func TestGate_TimerFires(t *testing.T) {
	nav := &fakeNav{}
	g := NewGate(nav)
	g.MarkSessionSettled(false)

	g.StartTimer(5 * time.Millisecond)
	require.Eventually(t, func() bool {
		return g.State() == GateUnauthenticated
	}, time.Second, 2*time.Millisecond)
}

func TestGate_StopCancelsPendingTimer(t *testing.T) {
	nav := &fakeNav{}
	g := NewGate(nav)
	g.MarkSessionSettled(true)

	g.StartTimer(10 * time.Millisecond)
	g.Stop()

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, GateWaiting, g.State(), "no transition after teardown")
	require.Empty(t, nav.calls(), "no navigation after teardown")
}

func TestGate_NoSignalsAppliedAfterStop(t *testing.T) {
	nav := &fakeNav{}
	g := NewGate(nav)

	g.Stop()
	g.MarkTimerElapsed()
	g.MarkSessionSettled(true)

	require.Equal(t, GateWaiting, g.State())
	require.Empty(t, nav.calls())
}
