package flow

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/finapp/internal/client/session"
)

// GateState is the bootstrap gate's position.
type GateState int

const (
	// GateWaiting holds the splash screen up.
	GateWaiting GateState = iota
	// GateAuthenticated means the gate routed to the authenticated area.
	GateAuthenticated
	// GateUnauthenticated means the gate routed to credential entry.
	GateUnauthenticated
)

// Gate decides when the splash screen may be left and where to go next.
//
// Two independent conditions must both hold: the minimum splash display
// timer has elapsed, and the session store has settled (loading finished).
// The first moment both are true the gate transitions exactly once,
// irreversibly, and navigates with history replacement so the splash is not
// reachable via back-navigation. The gate performs no I/O of its own.
type Gate struct {
	mu  sync.Mutex
	nav Navigator

	timerElapsed   bool
	sessionSettled bool
	authenticated  bool

	state  GateState
	closed bool
	timer  *time.Timer
}

func NewGate(nav Navigator) *Gate {
	return &Gate{nav: nav}
}

// State returns the gate's current position.
func (g *Gate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// StartTimer arms the minimum-display timer. When it fires the timer
// condition is marked; nothing else happens until the session also settles.
func (g *Gate) StartTimer(d time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || g.timer != nil {
		return
	}
	g.timer = time.AfterFunc(d, g.MarkTimerElapsed)
}

// MarkTimerElapsed flips the timer condition.
func (g *Gate) MarkTimerElapsed() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.timerElapsed = true
	g.maybeTransition()
}

// MarkSessionSettled flips the session condition. The authenticated flag is
// captured here so the routing decision and the barrier flip are atomic.
// Later calls cannot change an already-made decision.
func (g *Gate) MarkSessionSettled(authenticated bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.sessionSettled {
		g.sessionSettled = true
		g.authenticated = authenticated
	}
	g.maybeTransition()
}

// Observe feeds a session snapshot into the gate; the session condition is
// marked once loading has finished.
func (g *Gate) Observe(st session.State) {
	if !st.Loading {
		g.MarkSessionSettled(st.Authenticated())
	}
}

// maybeTransition must be called with mu held.
func (g *Gate) maybeTransition() {
	if g.closed || g.state != GateWaiting || !g.timerElapsed || !g.sessionSettled {
		return
	}
	if g.authenticated {
		g.state = GateAuthenticated
		g.nav.Navigate(PathHome, true)
	} else {
		g.state = GateUnauthenticated
		g.nav.Navigate(PathAuth, true)
	}
}

// Stop tears the gate down: the pending timer is cancelled and no
// transition (or navigation) can happen afterwards.
func (g *Gate) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	if g.timer != nil {
		g.timer.Stop()
	}
}
