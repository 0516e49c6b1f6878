package flow

import (
	"sync"

	"github.com/dmitrijs2005/finapp/internal/client/session"
)

// AuthRedirector watches session state while the credential screen is
// mounted and navigates to the authenticated area, replacing history,
// exactly once when an identity appears. It fires no matter what caused
// the identity to appear: this screen's own submission or an external
// session change.
type AuthRedirector struct {
	mu    sync.Mutex
	nav   Navigator
	fired bool
}

func NewAuthRedirector(nav Navigator) *AuthRedirector {
	return &AuthRedirector{nav: nav}
}

// Observe feeds a session snapshot into the redirector.
func (r *AuthRedirector) Observe(st session.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fired || !st.Authenticated() {
		return
	}
	r.fired = true
	r.nav.Navigate(PathHome, true)
}
