package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/finapp/internal/client/flow"
)

// runSplash holds the splash screen up until the bootstrap gate routes
// away. The gate listens to session snapshots on one side and the minimum
// display timer on the other; this loop only pumps updates into it and
// waits for the resulting navigation.
func (a *App) runSplash(ctx context.Context) {
	fmt.Fprintln(a.out, "FinApp")
	fmt.Fprintln(a.out, "loading...")

	gate := flow.NewGate(a.nav)
	defer gate.Stop()

	updates, cancel := a.session.Subscribe()
	defer cancel()

	gate.StartTimer(a.config.SplashMinDisplay)
	gate.Observe(a.session.State())

	for {
		select {
		case st := <-updates:
			gate.Observe(st)
		case <-a.nav.Changed():
			if a.nav.Current() != flow.PathSplash {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
