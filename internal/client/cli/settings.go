package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/finapp/internal/client/flow"
)

// runSettings offers sign-out. Local session state is cleared even when the
// server-side revocation fails, so "logout" always lands on the credential
// screen.
func (a *App) runSettings(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		cmd, err := getSimpleText(a.reader, "settings (logout, back, exit)", a.out)
		if err != nil {
			a.quit = true
			return
		}
		switch cmd {
		case "logout":
			if err := a.session.SignOut(ctx); err != nil {
				a.logger.Warn(ctx, "server sign-out failed", "error", err)
			}
			a.nav.Navigate(flow.PathAuth, true)
			return
		case "back":
			a.back()
			return
		case "exit", "quit":
			a.quit = true
			return
		case "":
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}
