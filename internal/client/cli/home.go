package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/finapp/internal/client/flow"
)

// nowFn is a test seam for the greeting clock.
var nowFn = time.Now

func greeting() string {
	hour := nowFn().Hour()
	switch {
	case hour < 12:
		return "Good morning"
	case hour < 17:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

// displayName prefers the profile name and falls back to the email's local
// part, matching what the greeting shows on every screen.
func (a *App) displayName() string {
	st := a.session.State()
	if st.Profile != nil && st.Profile.FullName != "" {
		return st.Profile.FullName
	}
	if st.User != nil {
		if at := strings.Index(st.User.Email, "@"); at > 0 {
			return st.User.Email[:at]
		}
		return st.User.Email
	}
	return "User"
}

func (a *App) runHome(ctx context.Context) {
	fmt.Fprintf(a.out, "%s, %s\n", greeting(), a.displayName())
	fmt.Fprintln(a.out, "Total Balance: $24,562.00 (+12.5% vs last month)")

	for {
		if ctx.Err() != nil {
			return
		}
		cmd, err := getSimpleText(a.reader, "home (dashboard, profile, settings, exit)", a.out)
		if err != nil {
			a.quit = true
			return
		}
		switch cmd {
		case "dashboard":
			a.nav.Navigate(flow.PathDashboard, false)
		case "profile":
			a.nav.Navigate(flow.PathProfile, false)
		case "settings":
			a.nav.Navigate(flow.PathSettings, false)
		case "exit", "quit":
			a.quit = true
			return
		case "", "help":
			continue
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
			continue
		}
		if a.nav.Current() != flow.PathHome {
			return
		}
	}
}

func (a *App) runDashboard(ctx context.Context) {
	fmt.Fprintln(a.out, "Dashboard — your financial overview")
	fmt.Fprintln(a.out, "  Income        $8,420   +8.2%")
	fmt.Fprintln(a.out, "  Expenses      $4,280   -3.1%")
	fmt.Fprintln(a.out, "  Savings       $2,140   +12.5%")
	fmt.Fprintln(a.out, "  Total Spending $4,280.00")

	for {
		if ctx.Err() != nil {
			return
		}
		cmd, err := getSimpleText(a.reader, "dashboard (back, exit)", a.out)
		if err != nil {
			a.quit = true
			return
		}
		switch cmd {
		case "back":
			a.back()
			return
		case "exit", "quit":
			a.quit = true
			return
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}
