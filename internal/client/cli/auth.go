package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/finapp/internal/client/flow"
	"github.com/dmitrijs2005/finapp/internal/client/validate"
	"github.com/dmitrijs2005/finapp/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// runAuth hosts the credential screen. The controller owns the form state
// and talks to the session store; the redirector watches the session and
// navigates to home the moment it turns authenticated, so this loop never
// decides "logged in" on its own.
func (a *App) runAuth(ctx context.Context) {
	ctrl := flow.NewAuthController(a.session, a.toaster)
	defer ctrl.Close()
	redirect := flow.NewAuthRedirector(a.nav)

	for {
		if ctx.Err() != nil {
			return
		}

		form := ctrl.Form()
		mode := "Log in"
		if form.Mode == flow.ModeSignUp {
			mode = "Sign up"
		}
		fmt.Fprintf(a.out, "[%s] commands: submit, mode, exit\n", mode)

		cmd, err := getSimpleText(a.reader, "auth", a.out)
		if err != nil {
			a.quit = true
			return
		}

		switch cmd {
		case "submit":
			a.submitCredentials(ctx, ctrl)
		case "mode":
			ctrl.ToggleMode()
		case "exit", "quit":
			a.quit = true
			return
		case "":
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}

		redirect.Observe(a.session.State())
		if a.nav.Current() != flow.PathAuth {
			return
		}
	}
}

func (a *App) submitCredentials(ctx context.Context, ctrl *flow.AuthController) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return
	}
	ctrl.SetEmail(email)

	password, err := getPassword(a.out)
	if err != nil {
		return
	}
	ctrl.SetPassword(string(password))
	common.WipeByteArray(password)

	if ctrl.Form().Mode == flow.ModeSignUp {
		name, err := getSimpleText(a.reader, "Enter full name", a.out)
		if err != nil {
			return
		}
		ctrl.SetFullName(name)
	}

	ctrl.Submit(ctx)
	a.printFieldErrors(ctrl.Form().FieldErrors)
}

func (a *App) printFieldErrors(errs map[validate.Field]string) {
	// stable order; maps iterate randomly
	for _, f := range []validate.Field{validate.FieldEmail, validate.FieldPassword, validate.FieldFullName} {
		if msg, ok := errs[f]; ok {
			fmt.Fprintf(a.out, "%s: %s\n", f, msg)
		}
	}
}
