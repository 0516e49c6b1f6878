// Package flow contains the navigation and form control logic of the
// client: the splash bootstrap gate, the credential form controller, the
// redirect-on-authenticated watcher, and the profile editor.
//
// The controllers are plain state machines over injected collaborators
// (Session, Navigator, Notifier) so every transition in this package can be
// exercised without a terminal, a server, or timers.
package flow

import (
	"context"

	"github.com/dmitrijs2005/finapp/internal/client/session"
)

// Screen paths known to the navigation layer.
const (
	PathSplash    = "/"
	PathAuth      = "/auth"
	PathHome      = "/home"
	PathDashboard = "/dashboard"
	PathProfile   = "/profile"
	PathSettings  = "/settings"
)

// Navigator switches the visible screen. With replace set, the current
// entry is replaced so back-navigation cannot return to it.
type Navigator interface {
	Navigate(path string, replace bool)
}

// Variant selects the visual treatment of a notification.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a fire-and-forget user-facing message.
type Notification struct {
	Title       string
	Description string
	Variant     Variant
}

// Notifier displays notifications. Implementations must not block.
type Notifier interface {
	Notify(n Notification)
}

// Session is the capability set the controllers need from the session
// store. *session.Store satisfies it; tests substitute doubles with
// controllable timing and canned results.
type Session interface {
	State() session.State
	Subscribe() (<-chan session.State, func())
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password, fullName string) error
	SignOut(ctx context.Context) error
	UpdateFullName(ctx context.Context, fullName string) error
}
