package flow

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/finapp/internal/client/validate"
)

// Mode selects between the two faces of the credential screen.
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignUp
)

// AuthForm is the credential screen's transient state. A fresh form is
// created per screen mount and discarded on navigation away.
type AuthForm struct {
	Mode        Mode
	Email       string
	Password    string
	FullName    string
	FieldErrors map[validate.Field]string
	Submitting  bool
}

// User-facing replacements for known backend error messages. Anything the
// backend says that is not recognized here reaches the user verbatim.
const (
	msgInvalidCredentials = "Invalid email or password. Please try again."
	msgDuplicateAccount   = "An account with this email already exists. Please log in instead."
)

// friendlyAuthMessage maps a backend error message onto its user-facing
// form. Matching is deliberately string-based: an exact match for bad
// credentials and a substring match for duplicate accounts, since backends
// wrap the latter in varying envelopes.
func friendlyAuthMessage(msg string) string {
	if msg == "Invalid login credentials" {
		return msgInvalidCredentials
	}
	if strings.Contains(msg, "already registered") {
		return msgDuplicateAccount
	}
	return msg
}

// AuthController runs the login/sign-up form: mode toggle, field state,
// validation before submission, backend error classification, and
// notifications. It never navigates; redirecting after a successful
// authentication is the AuthRedirector's job, keeping the session state the
// single source of truth for "is authenticated".
type AuthController struct {
	mu      sync.Mutex
	form    AuthForm
	session Session
	notify  Notifier
	closed  bool
}

func NewAuthController(sess Session, notifier Notifier) *AuthController {
	return &AuthController{
		form:    AuthForm{Mode: ModeLogin, FieldErrors: map[validate.Field]string{}},
		session: sess,
		notify:  notifier,
	}
}

// Form returns a snapshot of the current form state.
func (c *AuthController) Form() AuthForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := c.form
	f.FieldErrors = make(map[validate.Field]string, len(c.form.FieldErrors))
	for k, v := range c.form.FieldErrors {
		f.FieldErrors[k] = v
	}
	return f
}

func (c *AuthController) SetEmail(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.Email = s
}

func (c *AuthController) SetPassword(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.Password = s
}

func (c *AuthController) SetFullName(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.FullName = s
}

// ToggleMode switches between login and sign-up. Ignored while a submission
// is in flight. Entered email and password survive the switch; only the
// full-name error, which is irrelevant to the other mode, is cleared.
func (c *AuthController) ToggleMode() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.form.Submitting {
		return
	}
	if c.form.Mode == ModeLogin {
		c.form.Mode = ModeSignUp
	} else {
		c.form.Mode = ModeLogin
	}
	delete(c.form.FieldErrors, validate.FieldFullName)
}

// Submit validates the form and, when valid, performs the sign-in or
// sign-up. Invalid input populates field errors and never reaches the
// session store. A submit while one is already in flight is a no-op.
func (c *AuthController) Submit(ctx context.Context) {
	c.mu.Lock()
	if c.closed || c.form.Submitting {
		c.mu.Unlock()
		return
	}

	errs := validate.Form(c.form.Email, c.form.Password, c.form.FullName, c.form.Mode == ModeSignUp)
	c.form.FieldErrors = errs
	if len(errs) > 0 {
		c.mu.Unlock()
		return
	}

	c.form.Submitting = true
	mode, email, password, fullName := c.form.Mode, c.form.Email, c.form.Password, c.form.FullName
	c.mu.Unlock()

	var err error
	if mode == ModeLogin {
		err = c.session.SignIn(ctx, email, password)
	} else {
		err = c.session.SignUp(ctx, email, password, fullName)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		// screen is gone; do not touch state or emit notifications
		return
	}
	c.form.Submitting = false

	if err != nil {
		title := "Login failed"
		if mode == ModeSignUp {
			title = "Sign up failed"
		}
		c.notify.Notify(Notification{
			Title:       title,
			Description: friendlyAuthMessage(err.Error()),
			Variant:     VariantDestructive,
		})
		return
	}

	if mode == ModeLogin {
		c.notify.Notify(Notification{Title: "Welcome back!", Description: "You've successfully logged in.", Variant: VariantDefault})
	} else {
		c.notify.Notify(Notification{Title: "Account created!", Description: "Welcome to FinApp. Let's get started!", Variant: VariantDefault})
	}
}

// Close marks the screen as unmounted: in-flight results are discarded.
func (c *AuthController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}
