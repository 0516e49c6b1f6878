package flow

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/finapp/internal/client/models"
	"github.com/dmitrijs2005/finapp/internal/client/session"
)

// ---- shared fakes ----

type navCall struct {
	Path    string
	Replace bool
}

type fakeNav struct {
	mu    sync.Mutex
	Calls []navCall
}

func (n *fakeNav) Navigate(path string, replace bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Calls = append(n.Calls, navCall{Path: path, Replace: replace})
}

func (n *fakeNav) calls() []navCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]navCall(nil), n.Calls...)
}

type fakeNotifier struct {
	mu            sync.Mutex
	Notifications []Notification
}

func (n *fakeNotifier) Notify(msg Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Notifications = append(n.Notifications, msg)
}

func (n *fakeNotifier) all() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.Notifications...)
}

// fakeSession is a controllable Session double. When block is non-nil, the
// credential operations signal started and then wait for release, letting
// tests observe in-flight state.
type fakeSession struct {
	mu sync.Mutex

	state session.State

	signInErr error
	signUpErr error
	updateErr error

	signInCalls int
	signUpCalls int
	updateCalls int

	lastEmail    string
	lastPassword string
	lastFullName string
	lastUpdate   string

	started chan struct{}
	release chan struct{}
}

func (f *fakeSession) block() {
	f.started = make(chan struct{})
	f.release = make(chan struct{})
}

func (f *fakeSession) gate() {
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}
}

func (f *fakeSession) State() session.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeSession) setState(st session.State) {
	f.mu.Lock()
	f.state = st
	f.mu.Unlock()
}

func (f *fakeSession) Subscribe() (<-chan session.State, func()) {
	ch := make(chan session.State, 1)
	ch <- f.State()
	return ch, func() {}
}

func (f *fakeSession) SignIn(_ context.Context, email, password string) error {
	f.mu.Lock()
	f.signInCalls++
	f.lastEmail, f.lastPassword = email, password
	f.mu.Unlock()
	f.gate()
	if f.signInErr == nil {
		f.setState(session.State{User: &models.User{ID: "u1", Email: email}, Profile: &models.Profile{}})
	}
	return f.signInErr
}

func (f *fakeSession) SignUp(_ context.Context, email, password, fullName string) error {
	f.mu.Lock()
	f.signUpCalls++
	f.lastEmail, f.lastPassword, f.lastFullName = email, password, fullName
	f.mu.Unlock()
	f.gate()
	if f.signUpErr == nil {
		f.setState(session.State{User: &models.User{ID: "u1", Email: email}, Profile: &models.Profile{FullName: fullName}})
	}
	return f.signUpErr
}

func (f *fakeSession) SignOut(context.Context) error {
	f.setState(session.State{})
	return nil
}

func (f *fakeSession) UpdateFullName(_ context.Context, fullName string) error {
	f.mu.Lock()
	f.updateCalls++
	f.lastUpdate = fullName
	f.mu.Unlock()
	f.gate()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	st := f.state
	st.Profile = &models.Profile{FullName: fullName}
	f.state = st
	f.mu.Unlock()
	return nil
}
