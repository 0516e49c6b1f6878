// Package session owns the process-wide authentication state: the current
// user, their profile, and the loading flag covering silent session
// resumption. The store is the sole mutator of this state; screens read
// snapshots or subscribe to changes and invoke the operations.
package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/finapp/internal/client/api"
	"github.com/dmitrijs2005/finapp/internal/client/localstore"
	"github.com/dmitrijs2005/finapp/internal/client/models"
	"github.com/dmitrijs2005/finapp/internal/logging"
	"github.com/dmitrijs2005/finapp/internal/netx"
)

// State is an immutable snapshot of the session. User and Profile are nil
// while signed out; Loading is true from process start until resumption has
// either restored a session or definitively found none.
type State struct {
	User    *models.User
	Profile *models.Profile
	Loading bool
}

// Authenticated reports whether an identity is present.
func (s State) Authenticated() bool { return s.User != nil }

// Store is created once at client start and lives for the process.
type Store struct {
	mu      sync.Mutex
	state   State
	subs    map[int]chan State
	nextSub int

	api   api.Client
	cache localstore.Repository
	log   logging.Logger
}

func NewStore(apiClient api.Client, cache localstore.Repository, log logging.Logger) *Store {
	s := &Store{
		state: State{Loading: true},
		subs:  make(map[int]chan State),
		api:   apiClient,
		cache: cache,
		log:   log,
	}
	// An expired access token makes the client rotate the pair mid-call;
	// the server revokes the old refresh token at that moment, so the
	// cached copy must be replaced or the next resume dies on it.
	apiClient.OnTokenRotation(func(refreshToken string) {
		ctx := context.Background()
		if err := s.cache.Set(ctx, localstore.KeyRefreshToken, []byte(refreshToken)); err != nil {
			s.log.Warn(ctx, "persisting rotated refresh token failed", "error", err)
		}
	})
	return s
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe returns a channel delivering state snapshots and a cancel
// function. The channel coalesces: a slow receiver sees only the latest
// state, never a backlog.
func (s *Store) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan State, 1)
	ch <- s.state
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// setState must be called with mu held.
func (s *Store) setState(st State) {
	s.state = st
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}

// Resume restores a previous session from the locally cached refresh token.
// It is called once, in the background, at client start. Whatever the
// outcome, Loading flips to false exactly once; on any failure the state is
// left signed out and the stale token is removed.
func (s *Store) Resume(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		st := s.state
		st.Loading = false
		s.setState(st)
		s.mu.Unlock()
	}()

	token, err := s.cache.Get(ctx, localstore.KeyRefreshToken)
	if err != nil {
		s.log.Warn(ctx, "reading cached session failed", "error", err)
		return
	}
	if token == nil {
		return
	}

	sess, err := s.api.Refresh(ctx, string(token))
	if err != nil {
		s.log.Info(ctx, "session resumption failed, starting signed out", "error", err)
		if err := s.cache.Clear(ctx); err != nil {
			s.log.Warn(ctx, "clearing stale session cache failed", "error", err)
		}
		return
	}

	s.persist(ctx, sess)
	s.mu.Lock()
	s.setState(State{
		User:    &models.User{ID: sess.User.ID, Email: sess.User.Email},
		Profile: &models.Profile{FullName: sess.Profile.FullName, AvatarURL: sess.Profile.AvatarURL},
		Loading: true,
	})
	s.mu.Unlock()
}

func (s *Store) persist(ctx context.Context, sess *api.Session) {
	if err := s.cache.Set(ctx, localstore.KeyRefreshToken, []byte(sess.RefreshToken)); err != nil {
		s.log.Warn(ctx, "persisting refresh token failed", "error", err)
		return
	}
	_ = s.cache.Set(ctx, localstore.KeyUserID, []byte(sess.User.ID))
	_ = s.cache.Set(ctx, localstore.KeyEmail, []byte(sess.User.Email))
}

func (s *Store) applySession(ctx context.Context, sess *api.Session) {
	s.persist(ctx, sess)

	s.mu.Lock()
	loading := s.state.Loading
	s.setState(State{
		User:    &models.User{ID: sess.User.ID, Email: sess.User.Email},
		Profile: &models.Profile{FullName: sess.Profile.FullName, AvatarURL: sess.Profile.AvatarURL},
		Loading: loading,
	})
	s.mu.Unlock()
}

// SignIn authenticates with credentials. On success user and profile are
// populated before the call returns.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	sess, err := s.api.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	s.applySession(ctx, sess)
	return nil
}

// SignUp creates an account and signs the new user in.
func (s *Store) SignUp(ctx context.Context, email, password, fullName string) error {
	sess, err := s.api.SignUp(ctx, email, password, fullName)
	if err != nil {
		return err
	}
	s.applySession(ctx, sess)
	return nil
}

// SignOut revokes the session server-side and clears all local state. The
// local session is dropped even when the server call fails.
func (s *Store) SignOut(ctx context.Context) error {
	err := s.api.SignOut(ctx)
	if err != nil {
		s.log.Warn(ctx, "server sign-out failed, clearing local session anyway", "error", err)
	}

	if cerr := s.cache.Clear(ctx); cerr != nil {
		s.log.Warn(ctx, "clearing session cache failed", "error", cerr)
	}

	s.mu.Lock()
	s.setState(State{Loading: s.state.Loading})
	s.mu.Unlock()
	return err
}

// UpdateFullName merges a new full name into the profile. State is updated
// from the server's response, not from the submitted value.
func (s *Store) UpdateFullName(ctx context.Context, fullName string) error {
	profile, err := s.api.UpdateProfile(ctx, api.ProfileUpdate{FullName: &fullName})
	if err != nil {
		return err
	}

	s.mu.Lock()
	st := s.state
	st.Profile = &models.Profile{FullName: profile.FullName, AvatarURL: profile.AvatarURL}
	s.setState(st)
	s.mu.Unlock()
	return nil
}

// UploadAvatar asks the backend for a presigned PUT URL, uploads the image
// there, and commits the new avatar key to the profile.
func (s *Store) UploadAvatar(ctx context.Context, contentType string, data []byte) error {
	key, url, err := s.api.AvatarUploadURL(ctx, contentType)
	if err != nil {
		return err
	}
	if err := netx.UploadToPresignedURL(ctx, url, contentType, data); err != nil {
		return err
	}

	profile, err := s.api.UpdateProfile(ctx, api.ProfileUpdate{AvatarKey: &key})
	if err != nil {
		return err
	}

	s.mu.Lock()
	st := s.state
	st.Profile = &models.Profile{FullName: profile.FullName, AvatarURL: profile.AvatarURL}
	s.setState(st)
	s.mu.Unlock()
	return nil
}

// Close releases the underlying API client.
func (s *Store) Close(ctx context.Context) error {
	return s.api.Close()
}
