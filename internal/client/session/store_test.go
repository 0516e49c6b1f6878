package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/dmitrijs2005/finapp/internal/client/api"
	"github.com/dmitrijs2005/finapp/internal/client/localstore"
	"github.com/dmitrijs2005/finapp/internal/client/models"
	"github.com/dmitrijs2005/finapp/internal/logging"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeAPI struct {
	SignInRet  *api.Session
	SignInErr  error
	SignUpRet  *api.Session
	SignUpErr  error
	RefreshRet *api.Session
	RefreshErr error
	SignOutErr error

	UpdateProfileRet *models.Profile
	UpdateProfileErr error

	LastSignInEmail    string
	LastSignInPassword string
	LastSignUpFullName string
	LastRefreshToken   string
	LastUpdate         api.ProfileUpdate

	SignInCalls  int
	SignUpCalls  int
	RefreshCalls int

	rotationHook func(string)
}

func (f *fakeAPI) Close() error { return nil }

func (f *fakeAPI) OnTokenRotation(fn func(refreshToken string)) { f.rotationHook = fn }

// rotateTokens simulates the transport rotating the pair mid-call after an
// expired access token.
func (f *fakeAPI) rotateTokens(refreshToken string) {
	if f.rotationHook != nil {
		f.rotationHook(refreshToken)
	}
}

func (f *fakeAPI) SignIn(_ context.Context, email, password string) (*api.Session, error) {
	f.SignInCalls++
	f.LastSignInEmail, f.LastSignInPassword = email, password
	return f.SignInRet, f.SignInErr
}

func (f *fakeAPI) SignUp(_ context.Context, email, password, fullName string) (*api.Session, error) {
	f.SignUpCalls++
	f.LastSignUpFullName = fullName
	return f.SignUpRet, f.SignUpErr
}

func (f *fakeAPI) Refresh(_ context.Context, token string) (*api.Session, error) {
	f.RefreshCalls++
	f.LastRefreshToken = token
	return f.RefreshRet, f.RefreshErr
}

func (f *fakeAPI) SignOut(context.Context) error { return f.SignOutErr }

func (f *fakeAPI) GetProfile(context.Context) (*models.Profile, error) { return nil, nil }

func (f *fakeAPI) UpdateProfile(_ context.Context, upd api.ProfileUpdate) (*models.Profile, error) {
	f.LastUpdate = upd
	return f.UpdateProfileRet, f.UpdateProfileErr
}

func (f *fakeAPI) AvatarUploadURL(context.Context, string) (string, string, error) {
	return "", "", errors.New("not implemented")
}

func (f *fakeAPI) Ping(context.Context) error { return nil }

type memCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMemCache() *memCache { return &memCache{m: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m[key], nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
	return nil
}

func (c *memCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[string][]byte)
	return nil
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testSession() *api.Session {
	return &api.Session{
		AccessToken:  "acc",
		RefreshToken: "ref",
		User:         models.User{ID: "u1", Email: "a@b.co"},
		Profile:      models.Profile{FullName: "Ada"},
	}
}

// ---- tests ----

func TestNewStore_StartsLoadingSignedOut(t *testing.T) {
	s := NewStore(&fakeAPI{}, newMemCache(), discardLogger())
	st := s.State()
	require.True(t, st.Loading)
	require.False(t, st.Authenticated())
}

func TestResume_NoCachedToken(t *testing.T) {
	f := &fakeAPI{}
	s := NewStore(f, newMemCache(), discardLogger())

	s.Resume(context.Background())

	st := s.State()
	require.False(t, st.Loading, "loading must settle")
	require.False(t, st.Authenticated())
	require.Zero(t, f.RefreshCalls, "no token means no network call")
}

func TestResume_RestoresSession(t *testing.T) {
	f := &fakeAPI{RefreshRet: testSession()}
	cache := newMemCache()
	require.NoError(t, cache.Set(context.Background(), localstore.KeyRefreshToken, []byte("old-ref")))

	s := NewStore(f, cache, discardLogger())
	s.Resume(context.Background())

	st := s.State()
	require.False(t, st.Loading)
	require.True(t, st.Authenticated())
	require.Equal(t, "a@b.co", st.User.Email)
	require.Equal(t, "old-ref", f.LastRefreshToken)

	// rotated token persisted
	tok, _ := cache.Get(context.Background(), localstore.KeyRefreshToken)
	require.Equal(t, []byte("ref"), tok)
}

func TestResume_FailureClearsCacheAndSettlesSignedOut(t *testing.T) {
	f := &fakeAPI{RefreshErr: errors.New("revoked")}
	cache := newMemCache()
	require.NoError(t, cache.Set(context.Background(), localstore.KeyRefreshToken, []byte("stale")))

	s := NewStore(f, cache, discardLogger())
	s.Resume(context.Background())

	st := s.State()
	require.False(t, st.Loading)
	require.False(t, st.Authenticated())

	tok, _ := cache.Get(context.Background(), localstore.KeyRefreshToken)
	require.Nil(t, tok, "stale token must be cleared")
}

func TestSignIn_PopulatesStateAndPersists(t *testing.T) {
	f := &fakeAPI{SignInRet: testSession()}
	cache := newMemCache()
	s := NewStore(f, cache, discardLogger())

	require.NoError(t, s.SignIn(context.Background(), "a@b.co", "secret1"))

	st := s.State()
	require.True(t, st.Authenticated())
	require.Equal(t, "Ada", st.Profile.FullName)
	require.Equal(t, "a@b.co", f.LastSignInEmail)

	tok, _ := cache.Get(context.Background(), localstore.KeyRefreshToken)
	require.Equal(t, []byte("ref"), tok)
}

func TestSignIn_FailureLeavesStateUntouched(t *testing.T) {
	f := &fakeAPI{SignInErr: errors.New("Invalid login credentials")}
	s := NewStore(f, newMemCache(), discardLogger())

	err := s.SignIn(context.Background(), "a@b.co", "wrong1")
	require.EqualError(t, err, "Invalid login credentials")
	require.False(t, s.State().Authenticated())
}

func TestSignOut_ClearsStateAndCache(t *testing.T) {
	f := &fakeAPI{SignInRet: testSession()}
	cache := newMemCache()
	s := NewStore(f, cache, discardLogger())
	require.NoError(t, s.SignIn(context.Background(), "a@b.co", "secret1"))

	require.NoError(t, s.SignOut(context.Background()))

	st := s.State()
	require.False(t, st.Authenticated())
	require.Nil(t, st.Profile)

	tok, _ := cache.Get(context.Background(), localstore.KeyRefreshToken)
	require.Nil(t, tok)
}

func TestSignOut_ServerErrorStillClearsLocalSession(t *testing.T) {
	f := &fakeAPI{SignInRet: testSession(), SignOutErr: errors.New("boom")}
	s := NewStore(f, newMemCache(), discardLogger())
	require.NoError(t, s.SignIn(context.Background(), "a@b.co", "secret1"))

	err := s.SignOut(context.Background())
	require.Error(t, err)
	require.False(t, s.State().Authenticated())
}

func TestTokenRotation_RepersistsRefreshToken(t *testing.T) {
	f := &fakeAPI{SignInRet: testSession()}
	cache := newMemCache()
	s := NewStore(f, cache, discardLogger())
	require.NoError(t, s.SignIn(context.Background(), "a@b.co", "secret1"))

	f.rotateTokens("ref-rotated")

	tok, _ := cache.Get(context.Background(), localstore.KeyRefreshToken)
	require.Equal(t, []byte("ref-rotated"), tok, "cache must follow the rotation")
	require.True(t, s.State().Authenticated())
}

func TestTokenRotation_RotatedTokenSurvivesRestart(t *testing.T) {
	cache := newMemCache()

	// first run: sign in, then an in-session rotation replaces the pair
	first := &fakeAPI{SignInRet: testSession()}
	s1 := NewStore(first, cache, discardLogger())
	require.NoError(t, s1.SignIn(context.Background(), "a@b.co", "secret1"))
	first.rotateTokens("ref-rotated")

	// second run against the same cache: resume must redeem the rotated
	// token, not the revoked original
	second := &fakeAPI{RefreshRet: testSession()}
	s2 := NewStore(second, cache, discardLogger())
	s2.Resume(context.Background())

	require.Equal(t, "ref-rotated", second.LastRefreshToken)
	require.True(t, s2.State().Authenticated())
}

func TestUpdateFullName_CommitsServerValue(t *testing.T) {
	f := &fakeAPI{
		SignInRet: testSession(),
		// the server canonicalizes the value; state must follow the server
		UpdateProfileRet: &models.Profile{FullName: "Ada Lovelace"},
	}
	s := NewStore(f, newMemCache(), discardLogger())
	require.NoError(t, s.SignIn(context.Background(), "a@b.co", "secret1"))

	require.NoError(t, s.UpdateFullName(context.Background(), "ada lovelace"))
	require.Equal(t, "Ada Lovelace", s.State().Profile.FullName)
	require.Equal(t, "ada lovelace", *f.LastUpdate.FullName)
}

func TestSubscribe_DeliversCurrentAndSubsequentStates(t *testing.T) {
	f := &fakeAPI{SignInRet: testSession()}
	s := NewStore(f, newMemCache(), discardLogger())

	ch, cancel := s.Subscribe()
	defer cancel()

	first := <-ch
	require.True(t, first.Loading)

	require.NoError(t, s.SignIn(context.Background(), "a@b.co", "secret1"))
	next := <-ch
	require.True(t, next.Authenticated())
}

func TestSubscribe_CoalescesToLatest(t *testing.T) {
	f := &fakeAPI{SignInRet: testSession()}
	s := NewStore(f, newMemCache(), discardLogger())

	ch, cancel := s.Subscribe()
	defer cancel()

	// no reads in between: initial snapshot must be replaced, not queued
	require.NoError(t, s.SignIn(context.Background(), "a@b.co", "secret1"))
	require.NoError(t, s.SignOut(context.Background()))

	latest := <-ch
	require.False(t, latest.Authenticated(), "subscriber must see only the latest state")
}

func TestSubscribe_CancelIsIdempotent(t *testing.T) {
	s := NewStore(&fakeAPI{}, newMemCache(), discardLogger())
	_, cancel := s.Subscribe()
	cancel()
	cancel()
}
