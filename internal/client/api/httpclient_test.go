package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/finapp/internal/common"
	"github.com/stretchr/testify/require"
)

func writeSession(t *testing.T, w http.ResponseWriter, access, refresh string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]any{
		"access_token":  access,
		"refresh_token": refresh,
		"user":          map[string]string{"id": "u1", "email": "a@b.co"},
		"profile":       map[string]string{"full_name": "Ada"},
	})
	require.NoError(t, err)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}

func TestSignIn_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/signin", r.URL.Path)
		var req signInRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "a@b.co", req.Email)
		require.Equal(t, "secret1", req.Password)
		writeSession(t, w, "acc1", "ref1")
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	s, err := c.SignIn(context.Background(), "a@b.co", "secret1")
	require.NoError(t, err)
	require.Equal(t, "u1", s.User.ID)
	require.Equal(t, "Ada", s.Profile.FullName)
	require.Equal(t, "acc1", c.accessToken)
	require.Equal(t, "ref1", c.refreshToken)
}

func TestSignIn_BackendMessagePassedThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusBadRequest, common.ErrorMsgInvalidCredentials)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.SignIn(context.Background(), "a@b.co", "wrong1")
	require.Error(t, err)

	var be *BackendError
	require.True(t, errors.As(err, &be))
	require.Equal(t, common.ErrorMsgInvalidCredentials, be.Message)
	require.Equal(t, common.ErrorMsgInvalidCredentials, err.Error())
}

func TestSignUp_AlreadyRegistered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusUnprocessableEntity, common.ErrorMsgAlreadyRegistered)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.SignUp(context.Background(), "a@b.co", "secret1", "Ada")
	require.EqualError(t, err, common.ErrorMsgAlreadyRegistered)
}

func TestDoAuthorized_RefreshRetryOnExpiredToken(t *testing.T) {
	var profileCalls, refreshCalls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/profile":
			profileCalls++
			if r.Header.Get(common.AuthorizationHeaderName) != "Bearer fresh" {
				writeError(w, http.StatusUnauthorized, common.ErrTokenExpired.Error())
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"full_name": "Ada"})
		case "/api/auth/refresh":
			refreshCalls++
			writeSession(t, w, "fresh", "ref2")
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	c.setTokens("stale", "ref1")

	var rotated []string
	c.OnTokenRotation(func(refreshToken string) { rotated = append(rotated, refreshToken) })

	p, err := c.GetProfile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Ada", p.FullName)
	require.Equal(t, 2, profileCalls, "must retry exactly once")
	require.Equal(t, 1, refreshCalls)
	require.Equal(t, "ref2", c.refreshToken, "rotated refresh token must be kept")
	require.Equal(t, []string{"ref2"}, rotated, "rotation must be announced once")
}

func TestDoAuthorized_NoRetryWithoutRefreshToken(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeError(w, http.StatusUnauthorized, common.ErrTokenExpired.Error())
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	c.setTokens("stale", "")

	_, err := c.GetProfile(context.Background())
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestNetworkFailure_IsErrUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewHTTPClient(srv.URL)
	err := c.Ping(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestSignOut_ClearsTokensEvenOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusInternalServerError, common.ErrorMsgInternal)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	c.setTokens("acc", "ref")
	_ = c.SignOut(context.Background())
	require.Empty(t, c.accessToken)
	require.Empty(t, c.refreshToken)
}
