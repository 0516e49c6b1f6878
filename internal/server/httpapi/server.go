// Package httpapi exposes the account service over a JSON HTTP API.
//
// Routes:
//
//	POST /api/auth/signup    create an account, returns a session
//	POST /api/auth/signin    verify credentials, returns a session
//	POST /api/auth/refresh   rotate the refresh token, returns a session
//	POST /api/auth/signout   revoke the refresh token (authorized)
//	GET  /api/profile        read the profile (authorized)
//	PATCH /api/profile       patch the profile (authorized)
//	POST /api/profile/avatar mint a presigned avatar upload URL (authorized)
//	GET  /api/health         liveness probe
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/finapp/internal/logging"
	"github.com/dmitrijs2005/finapp/internal/server/models"
	"github.com/dmitrijs2005/finapp/internal/server/services"
)

// AccountService is the business surface the API serves.
// *services.UserService satisfies it.
type AccountService interface {
	SignUp(ctx context.Context, email, password, fullName string) (*services.AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*services.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*services.AuthResult, error)
	SignOut(ctx context.Context, refreshToken string) error
	Profile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID string, fullName, avatarKey *string) (*models.Profile, error)
	UserIDFromAccessToken(token string) (string, error)
}

// AvatarSigner mints presigned object-storage URLs.
// *services.AvatarService satisfies it.
type AvatarSigner interface {
	GetPresignedPutUrl(ctx context.Context, userID, contentType string) (string, string, error)
	GetPresignedGetUrl(ctx context.Context, key string) (string, error)
}

type Server struct {
	addr     string
	logger   logging.Logger
	accounts AccountService
	avatars  AvatarSigner

	httpServer *http.Server
}

func NewServer(addr string, logger logging.Logger, accounts AccountService, avatars AvatarSigner) *Server {
	s := &Server{
		addr:     addr,
		logger:   logger,
		accounts: accounts,
		avatars:  avatars,
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Router builds the route table. Exposed separately so tests can drive the
// handlers through httptest without binding a socket.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	authR := api.PathPrefix("/auth").Subrouter()
	authR.HandleFunc("/signup", s.handleSignUp).Methods(http.MethodPost)
	authR.HandleFunc("/signin", s.handleSignIn).Methods(http.MethodPost)
	authR.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodPost)
	authR.Handle("/signout", s.withAuth(s.handleSignOut)).Methods(http.MethodPost)

	api.Handle("/profile", s.withAuth(s.handleGetProfile)).Methods(http.MethodGet)
	api.Handle("/profile", s.withAuth(s.handlePatchProfile)).Methods(http.MethodPatch)
	api.Handle("/profile/avatar", s.withAuth(s.handleAvatarUploadURL)).Methods(http.MethodPost)

	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
