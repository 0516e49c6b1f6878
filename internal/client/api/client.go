// Package api implements the client for the FinApp account service.
package api

import (
	"context"

	"github.com/dmitrijs2005/finapp/internal/client/models"
)

// Session is the authenticated state returned by the credential endpoints.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         models.User
	Profile      models.Profile
}

// ProfileUpdate is a partial profile change; nil fields are left untouched
// by the server.
type ProfileUpdate struct {
	FullName  *string
	AvatarKey *string
}

// Client is the transport boundary to the account service. The session
// store is its only production consumer; tests substitute fakes.
type Client interface {
	Close() error
	// OnTokenRotation registers fn to be invoked, with the new refresh
	// token, whenever the client rotates its token pair on its own rather
	// than through an explicit auth call. The server revokes the previous
	// refresh token on rotation, so the owner of any durable token copy
	// must replace it.
	OnTokenRotation(fn func(refreshToken string))
	SignUp(ctx context.Context, email, password, fullName string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	SignOut(ctx context.Context) error
	GetProfile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, upd ProfileUpdate) (*models.Profile, error)
	AvatarUploadURL(ctx context.Context, contentType string) (key string, url string, err error)
	Ping(ctx context.Context) error
}
