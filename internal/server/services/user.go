// Package services contains server-side business logic. This file implements
// UserService, which handles sign-up, sign-in, profile updates, and
// issuing/refreshing JWTs plus server-stored refresh tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/finapp/internal/common"
	"github.com/dmitrijs2005/finapp/internal/dbx"
	"github.com/dmitrijs2005/finapp/internal/server/auth"
	"github.com/dmitrijs2005/finapp/internal/server/config"
	"github.com/dmitrijs2005/finapp/internal/server/models"
	"github.com/dmitrijs2005/finapp/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthResult is the outcome of any operation that establishes a session:
// the token pair plus the identity and profile the client renders from.
type AuthResult struct {
	Tokens  TokenPair
	User    *models.User
	Profile *models.Profile
}

// UserService provides authentication and account operations:
// - SignUp: create an account with its profile
// - SignIn: verify credentials and mint tokens
// - Refresh: rotate refresh tokens and mint new access tokens
// - SignOut: revoke a refresh token
// - Profile / UpdateProfile: read and patch the account profile
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// SignUp creates the user and its profile in one transaction and returns a
// fresh session. A duplicate email yields common.ErrorAlreadyExists.
func (s *UserService) SignUp(ctx context.Context, email, password, fullName string) (*AuthResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var result *AuthResult
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).Create(ctx, &models.User{Email: email, PasswordHash: hash})
		if err != nil {
			return err
		}
		profile := &models.Profile{UserID: user.ID, FullName: fullName}
		if err := s.repomanager.Profiles(tx).Create(ctx, profile); err != nil {
			return err
		}
		pair, err := s.generateTokenPair(ctx, user.ID, tx)
		if err != nil {
			return err
		}
		result = &AuthResult{Tokens: *pair, User: user, Profile: profile}
		return nil
	}); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return result, nil
}

// SignIn verifies the credentials and, on success, returns a new session.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *UserService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	profile, err := s.loadProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	pair, err := s.generateTokenPair(ctx, user.ID, s.db)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Tokens: *pair, User: user, Profile: profile}, nil
}

// Refresh validates a refresh token, rotates it transactionally, and returns
// a fresh session. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, token.UserID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	profile, err := s.loadProfile(ctx, token.UserID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Tokens: *pair, User: user, Profile: profile}, nil
}

// SignOut revokes the refresh token. Revoking an unknown token is not an
// error; the session is gone either way.
func (s *UserService) SignOut(ctx context.Context, refreshToken string) error {
	return s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken)
}

// Profile returns the account profile for userID.
func (s *UserService) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	return s.loadProfile(ctx, userID)
}

// UpdateProfile patches the fields whose pointers are non-nil and returns
// the resulting profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, fullName, avatarKey *string) (*models.Profile, error) {
	return s.repomanager.Profiles(s.db).Update(ctx, userID, fullName, avatarKey)
}

// --- helpers below ---

func (s *UserService) loadProfile(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.repomanager.Profiles(s.db).GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// legacy accounts may predate the profiles table
			return &models.Profile{UserID: userID}, nil
		}
		return nil, common.ErrorInternal
	}
	return profile, nil
}

func (s *UserService) generateAccessToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// UserIDFromAccessToken verifies an access token and returns its subject.
func (s *UserService) UserIDFromAccessToken(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}
