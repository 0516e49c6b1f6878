package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/finapp/internal/client/models"
	"github.com/dmitrijs2005/finapp/internal/common"
)

// HTTPClient talks JSON to the account service. It holds the current token
// pair and transparently refreshes an expired access token once per call,
// mirroring the behavior users get from an SDK interceptor.
type HTTPClient struct {
	baseURL      string
	httpClient   *http.Client
	accessToken  string
	refreshToken string
	onRotation   func(refreshToken string)
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// OnTokenRotation registers fn to be called when the transparent
// refresh-retry rotates the token pair. Without it a caller holding a
// durable copy of the refresh token would keep one the server has already
// revoked.
func (c *HTTPClient) OnTokenRotation(fn func(refreshToken string)) {
	c.onRotation = fn
}

// --- wire DTOs ---

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type userPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type profilePayload struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type sessionResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         userPayload    `json:"user"`
	Profile      profilePayload `json:"profile"`
}

type profileUpdateRequest struct {
	FullName  *string `json:"full_name,omitempty"`
	AvatarKey *string `json:"avatar_key,omitempty"`
}

type avatarUploadRequest struct {
	ContentType string `json:"content_type"`
}

type avatarUploadResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// --- transport core ---

// doJSON issues one request and decodes the response into out (when out is
// non-nil). Non-2xx responses are returned as *BackendError carrying the
// backend message.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any, authorized bool) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if authorized && c.accessToken != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&er); decodeErr != nil || er.Message == "" {
			er.Message = resp.Status
		}
		return &BackendError{StatusCode: resp.StatusCode, Message: er.Message}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// doAuthorized runs an authorized call and, when the access token has
// expired, rotates the token pair and retries exactly once.
func (c *HTTPClient) doAuthorized(ctx context.Context, method, path string, in, out any) error {
	err := c.doJSON(ctx, method, path, in, out, true)
	if !isExpiredToken(err) || c.refreshToken == "" {
		return err
	}

	if _, err := c.Refresh(ctx, c.refreshToken); err != nil {
		return err
	}
	if c.onRotation != nil {
		c.onRotation(c.refreshToken)
	}
	return c.doJSON(ctx, method, path, in, out, true)
}

func isExpiredToken(err error) bool {
	be, ok := err.(*BackendError)
	return ok && be.StatusCode == http.StatusUnauthorized && be.Message == common.ErrTokenExpired.Error()
}

func (c *HTTPClient) setTokens(access, refresh string) {
	c.accessToken = access
	c.refreshToken = refresh
}

func toSession(sr *sessionResponse) *Session {
	return &Session{
		AccessToken:  sr.AccessToken,
		RefreshToken: sr.RefreshToken,
		User:         models.User{ID: sr.User.ID, Email: sr.User.Email},
		Profile:      models.Profile{FullName: sr.Profile.FullName, AvatarURL: sr.Profile.AvatarURL},
	}
}

// --- Client implementation ---

func (c *HTTPClient) SignUp(ctx context.Context, email, password, fullName string) (*Session, error) {
	var sr sessionResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/signup", &signUpRequest{Email: email, Password: password, FullName: fullName}, &sr, false)
	if err != nil {
		return nil, err
	}
	c.setTokens(sr.AccessToken, sr.RefreshToken)
	return toSession(&sr), nil
}

func (c *HTTPClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var sr sessionResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/signin", &signInRequest{Email: email, Password: password}, &sr, false)
	if err != nil {
		return nil, err
	}
	c.setTokens(sr.AccessToken, sr.RefreshToken)
	return toSession(&sr), nil
}

func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	var sr sessionResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/refresh", &refreshRequest{RefreshToken: refreshToken}, &sr, false)
	if err != nil {
		return nil, err
	}
	c.setTokens(sr.AccessToken, sr.RefreshToken)
	return toSession(&sr), nil
}

// SignOut revokes the current refresh token server-side and always drops
// the local token pair, even when revocation fails.
func (c *HTTPClient) SignOut(ctx context.Context) error {
	err := c.doAuthorized(ctx, http.MethodPost, "/api/auth/signout", &refreshRequest{RefreshToken: c.refreshToken}, nil)
	c.setTokens("", "")
	return err
}

func (c *HTTPClient) GetProfile(ctx context.Context) (*models.Profile, error) {
	var pp profilePayload
	if err := c.doAuthorized(ctx, http.MethodGet, "/api/profile", nil, &pp); err != nil {
		return nil, err
	}
	return &models.Profile{FullName: pp.FullName, AvatarURL: pp.AvatarURL}, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*models.Profile, error) {
	var pp profilePayload
	req := &profileUpdateRequest{FullName: upd.FullName, AvatarKey: upd.AvatarKey}
	if err := c.doAuthorized(ctx, http.MethodPatch, "/api/profile", req, &pp); err != nil {
		return nil, err
	}
	return &models.Profile{FullName: pp.FullName, AvatarURL: pp.AvatarURL}, nil
}

func (c *HTTPClient) AvatarUploadURL(ctx context.Context, contentType string) (string, string, error) {
	var ar avatarUploadResponse
	if err := c.doAuthorized(ctx, http.MethodPost, "/api/profile/avatar", &avatarUploadRequest{ContentType: contentType}, &ar); err != nil {
		return "", "", err
	}
	return ar.Key, ar.UploadURL, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/api/health", nil, nil, false)
}
