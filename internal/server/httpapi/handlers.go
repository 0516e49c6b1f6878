package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/finapp/internal/common"
	"github.com/dmitrijs2005/finapp/internal/server/models"
	"github.com/dmitrijs2005/finapp/internal/server/services"
)

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
	FullName  *string `json:"full_name"`
	AvatarKey *string `json:"avatar_key"`
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

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// profileToPayload resolves the stored avatar key into a presigned download
// URL. A failed presign degrades to a profile without an avatar rather than
// failing the whole request.
func (s *Server) profileToPayload(r *http.Request, p *models.Profile) profilePayload {
	out := profilePayload{FullName: p.FullName}
	if p.AvatarKey != "" {
		url, err := s.avatars.GetPresignedGetUrl(r.Context(), p.AvatarKey)
		if err != nil {
			s.logger.Warn(r.Context(), "presigning avatar url failed", "error", err)
		} else {
			out.AvatarURL = url
		}
	}
	return out
}

func (s *Server) sessionToResponse(r *http.Request, res *services.AuthResult) sessionResponse {
	return sessionResponse{
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		User:         userPayload{ID: res.User.ID, Email: res.User.Email},
		Profile:      s.profileToPayload(r, res.Profile),
	}
}

// --- handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := s.accounts.SignUp(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeError(w, http.StatusUnprocessableEntity, common.ErrorMsgAlreadyRegistered)
			return
		}
		s.logger.Error(r.Context(), "sign-up failed", "error", err)
		writeError(w, http.StatusInternalServerError, common.ErrorMsgInternal)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionToResponse(r, res))
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := s.accounts.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeError(w, http.StatusBadRequest, common.ErrorMsgInvalidCredentials)
			return
		}
		s.logger.Error(r.Context(), "sign-in failed", "error", err)
		writeError(w, http.StatusInternalServerError, common.ErrorMsgInternal)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionToResponse(r, res))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := s.accounts.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) || errors.Is(err, common.ErrRefreshTokenExpired) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		s.logger.Error(r.Context(), "token refresh failed", "error", err)
		writeError(w, http.StatusInternalServerError, common.ErrorMsgInternal)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionToResponse(r, res))
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.accounts.SignOut(r.Context(), req.RefreshToken); err != nil {
		s.logger.Error(r.Context(), "sign-out failed", "error", err)
		writeError(w, http.StatusInternalServerError, common.ErrorMsgInternal)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.accounts.Profile(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.logger.Error(r.Context(), "loading profile failed", "error", err)
		writeError(w, http.StatusInternalServerError, common.ErrorMsgInternal)
		return
	}
	writeJSON(w, http.StatusOK, s.profileToPayload(r, profile))
}

func (s *Server) handlePatchProfile(w http.ResponseWriter, r *http.Request) {
	var req profileUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := s.accounts.UpdateProfile(r.Context(), userIDFrom(r.Context()), req.FullName, req.AvatarKey)
	if err != nil {
		s.logger.Error(r.Context(), "updating profile failed", "error", err)
		writeError(w, http.StatusInternalServerError, common.ErrorMsgInternal)
		return
	}
	writeJSON(w, http.StatusOK, s.profileToPayload(r, profile))
}

func (s *Server) handleAvatarUploadURL(w http.ResponseWriter, r *http.Request) {
	var req avatarUploadRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	key, url, err := s.avatars.GetPresignedPutUrl(r.Context(), userIDFrom(r.Context()), req.ContentType)
	if err != nil {
		s.logger.Error(r.Context(), "presigning avatar upload failed", "error", err)
		writeError(w, http.StatusInternalServerError, common.ErrorMsgInternal)
		return
	}
	writeJSON(w, http.StatusOK, avatarUploadResponse{Key: key, UploadURL: url})
}
