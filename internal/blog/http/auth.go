package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/webloom/blog/internal/blog/service"
	"github.com/webloom/blog/pkg/cryptox"
	"github.com/webloom/blog/pkg/httpx"
	"github.com/webloom/blog/pkg/slogx"
)

// TokenResponse is the body returned by every endpoint that issues an access
// token. The refresh token never appears here; it travels only in the cookie.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// LogoutResponse acknowledges a logout.
type LogoutResponse struct {
	OK bool `json:"ok"`
}

// credentialsRequest is the JSON body for register and login.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthHandler serves the /v1/auth endpoints.
type AuthHandler struct {
	AuthService  *service.AuthService
	RefreshTTL   time.Duration
	CookieSecure bool
}

func decodeCredentials(r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return credentialsRequest{}, false
	}
	if req.Username == "" || req.Password == "" {
		return credentialsRequest{}, false
	}
	return req, true
}

// HandleRegister godoc
//
//	@Summary		Register a new account
//	@Description	Creates an account and logs it in, returning an access token and setting the refresh token cookie.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		credentialsRequest	true	"username and password"
//	@Success		200		{object}	TokenResponse		"access_token, token_type"
//	@Failure		400		{object}	ErrorResponse		"invalid_request or username_taken"
//	@Failure		500		{object}	ErrorResponse		"server_error"
//	@Header			200		{string}	Set-Cookie			"refresh_token cookie"
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	req, ok := decodeCredentials(r)
	if !ok {
		errInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.AuthService.Register(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			errUsernameTaken.WriteError(w)
		case errors.Is(err, cryptox.ErrPasswordTooLong):
			errInvalidRequest.WriteError(w)
		default:
			log.Error("register failed", "err", err)
			errServerError.WriteError(w)
		}
		return
	}

	AttachRefreshCookie(w, pair.RefreshToken, h.RefreshTTL, h.CookieSecure)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   "bearer",
	})
}

// HandleLogin godoc
//
//	@Summary		Log in
//	@Description	Verifies credentials, returning an access token and setting the refresh token cookie.
//	@Description	Unknown usernames and wrong passwords fail with the same error.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		credentialsRequest	true	"username and password"
//	@Success		200		{object}	TokenResponse		"access_token, token_type"
//	@Failure		400		{object}	ErrorResponse		"invalid_request"
//	@Failure		401		{object}	ErrorResponse		"invalid_credentials"
//	@Failure		500		{object}	ErrorResponse		"server_error"
//	@Header			200		{string}	Set-Cookie			"refresh_token cookie"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	req, ok := decodeCredentials(r)
	if !ok {
		errInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.AuthService.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			errInvalidCredentials.WriteError(w)
			return
		}
		log.Error("login failed", "err", err)
		errServerError.WriteError(w)
		return
	}

	AttachRefreshCookie(w, pair.RefreshToken, h.RefreshTTL, h.CookieSecure)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   "bearer",
	})
}

// HandleRefresh godoc
//
//	@Summary		Refresh the access token
//	@Description	Exchanges the refresh token cookie for a new access token. The refresh token is not rotated.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	TokenResponse	"access_token, token_type"
//	@Failure		401	{object}	ErrorResponse	"no_refresh_token or invalid_refresh_token"
//	@Failure		500	{object}	ErrorResponse	"server_error"
//	@Router			/v1/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	refresh, ok := ReadRefreshCookie(r)
	if !ok {
		errNoRefreshToken.WriteError(w)
		return
	}

	access, err := h.AuthService.Refresh(ctx, refresh)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			errInvalidRefreshToken.WriteError(w)
			return
		}
		log.Error("refresh failed", "err", err)
		errServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken: access,
		TokenType:   "bearer",
	})
}

// HandleLogout godoc
//
//	@Summary		Log out
//	@Description	Clears the refresh token cookie. Always succeeds; no session state exists server-side.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	LogoutResponse	"ok"
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ClearRefreshCookie(w, h.CookieSecure)
	httpx.WriteJSON(w, http.StatusOK, LogoutResponse{OK: true})
}
