package http

import (
	"net/http"
	"time"
)

// RefreshCookieName is the cookie carrying the refresh token. Access tokens
// never travel in cookies; they are bearer-header only.
const RefreshCookieName = "refresh_token"

// AttachRefreshCookie sets the refresh token cookie. HttpOnly and
// SameSite=Strict keep it out of reach of scripts and cross-site requests;
// the Secure flag is configurable so local development over plain HTTP works.
func AttachRefreshCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearRefreshCookie overwrites the cookie with an empty value and Max-Age=0,
// which tells the browser to drop it immediately.
func ClearRefreshCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ReadRefreshCookie returns the refresh token from the request cookie, or
// false when the cookie is absent or empty.
func ReadRefreshCookie(r *http.Request) (string, bool) {
	c, err := r.Cookie(RefreshCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
