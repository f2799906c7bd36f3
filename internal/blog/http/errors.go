package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/webloom/blog/pkg/httpx"
)

// ErrorResponse is the error body shape shared by every endpoint.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// apiError is a fixed HTTP error: status code, stable machine code, and a
// human-readable description. Descriptions never leak which internal check
// failed.
type apiError struct {
	status      int
	code        string
	description string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s: %s", e.code, e.description)
}

// WriteError writes the error body. Token endpoints reuse this, so responses
// are uniformly uncacheable.
func (e *apiError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:            e.code,
		ErrorDescription: e.description,
	})
}

var (
	errInvalidRequest = &apiError{
		status:      http.StatusBadRequest,
		code:        "invalid_request",
		description: "the request is malformed or missing required parameters",
	}

	errUsernameTaken = &apiError{
		status:      http.StatusBadRequest,
		code:        "username_taken",
		description: "username already registered",
	}

	errInvalidCredentials = &apiError{
		status:      http.StatusUnauthorized,
		code:        "invalid_credentials",
		description: "incorrect username or password",
	}

	errNoRefreshToken = &apiError{
		status:      http.StatusUnauthorized,
		code:        "no_refresh_token",
		description: "no refresh token cookie present",
	}

	errInvalidRefreshToken = &apiError{
		status:      http.StatusUnauthorized,
		code:        "invalid_refresh_token",
		description: "refresh token is invalid or expired",
	}

	errServerError = &apiError{
		status:      http.StatusInternalServerError,
		code:        "server_error",
		description: "internal server error",
	}
)
