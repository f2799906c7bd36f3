// Package service contains the business logic behind the HTTP handlers:
// account registration, login, token refresh, the identity gate, and posts.
package service

import (
	"context"
	"errors"

	"github.com/webloom/blog/internal/blog/domain"
	"github.com/webloom/blog/internal/blog/store"
	"github.com/webloom/blog/pkg/cryptox"
	"github.com/webloom/blog/pkg/idx"
	"github.com/webloom/blog/pkg/jwtx"
)

var (
	// ErrUsernameTaken reports a registration against an existing username.
	ErrUsernameTaken = errors.New("username_taken")

	// ErrInvalidCredentials is the single login failure. Unknown username and
	// wrong password are indistinguishable on purpose.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrInvalidRefreshToken collapses every refresh-token validation failure
	// (signature, expiry, wrong type, malformed) into one category.
	ErrInvalidRefreshToken = errors.New("invalid_refresh_token")

	// ErrUnauthorized is the generic identity-gate failure, covering both bad
	// access tokens and accounts deleted after token issuance.
	ErrUnauthorized = errors.New("unauthorized")
)

// dummyHash is a throwaway bcrypt hash verified against when login targets a
// nonexistent user, so both failure paths cost one bcrypt comparison.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService orchestrates the register/login/refresh flows and resolves
// bearer tokens for protected endpoints. Tokens are stateless: nothing about
// a session is persisted, so there is nothing to revoke server-side.
type AuthService struct {
	Store  store.Store
	Signer *jwtx.Signer
}

// Register creates an account and logs it in, returning a fresh token pair.
// A duplicate username fails with ErrUsernameTaken whether it is caught by
// the pre-check or by the unique constraint under a concurrent race.
func (s *AuthService) Register(ctx context.Context, username, password string) (domain.TokenPair, error) {
	if _, err := s.Store.Users().GetUserByUsername(ctx, username); err == nil {
		return domain.TokenPair{}, ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.TokenPair{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.TokenPair{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.TokenPair{}, ErrUsernameTaken
		}
		return domain.TokenPair{}, err
	}

	return s.issuePair(username)
}

// Login verifies credentials and returns a fresh token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.TokenPair, error) {
	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a comparison so the miss costs the same as a mismatch.
			_ = cryptox.VerifyPassword(password, dummyHash)
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.TokenPair{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return domain.TokenPair{}, ErrInvalidCredentials
	}

	return s.issuePair(username)
}

// Refresh exchanges a valid refresh token for a new access token. The refresh
// token itself is not rotated; it stays usable until it expires. No account
// lookup happens here — a deleted user's refresh still mints an access token,
// which the identity gate then rejects on first use.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	subject, err := s.Signer.Parse(refreshToken, jwtx.KindRefresh)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	access, err := s.Signer.IssueAccess(subject)
	if err != nil {
		return "", err
	}
	return access, nil
}

// ResolveUser is the identity gate behind protected endpoints: validate the
// access token, then confirm the account still exists. A stale token for a
// deleted user fails exactly like a bad token.
func (s *AuthService) ResolveUser(ctx context.Context, accessToken string) (domain.User, error) {
	subject, err := s.Signer.Parse(accessToken, jwtx.KindAccess)
	if err != nil {
		return domain.User{}, ErrUnauthorized
	}

	user, err := s.Store.Users().GetUserByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUnauthorized
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *AuthService) issuePair(username string) (domain.TokenPair, error) {
	access, err := s.Signer.IssueAccess(username)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := s.Signer.IssueRefresh(username)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
