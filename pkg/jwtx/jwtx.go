// Package jwtx issues and validates the signed, time-bounded tokens that back
// every session. Tokens are self-contained: the server keeps no record of
// them, so expiry is the only way one dies.
package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs. Access tokens are short-lived because they ride in the
// Authorization header on every request; refresh tokens live in an HttpOnly
// cookie and last a week.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenKind distinguishes the two token types in the "type" claim. Validation
// always pins the expected kind so a refresh token can never act as a bearer
// credential, and vice versa.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

var (
	// ErrInvalidToken is the umbrella error every validation failure wraps.
	// Callers that must not leak which check failed match on this one.
	ErrInvalidToken = errors.New("jwtx: invalid token")

	ErrMalformed = fmt.Errorf("%w: malformed", ErrInvalidToken)
	ErrSignature = fmt.Errorf("%w: bad signature", ErrInvalidToken)
	ErrExpired   = fmt.Errorf("%w: expired", ErrInvalidToken)
	ErrWrongType = fmt.Errorf("%w: wrong token type", ErrInvalidToken)
	ErrNoSubject = fmt.Errorf("%w: missing subject", ErrInvalidToken)
)

// Claims is the token payload: subject (username), expiry, and the token
// type. Wire names are fixed: "sub", "exp", "type".
type Claims struct {
	jwt.RegisteredClaims

	TokenType TokenKind `json:"type"`
}

// Signer issues and parses HMAC-signed tokens with a single static secret.
// It is constructed once at startup from config and is safe for concurrent
// use; key rotation is out of scope.
type Signer struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewSigner builds a Signer. algorithm must be one of HS256, HS384 or HS512;
// anything else is a startup error, not something to discover per request.
func NewSigner(secret, algorithm string, accessTTL, refreshTTL time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, errors.New("jwtx: signing secret must not be empty")
	}
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); method == nil || !ok {
		return nil, fmt.Errorf("jwtx: unsupported signing algorithm %q", algorithm)
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}
	return &Signer{
		secret:     []byte(secret),
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// AccessTTL returns the configured access-token lifetime.
func (s *Signer) AccessTTL() time.Duration { return s.accessTTL }

// RefreshTTL returns the configured refresh-token lifetime.
func (s *Signer) RefreshTTL() time.Duration { return s.refreshTTL }

// IssueAccess mints a short-lived access token for subject.
func (s *Signer) IssueAccess(subject string) (string, error) {
	return s.issue(subject, KindAccess, s.accessTTL)
}

// IssueRefresh mints a long-lived refresh token for subject.
func (s *Signer) IssueRefresh(subject string) (string, error) {
	return s.issue(subject, KindRefresh, s.refreshTTL)
}

func (s *Signer) issue(subject string, kind TokenKind, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: kind,
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Parse validates tokenString and returns its subject. Checks run in order:
// signature, structure, expiry, then token type against kind. A token without
// an expiry claim is malformed; nothing issued here lives forever. Every
// failure wraps ErrInvalidToken so boundaries can collapse them into one
// response.
func (s *Signer) Parse(tokenString string, kind TokenKind) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != s.method.Alg() {
			return nil, ErrSignature
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrSignature
		default:
			return "", ErrMalformed
		}
	}
	if !token.Valid {
		return "", ErrMalformed
	}
	if claims.TokenType != kind {
		return "", ErrWrongType
	}
	if claims.Subject == "" {
		return "", ErrNoSubject
	}
	return claims.Subject, nil
}
