package jwtx

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := NewSigner("test-secret", "HS256", time.Minute, time.Hour)
	require.NoError(t, err)
	return s
}

func TestNewSigner(t *testing.T) {
	t.Parallel()

	t.Run("accepts the HS family", func(t *testing.T) {
		for _, alg := range []string{"HS256", "HS384", "HS512"} {
			_, err := NewSigner("secret", alg, 0, 0)
			require.NoError(t, err, alg)
		}
	})

	t.Run("rejects unknown and asymmetric algorithms", func(t *testing.T) {
		for _, alg := range []string{"", "none", "RS256", "ES256", "HS111"} {
			_, err := NewSigner("secret", alg, 0, 0)
			require.Error(t, err, alg)
		}
	})

	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := NewSigner("", "HS256", 0, 0)
		require.Error(t, err)
	})

	t.Run("zero TTLs fall back to defaults", func(t *testing.T) {
		s, err := NewSigner("secret", "HS256", 0, 0)
		require.NoError(t, err)
		require.Equal(t, DefaultAccessTokenTTL, s.AccessTTL())
		require.Equal(t, DefaultRefreshTokenTTL, s.RefreshTTL())
	})
}

func TestParse(t *testing.T) {
	t.Parallel()
	s := newTestSigner(t)

	t.Run("access token round trip", func(t *testing.T) {
		token, err := s.IssueAccess("alice")
		require.NoError(t, err)
		sub, err := s.Parse(token, KindAccess)
		require.NoError(t, err)
		require.Equal(t, "alice", sub)
	})

	t.Run("refresh token round trip", func(t *testing.T) {
		token, err := s.IssueRefresh("alice")
		require.NoError(t, err)
		sub, err := s.Parse(token, KindRefresh)
		require.NoError(t, err)
		require.Equal(t, "alice", sub)
	})

	t.Run("refresh token never validates as access", func(t *testing.T) {
		token, err := s.IssueRefresh("alice")
		require.NoError(t, err)
		_, err = s.Parse(token, KindAccess)
		require.ErrorIs(t, err, ErrWrongType)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("access token never validates as refresh", func(t *testing.T) {
		token, err := s.IssueAccess("alice")
		require.NoError(t, err)
		_, err = s.Parse(token, KindRefresh)
		require.ErrorIs(t, err, ErrWrongType)
	})

	t.Run("expired token fails with ErrExpired", func(t *testing.T) {
		token, err := s.issue("alice", KindAccess, -time.Second)
		require.NoError(t, err)
		_, err = s.Parse(token, KindAccess)
		require.ErrorIs(t, err, ErrExpired)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token without expiry is rejected", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(s.method, Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"},
			TokenType:        KindAccess,
		}).SignedString(s.secret)
		require.NoError(t, err)
		_, err = s.Parse(raw, KindAccess)
		require.ErrorIs(t, err, ErrMalformed)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("foreign secret fails with ErrSignature", func(t *testing.T) {
		other, err := NewSigner("other-secret", "HS256", time.Minute, time.Hour)
		require.NoError(t, err)
		token, err := other.IssueAccess("alice")
		require.NoError(t, err)
		_, err = s.Parse(token, KindAccess)
		require.ErrorIs(t, err, ErrSignature)
	})

	t.Run("garbage fails with ErrMalformed", func(t *testing.T) {
		for _, raw := range []string{"", "garbage", "a.b", "a.b.c"} {
			_, err := s.Parse(raw, KindAccess)
			require.ErrorIs(t, err, ErrInvalidToken, raw)
		}
	})

	t.Run("missing subject is rejected", func(t *testing.T) {
		token, err := s.issue("", KindAccess, time.Minute)
		require.NoError(t, err)
		_, err = s.Parse(token, KindAccess)
		require.ErrorIs(t, err, ErrNoSubject)
	})
}

// The claim names are a wire contract shared with clients; changing them
// breaks every already-issued token.
func TestClaimWireFormat(t *testing.T) {
	t.Parallel()
	s := newTestSigner(t)

	token, err := s.IssueRefresh("bob")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var claims map[string]any
	require.NoError(t, json.Unmarshal(payload, &claims))
	require.Equal(t, "bob", claims["sub"])
	require.Equal(t, "refresh", claims["type"])
	require.Contains(t, claims, "exp")
}
