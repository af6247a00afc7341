package jwtx_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/openshelf/openshelf/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "openshelf-test"

func newTestHS256(t *testing.T) *jwtx.HS256 {
	t.Helper()
	h, err := jwtx.NewHS256([]byte("test_secret_123"), testIssuer)
	require.NoError(t, err)
	return h
}

func TestNewHS256RejectsEmptySecret(t *testing.T) {
	_, err := jwtx.NewHS256(nil, testIssuer)
	require.ErrorIs(t, err, jwtx.ErrNoSecret)
}

func TestSignAndVerifySession(t *testing.T) {
	h := newTestHS256(t)
	now := time.Now().UTC()

	claims := jwtx.NewSessionClaims("user-1", "alice@example.com", "admin", testIssuer, time.Hour, now)
	token, err := h.Sign(claims)
	require.NoError(t, err)

	got, err := h.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "alice@example.com", got.Email)
	require.Equal(t, "admin", got.Role)
	require.Empty(t, got.Purpose)
	require.False(t, got.IsChallenge())
	require.NoError(t, got.ValidateExpiry())
}

func TestChallengeClaimsArePurposeTagged(t *testing.T) {
	h := newTestHS256(t)

	token, err := h.Sign(jwtx.NewChallengeClaims("user-1", testIssuer, 5*time.Minute, time.Now().UTC()))
	require.NoError(t, err)

	got, err := h.Verify(token)
	require.NoError(t, err)
	require.True(t, got.IsChallenge())
	require.Equal(t, jwtx.PurposeMFA, got.Purpose)
	require.Empty(t, got.Email)
	require.Empty(t, got.Role)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	h := newTestHS256(t)

	token, err := h.Sign(jwtx.NewSessionClaims("user-1", "a@b.com", "user", testIssuer, time.Hour, time.Now().UTC()))
	require.NoError(t, err)

	_, err = h.Verify(token + "x")
	require.Error(t, err)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	h := newTestHS256(t)
	other, err := jwtx.NewHS256([]byte("a-different-secret"), testIssuer)
	require.NoError(t, err)

	token, err := other.Sign(jwtx.NewSessionClaims("user-1", "", "", testIssuer, time.Hour, time.Now().UTC()))
	require.NoError(t, err)

	_, err = h.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestVerifyRejectsMalformed(t *testing.T) {
	h := newTestHS256(t)

	_, err := h.Verify("definitely.not.a.jwt")
	require.ErrorIs(t, err, jwtx.ErrMalformed)
}

func TestVerifyRejectsIssuerMismatch(t *testing.T) {
	h := newTestHS256(t)
	other, err := jwtx.NewHS256([]byte("test_secret_123"), "someone-else")
	require.NoError(t, err)

	token, err := other.Sign(jwtx.NewSessionClaims("user-1", "", "", "someone-else", time.Hour, time.Now().UTC()))
	require.NoError(t, err)

	_, err = h.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestValidateExpiry(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid token", func(t *testing.T) {
		c := jwtx.NewSessionClaims("u", "", "", testIssuer, time.Minute, now)
		require.NoError(t, c.ValidateExpiry())
	})

	t.Run("expired token", func(t *testing.T) {
		c := jwtx.NewSessionClaims("u", "", "", testIssuer, time.Minute, now.Add(-2*time.Minute))
		require.ErrorIs(t, c.ValidateExpiry(), jwtx.ErrExpired)
	})

	t.Run("not yet valid", func(t *testing.T) {
		c := jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				NotBefore: jwt.NewNumericDate(now.Add(time.Minute)),
				ExpiresAt: jwt.NewNumericDate(now.Add(2 * time.Minute)),
			},
		}
		require.ErrorIs(t, c.ValidateExpiry(), jwtx.ErrNotYetValid)
	})
}
