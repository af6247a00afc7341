package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/internal/domain"
	"github.com/openshelf/openshelf/pkg/jwtx"
)

func TestIdentify(t *testing.T) {
	svc := newTestTokens(t)

	user := domain.User{
		ID:    "user-1",
		Email: "ivan@example.com",
		Role:  domain.RoleUser,
	}

	t.Run("accepts a live session token", func(t *testing.T) {
		token, err := svc.IssueSession(user)
		require.NoError(t, err)

		claims, ok := svc.Identify(token)
		require.True(t, ok)
		require.Equal(t, "user-1", claims.Subject)
		require.Equal(t, "ivan@example.com", claims.Email)
		require.False(t, claims.IsChallenge())
	})

	t.Run("accepts a live challenge token", func(t *testing.T) {
		token, err := svc.IssueChallenge("user-1")
		require.NoError(t, err)

		claims, ok := svc.Identify(token)
		require.True(t, ok)
		require.True(t, claims.IsChallenge())
	})

	t.Run("collapses all failures to no identity", func(t *testing.T) {
		other, err := jwtx.NewHS256([]byte("other-secret"), "openshelf-test")
		require.NoError(t, err)
		foreign, err := other.Sign(jwtx.NewSessionClaims("user-1", "ivan@example.com", domain.RoleUser, "openshelf-test", time.Hour, time.Now()))
		require.NoError(t, err)

		for _, raw := range []string{"", "garbage", "a.b.c", foreign} {
			_, ok := svc.Identify(raw)
			require.False(t, ok, "token %q should not identify", raw)
		}
	})
}
