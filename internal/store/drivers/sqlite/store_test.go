package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/internal/domain"
	"github.com/openshelf/openshelf/internal/store"
	"github.com/openshelf/openshelf/pkg/idx"
)

func newStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func testUser(email string) domain.User {
	now := time.Now().UTC()
	return domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         "Test",
		PasswordHash: "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUsersUniqueEmail(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	u := testUser("dup@example.com")
	require.NoError(t, st.Users().CreateUser(ctx, u))

	again := testUser("dup@example.com")
	err := st.Users().CreateUser(ctx, again)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = st.Users().GetUserByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMFAStateTransitions(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	u := testUser("mfa@example.com")
	require.NoError(t, st.Users().CreateUser(ctx, u))

	require.NoError(t, st.Users().UpdateMFASecret(ctx, u.ID, "SECRET1"))
	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, got.MFAEnabled)
	require.NotNil(t, got.MFASecret)
	require.Equal(t, "SECRET1", *got.MFASecret)

	require.NoError(t, st.Users().EnableMFA(ctx, u.ID))
	got, err = st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.MFAEnabled)

	// Disable clears flag and secret together; never one without the other.
	require.NoError(t, st.Users().DisableMFA(ctx, u.ID))
	got, err = st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, got.MFAEnabled)
	require.Nil(t, got.MFASecret)

	// Updates on unknown ids report not found.
	require.ErrorIs(t, st.Users().EnableMFA(ctx, "nope"), store.ErrNotFound)
	require.ErrorIs(t, st.Users().UpdateMFASecret(ctx, "nope", "x"), store.ErrNotFound)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	boom := errors.New("boom")
	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, testUser("tx@example.com")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = st.Users().GetUserByEmail(ctx, "tx@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, st.WithTx(ctx, func(tx store.Tx) error {
		return tx.Users().CreateUser(ctx, testUser("tx@example.com"))
	}))
	_, err = st.Users().GetUserByEmail(ctx, "tx@example.com")
	require.NoError(t, err)
}

func TestNotificationsCascadeOnUserDelete(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	u := testUser("owner@example.com")
	require.NoError(t, st.Users().CreateUser(ctx, u))
	require.NoError(t, st.Notifications().CreateNotification(ctx, domain.Notification{
		ID:      idx.New().String(),
		UserID:  u.ID,
		Message: "hello",
		SentAt:  time.Now().UTC(),
	}))

	// FK enforcement: inserting for an unknown user fails.
	err := st.Notifications().CreateNotification(ctx, domain.Notification{
		ID:      idx.New().String(),
		UserID:  "ghost",
		Message: "hello",
		SentAt:  time.Now().UTC(),
	})
	require.Error(t, err)

	n, err := st.Notifications().CountNotifications(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}
