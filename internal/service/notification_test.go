package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/internal/domain"
	"github.com/openshelf/openshelf/internal/store"
)

func TestNotifications(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &NotificationService{Store: st}

	userID := registerTestUser(t, st, "judy@example.com")
	otherID := registerTestUser(t, st, "karl@example.com")

	t.Run("rejects empty message", func(t *testing.T) {
		_, err := svc.Notify(ctx, userID, "   ")
		require.ErrorIs(t, err, ErrMissingMessage)
	})

	t.Run("rejects unknown user", func(t *testing.T) {
		_, err := svc.Notify(ctx, "missing", "hello")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	first, err := svc.Notify(ctx, userID, "Your hold on 'Dune' is ready")
	require.NoError(t, err)
	second, err := svc.Notify(ctx, userID, "'Dune' is due in 3 days")
	require.NoError(t, err)

	t.Run("lists newest first", func(t *testing.T) {
		list, err := svc.ListForUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, second.ID, list[0].ID)
		require.Equal(t, first.ID, list[1].ID)
		require.False(t, list[0].Read)
	})

	t.Run("mark read is scoped to the owner", func(t *testing.T) {
		require.ErrorIs(t, svc.MarkRead(ctx, first.ID, otherID), store.ErrNotFound)

		require.NoError(t, svc.MarkRead(ctx, first.ID, userID))
		list, err := svc.ListForUser(ctx, userID)
		require.NoError(t, err)
		require.True(t, list[1].Read)
		require.False(t, list[0].Read)
	})
}

func TestHousekeepingDeletesStaleReadNotifications(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	userID := registerTestUser(t, st, "lena@example.com")

	old := domain.Notification{
		ID:      "old-read",
		UserID:  userID,
		Message: "returned 'Snow Crash'",
		Read:    true,
		SentAt:  time.Now().UTC().Add(-60 * 24 * time.Hour),
	}
	oldUnread := domain.Notification{
		ID:      "old-unread",
		UserID:  userID,
		Message: "overdue notice",
		SentAt:  time.Now().UTC().Add(-60 * 24 * time.Hour),
	}
	fresh := domain.Notification{
		ID:      "fresh-read",
		UserID:  userID,
		Message: "hold ready",
		Read:    true,
		SentAt:  time.Now().UTC(),
	}
	for _, n := range []domain.Notification{old, oldUnread, fresh} {
		require.NoError(t, st.Notifications().CreateNotification(ctx, n))
	}

	hk := NewHousekeepingService(st, slog.New(slog.DiscardHandler), time.Hour, 30*24*time.Hour)
	hk.cleanup()

	list, err := st.Notifications().ListUserNotifications(ctx, userID)
	require.NoError(t, err)

	ids := make([]string, 0, len(list))
	for _, n := range list {
		ids = append(ids, n.ID)
	}
	require.ElementsMatch(t, []string{"old-unread", "fresh-read"}, ids)
}
