package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/internal/domain"
)

func TestAdminStats(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &AdminService{Store: st}

	empty, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.AdminStats{}, empty)

	userID := registerTestUser(t, st, "mallory@example.com")
	registerTestUser(t, st, "nina@example.com")

	catalog := &CatalogService{Store: st}
	_, err = catalog.CreateBook(ctx, domain.Book{Title: "Neuromancer", Author: "Gibson"})
	require.NoError(t, err)

	notify := &NotificationService{Store: st}
	_, err = notify.Notify(ctx, userID, "welcome")
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.AdminStats{
		Users:         2,
		Books:         1,
		Resources:     0,
		Notifications: 1,
	}, stats)
}
