package service

import (
	"context"
	"fmt"

	"github.com/openshelf/openshelf/internal/domain"
	"github.com/openshelf/openshelf/internal/store"
)

// AdminService backs the admin dashboard.
type AdminService struct {
	Store store.Store
}

// Stats returns row counts for the dashboard tiles.
func (s *AdminService) Stats(ctx context.Context) (domain.AdminStats, error) {
	var stats domain.AdminStats

	counts := []struct {
		name string
		fn   func(context.Context) (int64, error)
		dst  *int64
	}{
		{"users", s.Store.Users().CountUsers, &stats.Users},
		{"books", s.Store.Books().CountBooks, &stats.Books},
		{"resources", s.Store.Resources().CountResources, &stats.Resources},
		{"notifications", s.Store.Notifications().CountNotifications, &stats.Notifications},
	}
	for _, c := range counts {
		n, err := c.fn(ctx)
		if err != nil {
			return domain.AdminStats{}, fmt.Errorf("failed to count %s: %w", c.name, err)
		}
		*c.dst = n
	}
	return stats, nil
}
