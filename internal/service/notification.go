package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openshelf/openshelf/internal/domain"
	"github.com/openshelf/openshelf/internal/store"
	"github.com/openshelf/openshelf/pkg/idx"
)

// ErrMissingMessage means a notification was submitted without a message.
var ErrMissingMessage = errors.New("message is required")

// NotificationService delivers per-user messages (due dates, holds, admin
// broadcasts) and tracks their read state.
type NotificationService struct {
	Store store.Store
}

// Notify records a message for a user. The target must exist.
func (s *NotificationService) Notify(ctx context.Context, userID, message string) (domain.Notification, error) {
	if strings.TrimSpace(message) == "" {
		return domain.Notification{}, ErrMissingMessage
	}

	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		return domain.Notification{}, err
	}

	n := domain.Notification{
		ID:      idx.New().String(),
		UserID:  userID,
		Message: message,
		Read:    false,
		SentAt:  time.Now().UTC(),
	}
	if err := s.Store.Notifications().CreateNotification(ctx, n); err != nil {
		return domain.Notification{}, err
	}
	return n, nil
}

// ListForUser returns the user's notifications newest-first.
func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.Store.Notifications().ListUserNotifications(ctx, userID)
}

// MarkRead flips the read flag on one of the user's own notifications.
// store.ErrNotFound covers both a missing id and someone else's
// notification, so callers can't probe other users' ids.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	return s.Store.Notifications().MarkNotificationRead(ctx, id, userID)
}
