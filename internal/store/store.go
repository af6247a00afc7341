// Package store defines the data access interfaces the services depend on.
// Concrete drivers (sqlite today) live under drivers/.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/openshelf/openshelf/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Sub-repositories keep concerns
// tidy and let transaction-scoped stores reuse the same repo code.
type Store interface {
	Users() Users
	Books() Books
	Resources() Resources
	Notifications() Notifications

	ApplyMigrations() error

	// WithTx executes fn within a transaction: rolled back when fn errors,
	// committed otherwise. Use it for multi-step operations that must be
	// atomic (e.g., the exists-check-then-create on registration).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Tx starts a transaction and returns a Tx-scoped Store. The caller
	// MUST Commit or Rollback. Prefer WithTx.
	Tx(ctx context.Context) (Tx, error)

	Close() error

	// Ping verifies the database connection is alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id, ErrNotFound when absent.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up by normalized email (the login key).
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateMFASecret stores a (possibly fresh) enrollment secret without
	// touching the enabled flag. Overwrites any prior unconfirmed secret.
	UpdateMFASecret(ctx context.Context, userID, secret string) error

	// EnableMFA flips mfa_enabled on. The secret must already be present.
	EnableMFA(ctx context.Context, userID string) error

	// DisableMFA clears mfa_enabled and mfa_secret in a single write so no
	// reader ever observes one without the other.
	DisableMFA(ctx context.Context, userID string) error

	// CountUsers backs the admin dashboard and health checks.
	CountUsers(ctx context.Context) (int64, error)
}

type Books interface {
	ListBooks(ctx context.Context) ([]domain.Book, error)
	GetBookByID(ctx context.Context, id string) (domain.Book, error)
	CreateBook(ctx context.Context, b domain.Book) error
	UpdateBook(ctx context.Context, b domain.Book) error
	DeleteBook(ctx context.Context, id string) error
	CountBooks(ctx context.Context) (int64, error)
}

type Resources interface {
	ListResources(ctx context.Context) ([]domain.Resource, error)
	GetResourceByID(ctx context.Context, id string) (domain.Resource, error)
	CreateResource(ctx context.Context, res domain.Resource) error
	UpdateResource(ctx context.Context, res domain.Resource) error
	DeleteResource(ctx context.Context, id string) error
	CountResources(ctx context.Context) (int64, error)
}

type Notifications interface {
	CreateNotification(ctx context.Context, n domain.Notification) error

	// ListUserNotifications returns a user's notifications newest-first.
	ListUserNotifications(ctx context.Context, userID string) ([]domain.Notification, error)

	// MarkNotificationRead flips the read flag; ErrNotFound when the
	// notification doesn't exist or belongs to another user.
	MarkNotificationRead(ctx context.Context, id, userID string) error

	CountNotifications(ctx context.Context) (int64, error)

	// DeleteReadBefore removes read notifications sent before cutoff.
	// Housekeeping; returns the number of rows removed.
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
