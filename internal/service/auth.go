package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openshelf/openshelf/internal/domain"
	"github.com/openshelf/openshelf/internal/store"
	"github.com/openshelf/openshelf/pkg/cryptox"
	"github.com/openshelf/openshelf/pkg/idx"
)

var (
	// ErrMissingCredentials means email or password was absent from the request.
	ErrMissingCredentials = errors.New("email and password are required")

	// ErrEmailTaken means the normalized email is already registered.
	ErrEmailTaken = errors.New("email already in use")

	// ErrInvalidRole means the requested role is outside the known enum.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	// Deliberately indistinguishable to resist account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthService implements registration and the password leg of login.
type AuthService struct {
	Store  store.Store
	Tokens *TokenService
}

// NormalizeEmail lowercases and trims an email so uniqueness and lookups
// can't be bypassed by case or whitespace.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account. New accounts always start with MFA off.
func (s *AuthService) Register(ctx context.Context, email, password, name, role string) (domain.UserSummary, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return domain.UserSummary{}, ErrMissingCredentials
	}

	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return domain.UserSummary{}, ErrInvalidRole
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.UserSummary{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        NormalizeEmail(email),
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		MFAEnabled:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Exists-check and insert share one transaction; the unique index on
	// email backstops any race between the two.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().GetUserByEmail(ctx, user.Email)
		if err == nil {
			return ErrEmailTaken
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return tx.Users().CreateUser(ctx, user)
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		err = ErrEmailTaken
	}
	if err != nil {
		return domain.UserSummary{}, err
	}

	return user.Summary(), nil
}

// Login verifies credentials. When the account has MFA enabled it returns a
// challenge token instead of a session; the caller must come back through
// the verify-code flow to finish.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return domain.LoginResult{}, ErrMissingCredentials
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.LoginResult{}, ErrInvalidCredentials
		}
		return domain.LoginResult{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return domain.LoginResult{}, ErrInvalidCredentials
	}

	if user.MFAEnabled {
		mfaToken, err := s.Tokens.IssueChallenge(user.ID)
		if err != nil {
			return domain.LoginResult{}, fmt.Errorf("failed to issue challenge token: %w", err)
		}
		return domain.LoginResult{
			MFARequired: true,
			MFAToken:    mfaToken,
			User:        user.Summary(),
		}, nil
	}

	token, err := s.Tokens.IssueSession(user)
	if err != nil {
		return domain.LoginResult{}, fmt.Errorf("failed to issue session token: %w", err)
	}
	return domain.LoginResult{Token: token, User: user.Summary()}, nil
}
