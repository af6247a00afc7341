package domain

import "time"

// Account roles. Role is a closed enum; anything else is rejected at
// registration time.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// User is the persisted account entity. Email is stored normalized
// (lowercased, trimmed) and is unique. MFASecret non-nil is a precondition
// for MFAEnabled; disabling MFA clears both in the same write.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string  // bcrypt, never exposed
	Role         string  // "user" or "admin"
	MFAEnabled   bool    // requires a second factor at login when true
	MFASecret    *string // base32 TOTP secret, nil until enrollment starts
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSummary is the safe projection of an account returned by the API.
// It never carries the password hash or the MFA secret.
type UserSummary struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	MFAEnabled bool   `json:"mfaEnabled"`
}

// Summary builds the API projection of a user.
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		MFAEnabled: u.MFAEnabled,
	}
}
