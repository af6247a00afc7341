// Package jwtx issues and verifies the signed bearer tokens used for
// sessions and MFA challenges. Tokens are stateless: validity is purely a
// matter of signature and expiry.
package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PurposeMFA tags a short-lived challenge token issued after password
// verification when a second factor is still outstanding. A token without a
// purpose is a full session token.
const PurposeMFA = "mfa"

// Claims are the token claims used across the service. Session tokens carry
// email and role; challenge tokens carry only the subject and the purpose tag.
type Claims struct {
	jwt.RegisteredClaims

	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose,omitempty"`
}

// NewSessionClaims builds the claims for a fully authenticated session.
func NewSessionClaims(subject, email, role, issuer string, ttl time.Duration, now time.Time) Claims {
	c := newBaseClaims(subject, issuer, ttl, now)
	c.Email = email
	c.Role = role
	return c
}

// NewChallengeClaims builds the claims for an MFA challenge token. It is
// scoped to completing the second factor and nothing else.
func NewChallengeClaims(subject, issuer string, ttl time.Duration, now time.Time) Claims {
	c := newBaseClaims(subject, issuer, ttl, now)
	c.Purpose = PurposeMFA
	return c
}

func newBaseClaims(subject, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// IsChallenge reports whether the token is an MFA challenge rather than a
// full session.
func (c *Claims) IsChallenge() bool { return c.Purpose == PurposeMFA }

// ValidateIssuer checks the issuer when an expected value is configured.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it becomes valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
