package service

import (
	"time"

	"github.com/openshelf/openshelf/internal/domain"
	"github.com/openshelf/openshelf/pkg/jwtx"
)

const (
	// DefaultSessionTTL is how long a full session token stays valid.
	DefaultSessionTTL = time.Hour

	// DefaultChallengeTTL bounds the window between password verification
	// and second-factor submission.
	DefaultChallengeTTL = 5 * time.Minute
)

// TokenService mints and resolves the stateless bearer tokens. There is no
// persisted token store: validity is signature plus expiry, nothing else.
type TokenService struct {
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Issuer   string

	SessionTTL   time.Duration
	ChallengeTTL time.Duration
}

// IssueSession mints a full session token for an authenticated user.
func (s *TokenService) IssueSession(u domain.User) (string, error) {
	claims := jwtx.NewSessionClaims(u.ID, u.Email, u.Role, s.Issuer, s.sessionTTL(), time.Now().UTC())
	return s.Signer.Sign(claims)
}

// IssueChallenge mints the short-lived purpose-tagged token handed back when
// login still needs a second factor.
func (s *TokenService) IssueChallenge(userID string) (string, error) {
	claims := jwtx.NewChallengeClaims(userID, s.Issuer, s.challengeTTL(), time.Now().UTC())
	return s.Signer.Sign(claims)
}

// Identify resolves a raw bearer token to claims. Any failure — malformed,
// bad signature, expired — collapses to "no identity"; callers never learn
// which, they just handle the missing-identity case.
func (s *TokenService) Identify(raw string) (jwtx.Claims, bool) {
	if raw == "" {
		return jwtx.Claims{}, false
	}
	claims, err := s.Verifier.Verify(raw)
	if err != nil {
		return jwtx.Claims{}, false
	}
	if err := claims.ValidateExpiry(); err != nil {
		return jwtx.Claims{}, false
	}
	return claims, true
}

func (s *TokenService) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return DefaultSessionTTL
}

func (s *TokenService) challengeTTL() time.Duration {
	if s.ChallengeTTL > 0 {
		return s.ChallengeTTL
	}
	return DefaultChallengeTTL
}
