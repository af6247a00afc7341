package domain

// LoginResult is the outcome of a successful credential check. Exactly one
// of Token or MFAToken is set: accounts with MFA enabled get a short-lived
// challenge token instead of a session.
type LoginResult struct {
	MFARequired bool
	MFAToken    string // challenge token, 5 minute validity
	Token       string // full session token, 1 hour validity
	User        UserSummary
}
