package domain

import "time"

// ChallengeResult is the ephemeral outcome of preparing (or re-preparing) a
// login challenge. It is returned to the HTTP layer and never persisted.
type ChallengeResult struct {
	// Token is the correlation value the client must present on verify and
	// resend calls.
	Token string

	// Destination is the address the code email was (or would be) sent to.
	Destination string

	// CodeExpiresAt is when the currently valid code stops being accepted.
	// Nil when no code has been issued yet on this record.
	CodeExpiresAt *time.Time

	// Cooldown is how long the caller must wait before another email will be
	// sent. Zero when an email was just dispatched.
	Cooldown time.Duration

	// EmailSent reports whether this call actually dispatched a code email.
	// False means the previously sent code is still the valid one.
	EmailSent bool
}

// Session is an issued bearer credential for an authenticated user.
type Session struct {
	AccessToken string
	TokenType   string
	ExpiresIn   time.Duration
}
