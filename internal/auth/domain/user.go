package domain

import "time"

// Storefront roles. Staff and admin accounts authenticate through back-office
// tooling and skip the email second factor.
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string // argon2 encoded
	Role         string // customer, staff or admin

	TwoFactorEnabled bool

	// Challenge fields. All nil/zero when no login challenge is in flight.
	LoginToken       *string    // opaque correlation token handed to the client
	LoginTokenExpiry *time.Time // when LoginToken stops being accepted
	CodeHash         *string    // argon2 hash of the current emailed code
	CodeExpiry       *time.Time // when the emailed code stops being accepted
	CodeAttempts     int        // failed verifications against CodeHash
	LastSentAt       *time.Time // when the last code email was dispatched

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RequiresChallenge reports whether a password login for this user must be
// followed by an emailed code. Evaluated fresh on every login so role or flag
// changes take effect immediately.
func (u User) RequiresChallenge() bool {
	return u.TwoFactorEnabled && u.Role != RoleAdmin && u.Role != RoleStaff
}

// HasChallengeState reports whether any challenge field is set on the record.
// Used to detect residue that must be cleared before issuing a session.
func (u User) HasChallengeState() bool {
	return u.LoginToken != nil ||
		u.LoginTokenExpiry != nil ||
		u.CodeHash != nil ||
		u.CodeExpiry != nil ||
		u.CodeAttempts != 0 ||
		u.LastSentAt != nil
}
