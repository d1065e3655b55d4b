package store

import (
	"context"
	"errors"
	"time"

	"github.com/quickmarket/storeauth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and to actively stop callers from accidentally nesting
// transactions.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction. If fn returns an
	// error, the transaction is rolled back; otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// ChallengeState carries the challenge fields written back to a user record
// in a single UPDATE. Nil pointers write NULL.
type ChallengeState struct {
	LoginToken       *string
	LoginTokenExpiry *time.Time
	CodeHash         *string
	CodeExpiry       *time.Time
	CodeAttempts     int
	LastSentAt       *time.Time
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during password login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// SetTwoFactorEnabled flips the policy flag and bumps updated_at.
	SetTwoFactorEnabled(ctx context.Context, userID string, enabled bool) error

	// UpdateChallengeState writes all six challenge fields in one UPDATE.
	// Persistence of engine decisions goes through this single call so a
	// cancelled request never leaves a half-updated record.
	UpdateChallengeState(ctx context.Context, userID string, cs ChallengeState) error

	// ClearChallengeState nulls every challenge field and zeroes the attempt
	// counter in one UPDATE.
	ClearChallengeState(ctx context.Context, userID string) error

	// IncrementCodeAttempts atomically bumps code_attempts and returns the
	// new value, avoiding a read-modify-write on the counter.
	IncrementCodeAttempts(ctx context.Context, userID string) (int, error)

	// ClearExpiredChallenges removes challenge residue on records whose
	// login token expired before the cutoff (housekeeping).
	ClearExpiredChallenges(ctx context.Context, cutoff time.Time) error

	// DeleteUser removes a user record.
	DeleteUser(ctx context.Context, userID string) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}
