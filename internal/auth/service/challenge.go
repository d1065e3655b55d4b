package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/quickmarket/storeauth/internal/auth/domain"
	"github.com/quickmarket/storeauth/internal/auth/mail"
	"github.com/quickmarket/storeauth/internal/auth/store"
	"github.com/quickmarket/storeauth/pkg/cryptox"
	"github.com/quickmarket/storeauth/pkg/slogx"
)

var (
	ErrSessionExpired      = errors.New("session_expired")
	ErrInvalidSession      = errors.New("invalid_session")
	ErrCodeExpired         = errors.New("code_expired")
	ErrInvalidCode         = errors.New("invalid_code")
	ErrTooManyAttempts     = errors.New("too_many_attempts")
	ErrEmailDeliveryFailed = errors.New("email_delivery_failed")
)

// InvalidCodeError reports a wrong code while attempts remain. It matches
// ErrInvalidCode under errors.Is.
type InvalidCodeError struct {
	AttemptsRemaining int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid_code: %d attempts remaining", e.AttemptsRemaining)
}

func (e *InvalidCodeError) Is(target error) bool { return target == ErrInvalidCode }

// ChallengeOptions tunes the login challenge lifecycle. Zero values fall back
// to the defaults below.
type ChallengeOptions struct {
	CodeLength      int           // digits in the emailed code (default 6)
	CodeLifetime    time.Duration // how long a code stays valid (default 10m)
	ResendCooldown  time.Duration // minimum gap between code emails (default 60s)
	MaxAttempts     int           // wrong codes tolerated before the challenge dies (default 5)
	SessionLifetime time.Duration // how long the correlation token stays valid (default 10m)

	// DestinationOverride redirects all code emails to one address. For
	// staging environments; leave empty in production.
	DestinationOverride string
}

func (o ChallengeOptions) withDefaults() ChallengeOptions {
	if o.CodeLength <= 0 {
		o.CodeLength = 6
	}
	if o.CodeLifetime <= 0 {
		o.CodeLifetime = 10 * time.Minute
	}
	if o.ResendCooldown <= 0 {
		o.ResendCooldown = 60 * time.Second
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 5
	}
	if o.SessionLifetime <= 0 {
		o.SessionLifetime = 10 * time.Minute
	}
	return o
}

// ChallengeService is the login challenge state machine. All state lives on
// the user record; each operation re-reads the record under a per-user lock,
// decides, and persists the outcome as its last step.
type ChallengeService struct {
	Store   store.Store
	Mailer  mail.Mailer
	Options ChallengeOptions

	// Now is the clock. Tests swap it for a fixed one.
	Now func() time.Time

	locks *userLock
}

func NewChallengeService(st store.Store, mailer mail.Mailer, opts ChallengeOptions) *ChallengeService {
	return &ChallengeService{
		Store:   st,
		Mailer:  mailer,
		Options: opts.withDefaults(),
		Now:     time.Now,
		locks:   newUserLock(),
	}
}

// Prepare starts or refreshes a login challenge for the user. Called on the
// initial login path (ignoreCooldown=true) and via Resend (false).
func (s *ChallengeService) Prepare(ctx context.Context, userID string, ignoreCooldown bool) (domain.ChallengeResult, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.ChallengeResult{}, err
	}

	return s.prepareLocked(ctx, user, ignoreCooldown)
}

// prepareLocked runs the challenge decision table. Caller holds the user lock.
func (s *ChallengeService) prepareLocked(ctx context.Context, user domain.User, ignoreCooldown bool) (domain.ChallengeResult, error) {
	now := s.Now().UTC()
	log := slogx.FromContext(ctx)

	// Reuse an unexpired correlation token: rotating it on every resend
	// would orphan the client session that is waiting on it.
	token := ""
	tokenExpiry := now.Add(s.Options.SessionLifetime)
	if user.LoginToken != nil && user.LoginTokenExpiry != nil && user.LoginTokenExpiry.After(now) {
		token = *user.LoginToken
		tokenExpiry = *user.LoginTokenExpiry
	} else {
		minted, err := cryptox.GenerateToken(cryptox.TokenSize128)
		if err != nil {
			return domain.ChallengeResult{}, fmt.Errorf("mint login token: %w", err)
		}
		token = minted
	}

	var cooldown time.Duration
	if !ignoreCooldown && user.LastSentAt != nil {
		cooldown = max(0, user.LastSentAt.Add(s.Options.ResendCooldown).Sub(now))
	}
	shouldSend := ignoreCooldown || cooldown == 0

	destination := user.Email
	if s.Options.DestinationOverride != "" {
		destination = s.Options.DestinationOverride
	}

	if !shouldSend {
		// Inside the cooldown window: only the token/expiry may have
		// changed. Tell the caller to wait for the code already sent.
		err := s.Store.Users().UpdateChallengeState(ctx, user.ID, store.ChallengeState{
			LoginToken:       &token,
			LoginTokenExpiry: &tokenExpiry,
			CodeHash:         user.CodeHash,
			CodeExpiry:       user.CodeExpiry,
			CodeAttempts:     user.CodeAttempts,
			LastSentAt:       user.LastSentAt,
		})
		if err != nil {
			return domain.ChallengeResult{}, err
		}

		return domain.ChallengeResult{
			Token:         token,
			Destination:   destination,
			CodeExpiresAt: user.CodeExpiry,
			Cooldown:      cooldown,
			EmailSent:     false,
		}, nil
	}

	code, err := cryptox.GenerateNumericCode(s.Options.CodeLength)
	if err != nil {
		return domain.ChallengeResult{}, fmt.Errorf("generate login code: %w", err)
	}
	codeHash, err := cryptox.HashSecret(code)
	if err != nil {
		return domain.ChallengeResult{}, fmt.Errorf("hash login code: %w", err)
	}

	codeExpiry := now.Add(s.Options.CodeLifetime)
	err = s.Store.Users().UpdateChallengeState(ctx, user.ID, store.ChallengeState{
		LoginToken:       &token,
		LoginTokenExpiry: &tokenExpiry,
		CodeHash:         &codeHash,
		CodeExpiry:       &codeExpiry,
		CodeAttempts:     0,
		LastSentAt:       &now,
	})
	if err != nil {
		return domain.ChallengeResult{}, err
	}

	if err := s.Mailer.Send(ctx, destination, "Your login code", s.codeEmailBody(code)); err != nil {
		// A code the user can never receive must not stay verifiable.
		// Roll the whole challenge back before surfacing the failure.
		if clearErr := s.Store.Users().ClearChallengeState(ctx, user.ID); clearErr != nil {
			log.Error("challenge rollback failed after mail error",
				"user_id", user.ID, "err", clearErr)
		}
		log.Warn("login code dispatch failed", "user_id", user.ID, "err", err)
		return domain.ChallengeResult{}, fmt.Errorf("%w: %w", ErrEmailDeliveryFailed, err)
	}

	return domain.ChallengeResult{
		Token:         token,
		Destination:   destination,
		CodeExpiresAt: &codeExpiry,
		Cooldown:      0,
		EmailSent:     true,
	}, nil
}

// Verify checks a submitted token+code pair and, on success, clears the
// challenge so the caller can issue a session. Failure semantics follow the
// ordering: session expiry, token mismatch, code expiry, code mismatch.
func (s *ChallengeService) Verify(ctx context.Context, userID, submittedToken, submittedCode string) error {
	unlock := s.locks.Lock(userID)
	defer unlock()

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	// A non-2FA user cannot be mid-challenge.
	if !user.RequiresChallenge() {
		return ErrInvalidSession
	}

	now := s.Now().UTC()

	if user.LoginToken == nil || user.LoginTokenExpiry == nil || !user.LoginTokenExpiry.After(now) {
		// Expired sessions leave no residue. Cleanup, not punishment.
		if err := s.Store.Users().ClearChallengeState(ctx, userID); err != nil {
			return err
		}
		return ErrSessionExpired
	}

	if subtle.ConstantTimeCompare([]byte(submittedToken), []byte(*user.LoginToken)) != 1 {
		return ErrInvalidSession
	}

	if user.CodeHash == nil || user.CodeExpiry == nil || !user.CodeExpiry.After(now) {
		if err := s.Store.Users().ClearChallengeState(ctx, userID); err != nil {
			return err
		}
		return ErrCodeExpired
	}

	if err := cryptox.VerifySecret(submittedCode, *user.CodeHash); err != nil {
		if !errors.Is(err, cryptox.ErrMismatch) {
			return err
		}

		attempts, err := s.Store.Users().IncrementCodeAttempts(ctx, userID)
		if err != nil {
			return err
		}
		if attempts >= s.Options.MaxAttempts {
			if err := s.Store.Users().ClearChallengeState(ctx, userID); err != nil {
				return err
			}
			return ErrTooManyAttempts
		}
		return &InvalidCodeError{AttemptsRemaining: s.Options.MaxAttempts - attempts}
	}

	return s.Store.Users().ClearChallengeState(ctx, userID)
}

// Resend validates the session like Verify steps 1-3, then re-runs Prepare
// with the cooldown honored.
func (s *ChallengeService) Resend(ctx context.Context, userID, submittedToken string) (domain.ChallengeResult, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.ChallengeResult{}, err
	}

	if !user.RequiresChallenge() {
		return domain.ChallengeResult{}, ErrInvalidSession
	}

	now := s.Now().UTC()

	if user.LoginToken == nil || user.LoginTokenExpiry == nil || !user.LoginTokenExpiry.After(now) {
		if err := s.Store.Users().ClearChallengeState(ctx, userID); err != nil {
			return domain.ChallengeResult{}, err
		}
		return domain.ChallengeResult{}, ErrSessionExpired
	}

	if subtle.ConstantTimeCompare([]byte(submittedToken), []byte(*user.LoginToken)) != 1 {
		return domain.ChallengeResult{}, ErrInvalidSession
	}

	return s.prepareLocked(ctx, user, false)
}

// ClearResidue drops any leftover challenge fields. Called before issuing a
// session to a user whose login did not require a challenge.
func (s *ChallengeService) ClearResidue(ctx context.Context, userID string) error {
	unlock := s.locks.Lock(userID)
	defer unlock()

	return s.Store.Users().ClearChallengeState(ctx, userID)
}

func (s *ChallengeService) codeEmailBody(code string) string {
	minutes := int(s.Options.CodeLifetime.Minutes())
	return fmt.Sprintf(
		"Your login code is %s\n\nIt expires in %d minutes. If you did not try to log in, you can ignore this email.\n",
		code, minutes,
	)
}
