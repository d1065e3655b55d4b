package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quickmarket/storeauth/internal/auth/domain"
	"github.com/quickmarket/storeauth/internal/auth/store"
	"github.com/quickmarket/storeauth/pkg/cryptox"
	"github.com/quickmarket/storeauth/pkg/idx"
	"github.com/quickmarket/storeauth/pkg/jwtx"
	"github.com/quickmarket/storeauth/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrEmailTaken         = errors.New("email_taken")
	ErrInvalidEmail       = errors.New("invalid_email")
)

// AMR values carried on issued sessions.
const (
	AMRPassword = "pwd"
	AMROTP      = "otp"
)

// LoginResult is the outcome of a password login: either a session, or a
// pending challenge the client must complete.
type LoginResult struct {
	RequiresChallenge bool
	Session           *domain.Session
	Challenge         *domain.ChallengeResult
}

// AuthService is the produced surface of the login flow. It verifies
// credentials, consults the challenge engine, and mints sessions.
type AuthService struct {
	Store      store.Store
	Challenges *ChallengeService
	Signer     jwtx.Signer
	Issuer     string
	AccessTTL  time.Duration
}

// Login verifies email+password. Users that require the email second factor
// get a challenge back instead of a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	log := slogx.FromContext(ctx)
	email = normalizeEmail(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a hash verification anyway so a missing account is not
			// distinguishable by response time.
			_ = cryptox.VerifySecret(password, cryptox.DummyHash)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if err := cryptox.VerifySecret(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			log.Info("password verification failed", "user_id", user.ID)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if user.RequiresChallenge() {
		challenge, err := s.Challenges.Prepare(ctx, user.ID, true)
		if err != nil {
			return LoginResult{}, err
		}
		return LoginResult{RequiresChallenge: true, Challenge: &challenge}, nil
	}

	// Stale challenge fields can survive a role promotion or a crash
	// mid-challenge. Clear them before handing out a session.
	if user.HasChallengeState() {
		if err := s.Challenges.ClearResidue(ctx, user.ID); err != nil {
			return LoginResult{}, err
		}
	}

	session, err := s.issueSession(user, []string{AMRPassword})
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Session: &session}, nil
}

// VerifyLogin completes a pending challenge and mints a session.
func (s *AuthService) VerifyLogin(ctx context.Context, email, token, code string) (domain.Session, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, ErrInvalidSession
		}
		return domain.Session{}, err
	}

	if err := s.Challenges.Verify(ctx, user.ID, token, code); err != nil {
		return domain.Session{}, err
	}

	return s.issueSession(user, []string{AMRPassword, AMROTP})
}

// ResendLogin asks the challenge engine for another code email, honoring the
// cooldown.
func (s *AuthService) ResendLogin(ctx context.Context, email, token string) (domain.ChallengeResult, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ChallengeResult{}, ErrInvalidSession
		}
		return domain.ChallengeResult{}, err
	}

	return s.Challenges.Resend(ctx, user.ID, token)
}

// Register creates a customer account.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, ErrInvalidEmail
	}

	hash, err := cryptox.HashSecret(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:               idx.New().String(),
		Email:            email,
		Name:             name,
		PasswordHash:     hash,
		Role:             domain.RoleCustomer,
		TwoFactorEnabled: true,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	return user, nil
}

func (s *AuthService) issueSession(user domain.User, amr []string) (domain.Session, error) {
	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	claims := jwtx.NewAccessClaims(user.ID, user.Email, user.Role, amr, ttl, s.Issuer, time.Now().UTC())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.Session{}, fmt.Errorf("sign access token: %w", err)
	}

	return domain.Session{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   ttl,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
