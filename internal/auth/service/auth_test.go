package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quickmarket/storeauth/internal/auth/domain"
	"github.com/quickmarket/storeauth/internal/auth/service"
	"github.com/quickmarket/storeauth/pkg/jwtx"
)

func TestLoginInvalidCredentials(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, service.ChallengeOptions{})
	ctx := context.Background()
	u := env.createUser(t, domain.RoleCustomer, true)

	_, err := env.auth.Login(ctx, u.Email, "wrong password")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, "missing@example.com", testPassword)
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLoginRequiresChallengeForCustomers(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, service.ChallengeOptions{})
	ctx := context.Background()
	u := env.createUser(t, domain.RoleCustomer, true)

	res, err := env.auth.Login(ctx, u.Email, testPassword)
	require.NoError(t, err)
	require.True(t, res.RequiresChallenge)
	require.Nil(t, res.Session)
	require.NotNil(t, res.Challenge)
	require.True(t, res.Challenge.EmailSent)
}

func TestLoginSkipsChallengeByRoleOrFlag(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, service.ChallengeOptions{})
	ctx := context.Background()

	cases := []struct {
		name      string
		role      string
		twoFactor bool
	}{
		{"admin", domain.RoleAdmin, true},
		{"staff", domain.RoleStaff, true},
		{"2fa disabled", domain.RoleCustomer, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := env.createUser(t, tc.role, tc.twoFactor)

			res, err := env.auth.Login(ctx, u.Email, testPassword)
			require.NoError(t, err)
			require.False(t, res.RequiresChallenge)
			require.NotNil(t, res.Session)
			require.NotEmpty(t, res.Session.AccessToken)
			require.Zero(t, env.mailer.count())
		})
	}
}

func TestLoginClearsStaleChallengeForNon2FAUser(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, service.ChallengeOptions{})
	ctx := context.Background()
	u := env.createUser(t, domain.RoleCustomer, true)

	// The user starts a challenge, then gets promoted to staff mid-flight.
	_, err := env.auth.Login(ctx, u.Email, testPassword)
	require.NoError(t, err)
	require.True(t, env.getUser(t, u.ID).HasChallengeState())

	require.NoError(t, env.store.Users().SetTwoFactorEnabled(ctx, u.ID, false))

	res, err := env.auth.Login(ctx, u.Email, testPassword)
	require.NoError(t, err)
	require.False(t, res.RequiresChallenge)
	require.NotNil(t, res.Session)
	require.False(t, env.getUser(t, u.ID).HasChallengeState())
}

func TestVerifyLoginIssuesSessionWithOTPAMR(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, service.ChallengeOptions{})
	ctx := context.Background()
	u := env.createUser(t, domain.RoleCustomer, true)

	res, err := env.auth.Login(ctx, u.Email, testPassword)
	require.NoError(t, err)

	session, err := env.auth.VerifyLogin(ctx, u.Email, res.Challenge.Token, env.mailer.lastCode(t))
	require.NoError(t, err)
	require.NotEmpty(t, session.AccessToken)
	require.Equal(t, "Bearer", session.TokenType)
	require.Equal(t, jwtx.DefaultAccessTokenTTL, session.ExpiresIn)

	keys := jwtx.NewKeySet()
	keys.AddSigner(env.auth.Signer)
	verifier := jwtx.NewVerifierEdDSA(keys, "https://auth.test", nil)

	claims, err := verifier.Verify(session.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.Subject)
	require.Equal(t, u.Email, claims.Email)
	require.Equal(t, []string{service.AMRPassword, service.AMROTP}, claims.AMR)
}

func TestVerifyLoginUnknownEmail(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, service.ChallengeOptions{})

	_, err := env.auth.VerifyLogin(context.Background(), "missing@example.com", "tok", "123456")
	require.ErrorIs(t, err, service.ErrInvalidSession)
}

func TestResendLoginFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, service.ChallengeOptions{})
	ctx := context.Background()
	u := env.createUser(t, domain.RoleCustomer, true)

	res, err := env.auth.Login(ctx, u.Email, testPassword)
	require.NoError(t, err)

	env.clock.Advance(61 * time.Second)

	resend, err := env.auth.ResendLogin(ctx, u.Email, res.Challenge.Token)
	require.NoError(t, err)
	require.True(t, resend.EmailSent)
	require.Equal(t, res.Challenge.Token, resend.Token)
	require.Equal(t, 2, env.mailer.count())
}

func TestRegister(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, service.ChallengeOptions{})
	ctx := context.Background()

	u, err := env.auth.Register(ctx, "New.Customer@Example.com", "a strong password", "New Customer")
	require.NoError(t, err)
	require.Equal(t, "new.customer@example.com", u.Email)
	require.Equal(t, domain.RoleCustomer, u.Role)
	require.True(t, u.TwoFactorEnabled)

	_, err = env.auth.Register(ctx, "new.customer@example.com", "another password", "Dup")
	require.ErrorIs(t, err, service.ErrEmailTaken)

	_, err = env.auth.Register(ctx, "not-an-email", "pw", "Bad")
	require.Error(t, err)
}

func TestBootstrap(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, service.ChallengeOptions{})
	ctx := context.Background()

	svc := &service.BootstrapService{Store: env.store, Token: "setup-secret"}

	_, err := svc.Bootstrap(ctx, "wrong", "admin@example.com", "admin password", "Admin")
	require.ErrorIs(t, err, service.ErrBootstrapUnauthorized)

	adminID, err := svc.Bootstrap(ctx, "setup-secret", "admin@example.com", "admin password", "Admin")
	require.NoError(t, err)
	require.NotEmpty(t, adminID)

	admin := env.getUser(t, adminID)
	require.Equal(t, domain.RoleAdmin, admin.Role)
	require.False(t, admin.TwoFactorEnabled)
	require.False(t, admin.RequiresChallenge())

	_, err = svc.Bootstrap(ctx, "setup-secret", "admin2@example.com", "pw", "Admin2")
	require.ErrorIs(t, err, service.ErrBootstrapAlready)
}
