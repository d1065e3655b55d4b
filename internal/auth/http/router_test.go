package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	apihttp "github.com/quickmarket/storeauth/internal/auth/http"
	"github.com/quickmarket/storeauth/internal/auth/service"
	"github.com/quickmarket/storeauth/internal/auth/store/drivers/sqlite"
	"github.com/quickmarket/storeauth/pkg/cryptox"
	"github.com/quickmarket/storeauth/pkg/jwtx"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "storeauth-http-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type captureMailer struct {
	mu   sync.Mutex
	sent []string // bodies
	fail error
}

func (m *captureMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, body)
	return nil
}

func (m *captureMailer) setFail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

var codeRe = regexp.MustCompile(`login code is (\d+)`)

func (m *captureMailer) lastCode(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	match := codeRe.FindStringSubmatch(m.sent[len(m.sent)-1])
	require.Len(t, match, 2)
	return match[1]
}

type testEnv struct {
	router   *apihttp.Router
	store    *sqlite.Store
	mailer   *captureMailer
	verifier jwtx.Verifier

	ip string
}

type envOptions struct {
	challenge      service.ChallengeOptions
	bootstrapToken string
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	mailer := &captureMailer{}
	challenges := service.NewChallengeService(st, mailer, opts.challenge)

	pemKey, err := jwtx.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test", pemKey)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)
	verifier := jwtx.NewVerifierEdDSA(keys, "https://auth.test", nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := apihttp.NewRouter(keys, verifier, "https://auth.test", "test", st, logger)
	router.AuthService = &service.AuthService{
		Store:      st,
		Challenges: challenges,
		Signer:     signer,
		Issuer:     "https://auth.test",
	}
	router.BootstrapService = &service.BootstrapService{
		Store: st,
		Token: opts.bootstrapToken,
	}
	router.ApplyRoutes()

	return &testEnv{
		router:   router,
		store:    st,
		mailer:   mailer,
		verifier: verifier,
		ip:       "203.0.113.7",
	}
}

// do issues a request against the router. Each request carries a forwarded
// client IP so the per-IP limiters see a realistic key.
func (e *testEnv) do(t *testing.T, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-Forwarded-For", e.ip)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v))
	return v
}

type errorBody struct {
	Code              string `json:"error"`
	Description       string `json:"error_description"`
	AttemptsRemaining *int   `json:"attempts_remaining"`
}

func requireErrorCode(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) errorBody {
	t.Helper()
	require.Equal(t, status, rr.Code, rr.Body.String())
	body := decodeBody[errorBody](t, rr)
	require.Equal(t, code, body.Code)
	return body
}

const (
	testEmail    = "shopper@example.com"
	testPassword = "correct horse battery staple"
)

func (e *testEnv) register(t *testing.T) {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/v1/register", map[string]string{
		"email":    testEmail,
		"password": testPassword,
		"name":     "Test Shopper",
	}, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

type challengeBody struct {
	RequiresChallenge bool   `json:"requires_challenge"`
	LoginToken        string `json:"login_token"`
	Destination       string `json:"destination"`
	CodeExpiresAt     string `json:"code_expires_at"`
	CooldownSeconds   int    `json:"cooldown_seconds"`
	EmailSent         bool   `json:"email_sent"`
}

type tokenBody struct {
	RequiresChallenge bool   `json:"requires_challenge"`
	AccessToken       string `json:"access_token"`
	TokenType         string `json:"token_type"`
	ExpiresIn         int    `json:"expires_in"`
}

// login starts a challenge for the registered test user and returns the
// challenge payload.
func (e *testEnv) login(t *testing.T) challengeBody {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/v1/login", map[string]string{
		"email":    testEmail,
		"password": testPassword,
	}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body := decodeBody[challengeBody](t, rr)
	require.True(t, body.RequiresChallenge)
	return body
}

func TestLoginChallengeFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, envOptions{})
	env.register(t)

	ch := env.login(t)
	require.NotEmpty(t, ch.LoginToken)
	require.Equal(t, testEmail, ch.Destination)
	require.True(t, ch.EmailSent)
	require.NotEmpty(t, ch.CodeExpiresAt)

	rr := env.do(t, http.MethodPost, "/v1/login/verify", map[string]string{
		"email":       testEmail,
		"login_token": ch.LoginToken,
		"code":        env.mailer.lastCode(t),
	}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Equal(t, "no-store", rr.Header().Get("Cache-Control"))

	tok := decodeBody[tokenBody](t, rr)
	require.False(t, tok.RequiresChallenge)
	require.Equal(t, "Bearer", tok.TokenType)
	require.Positive(t, tok.ExpiresIn)

	claims, err := env.verifier.Verify(tok.AccessToken)
	require.NoError(t, err)
	require.Equal(t, testEmail, claims.Email)
	require.Equal(t, []string{"pwd", "otp"}, claims.AMR)

	// The issued token works against the authenticated whoami endpoint.
	rr = env.do(t, http.MethodGet, "/v1/session", nil, http.Header{
		"Authorization": {"Bearer " + tok.AccessToken},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	session := decodeBody[map[string]any](t, rr)
	require.Equal(t, testEmail, session["email"])
	require.Equal(t, "customer", session["role"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, envOptions{})
	env.register(t)

	rr := env.do(t, http.MethodPost, "/v1/login", map[string]string{
		"email":    testEmail,
		"password": "wrong password",
	}, nil)
	requireErrorCode(t, rr, http.StatusUnauthorized, "invalid_credentials")

	// Unknown accounts look exactly the same.
	rr = env.do(t, http.MethodPost, "/v1/login", map[string]string{
		"email":    "nobody@example.com",
		"password": testPassword,
	}, nil)
	requireErrorCode(t, rr, http.StatusUnauthorized, "invalid_credentials")
}

func TestLoginRejectsMalformedRequests(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, envOptions{})

	rr := env.do(t, http.MethodPost, "/v1/login", map[string]string{"email": testEmail}, nil)
	requireErrorCode(t, rr, http.StatusBadRequest, "invalid_request")

	req := httptest.NewRequest(http.MethodPost, "/v1/login", bytes.NewBufferString("{not json"))
	req.Header.Set("X-Forwarded-For", env.ip)
	raw := httptest.NewRecorder()
	env.router.ServeHTTP(raw, req)
	requireErrorCode(t, raw, http.StatusBadRequest, "invalid_request")

	rr = env.do(t, http.MethodPost, "/v1/login", map[string]string{
		"email":    testEmail,
		"password": testPassword,
		"extra":    "field",
	}, nil)
	requireErrorCode(t, rr, http.StatusBadRequest, "invalid_request")
}

func TestVerifyWrongCodeCountsAttempts(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, envOptions{
		challenge: service.ChallengeOptions{MaxAttempts: 2},
	})
	env.register(t)
	ch := env.login(t)

	rr := env.do(t, http.MethodPost, "/v1/login/verify", map[string]string{
		"email":       testEmail,
		"login_token": ch.LoginToken,
		"code":        "000000",
	}, nil)
	body := requireErrorCode(t, rr, http.StatusUnauthorized, "invalid_code")
	require.NotNil(t, body.AttemptsRemaining)
	require.Equal(t, 1, *body.AttemptsRemaining)

	rr = env.do(t, http.MethodPost, "/v1/login/verify", map[string]string{
		"email":       testEmail,
		"login_token": ch.LoginToken,
		"code":        "000000",
	}, nil)
	requireErrorCode(t, rr, http.StatusUnauthorized, "too_many_attempts")

	// The challenge is dead; even the right code is now a stale session.
	rr = env.do(t, http.MethodPost, "/v1/login/verify", map[string]string{
		"email":       testEmail,
		"login_token": ch.LoginToken,
		"code":        env.mailer.lastCode(t),
	}, nil)
	requireErrorCode(t, rr, http.StatusUnauthorized, "session_expired")
}

func TestVerifyRejectsUnknownSession(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, envOptions{})
	env.register(t)
	env.login(t)

	rr := env.do(t, http.MethodPost, "/v1/login/verify", map[string]string{
		"email":       testEmail,
		"login_token": "bogus-token",
		"code":        "123456",
	}, nil)
	requireErrorCode(t, rr, http.StatusUnauthorized, "invalid_session")
}

func TestResendInsideCooldown(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, envOptions{})
	env.register(t)
	ch := env.login(t)

	rr := env.do(t, http.MethodPost, "/v1/login/resend", map[string]string{
		"email":       testEmail,
		"login_token": ch.LoginToken,
	}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	body := decodeBody[challengeBody](t, rr)
	require.False(t, body.EmailSent)
	require.Equal(t, ch.LoginToken, body.LoginToken)
	require.Positive(t, body.CooldownSeconds)
	require.LessOrEqual(t, body.CooldownSeconds, 60)
}

func TestLoginMailFailureReturnsBadGateway(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, envOptions{})
	env.register(t)
	env.mailer.setFail(errors.New("smtp: connection refused"))

	rr := env.do(t, http.MethodPost, "/v1/login", map[string]string{
		"email":    testEmail,
		"password": testPassword,
	}, nil)
	requireErrorCode(t, rr, http.StatusBadGateway, "email_delivery_failed")
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, envOptions{})
	env.register(t)

	rr := env.do(t, http.MethodPost, "/v1/register", map[string]string{
		"email":    testEmail,
		"password": testPassword,
		"name":     "Duplicate",
	}, nil)
	requireErrorCode(t, rr, http.StatusConflict, "email_taken")

	rr = env.do(t, http.MethodPost, "/v1/register", map[string]string{
		"email":    "short@example.com",
		"password": "short",
		"name":     "Short",
	}, nil)
	requireErrorCode(t, rr, http.StatusBadRequest, "invalid_request")

	rr = env.do(t, http.MethodPost, "/v1/register", map[string]string{
		"email":    "not-an-email",
		"password": testPassword,
		"name":     "Bad Email",
	}, nil)
	requireErrorCode(t, rr, http.StatusBadRequest, "invalid_request")
}

func TestBootstrapFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, envOptions{bootstrapToken: "setup-secret"})

	rr := env.do(t, http.MethodPost, "/v1/bootstrap", map[string]string{
		"token":    "wrong",
		"email":    "admin@example.com",
		"password": testPassword,
		"name":     "Admin",
	}, nil)
	require.Equal(t, http.StatusForbidden, rr.Code, rr.Body.String())

	rr = env.do(t, http.MethodPost, "/v1/bootstrap", map[string]string{
		"token":    "setup-secret",
		"email":    "admin@example.com",
		"password": testPassword,
		"name":     "Admin",
	}, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decodeBody[map[string]string](t, rr)
	require.NotEmpty(t, created["admin_id"])

	// Admins log straight in, no challenge.
	rr = env.do(t, http.MethodPost, "/v1/login", map[string]string{
		"email":    "admin@example.com",
		"password": testPassword,
	}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	tok := decodeBody[tokenBody](t, rr)
	require.False(t, tok.RequiresChallenge)
	require.NotEmpty(t, tok.AccessToken)

	// A second bootstrap is rejected once any account exists.
	rr = env.do(t, http.MethodPost, "/v1/bootstrap", map[string]string{
		"token":    "setup-secret",
		"email":    "admin2@example.com",
		"password": testPassword,
		"name":     "Admin Two",
	}, nil)
	require.Equal(t, http.StatusConflict, rr.Code, rr.Body.String())
}

func TestSessionRequiresBearerToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, envOptions{})

	rr := env.do(t, http.MethodGet, "/v1/session", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Contains(t, rr.Header().Get("WWW-Authenticate"), "Bearer")

	rr = env.do(t, http.MethodGet, "/v1/session", nil, http.Header{
		"Authorization": {"Bearer not-a-jwt"},
	})
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestJWKSEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, envOptions{})

	rr := env.do(t, http.MethodGet, "/.well-known/jwks.json", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var doc jwtx.JWKS
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&doc))
	require.Len(t, doc.Keys, 1)
	require.Equal(t, "OKP", doc.Keys[0].Kty)
	require.Equal(t, "Ed25519", doc.Keys[0].Crv)
	require.Equal(t, "test", doc.Keys[0].KID)
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, envOptions{})

	rr := env.do(t, http.MethodGet, "/livez", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, http.MethodGet, "/readyz", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	health := decodeBody[map[string]any](t, rr)
	require.Equal(t, "ok", health["status"])
}

func TestLoginRateLimited(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, envOptions{})

	// Drain the strict per-IP budget with bad logins from one address.
	var last *httptest.ResponseRecorder
	for i := 0; i < 6; i++ {
		last = env.do(t, http.MethodPost, "/v1/login", map[string]string{
			"email":    fmt.Sprintf("rl-%d@example.com", i),
			"password": "wrong",
		}, nil)
	}
	require.Equal(t, http.StatusTooManyRequests, last.Code)
	require.NotEmpty(t, last.Header().Get("Retry-After"))
}
