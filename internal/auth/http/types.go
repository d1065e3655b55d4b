package http

import (
	"time"

	"github.com/quickmarket/storeauth/internal/auth/domain"
)

// TokenResponse is returned whenever a login completes and a session is
// issued.
type TokenResponse struct {
	RequiresChallenge bool   `json:"requires_challenge"`
	AccessToken       string `json:"access_token"`
	TokenType         string `json:"token_type"`
	ExpiresIn         int    `json:"expires_in"`
}

// ChallengeResponse is returned when the login needs an emailed code first.
type ChallengeResponse struct {
	RequiresChallenge bool       `json:"requires_challenge"`
	LoginToken        string     `json:"login_token"`
	Destination       string     `json:"destination"`
	CodeExpiresAt     *time.Time `json:"code_expires_at,omitempty"`
	CooldownSeconds   int        `json:"cooldown_seconds"`
	EmailSent         bool       `json:"email_sent"`
}

func newTokenResponse(s domain.Session) TokenResponse {
	return TokenResponse{
		RequiresChallenge: false,
		AccessToken:       s.AccessToken,
		TokenType:         s.TokenType,
		ExpiresIn:         int(s.ExpiresIn.Seconds()),
	}
}

// cooldownSeconds rounds up so a caller never retries before the window
// actually closes.
func cooldownSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

func newChallengeResponse(c domain.ChallengeResult) ChallengeResponse {
	return ChallengeResponse{
		RequiresChallenge: true,
		LoginToken:        c.Token,
		Destination:       c.Destination,
		CodeExpiresAt:     c.CodeExpiresAt,
		CooldownSeconds:   cooldownSeconds(c.Cooldown),
		EmailSent:         c.EmailSent,
	}
}
