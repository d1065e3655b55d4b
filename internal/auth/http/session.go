package http

import (
	"net/http"

	"github.com/quickmarket/storeauth/pkg/httpx"
)

type sessionResponse struct {
	UserID    string   `json:"user_id"`
	Email     string   `json:"email"`
	Role      string   `json:"role"`
	AMR       []string `json:"amr"`
	ExpiresAt int64    `json:"expires_at"`
}

// SessionHandler godoc
//
//	@Summary		Current Session
//	@Description	Returns the identity carried by the presented access token. Lets storefront front ends confirm who is logged in.
//	@Tags			Accounts
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	sessionResponse	"user_id, email, role, amr, expires_at"
//	@Failure		401	"missing or invalid bearer token"
//	@Router			/v1/session [get].
func SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := httpx.ClaimsFromCtx(r.Context())
		if !ok {
			errInvalidSession.WriteError(w)
			return
		}

		var expiresAt int64
		if claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Unix()
		}

		httpx.WriteJSON(w, http.StatusOK, sessionResponse{
			UserID:    claims.Subject,
			Email:     claims.Email,
			Role:      claims.Role,
			AMR:       claims.AMR,
			ExpiresAt: expiresAt,
		})
	}
}
