package http

import (
	"net/http"

	"github.com/quickmarket/storeauth/internal/auth/service"
	"github.com/quickmarket/storeauth/pkg/httpx"
)

// LoginHandler serves POST /v1/login.
type LoginHandler struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ServeHTTP godoc
//
//	@Summary		Password Login
//	@Description	Verifies email and password. Accounts with the email second factor enabled receive a login challenge instead of a session; complete it via /v1/login/verify.
//	@Tags			Login
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest		true	"Credentials"
//	@Success		200		{object}	ChallengeResponse	"requires_challenge, login_token, destination, code_expires_at, cooldown_seconds, email_sent — or a TokenResponse when no challenge is required"
//	@Failure		400		{object}	apiError			"error, error_description"
//	@Failure		401		{object}	apiError			"error, error_description"
//	@Failure		502		{object}	apiError			"error, error_description"
//	@Router			/v1/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}
	if req.Email == "" || req.Password == "" {
		errInvalidRequest.WriteError(w)
		return
	}

	res, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	if res.RequiresChallenge {
		httpx.WriteJSON(w, http.StatusOK, newChallengeResponse(*res.Challenge))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newTokenResponse(*res.Session))
}
