package http

import (
	"net/http"

	"github.com/quickmarket/storeauth/internal/auth/service"
	"github.com/quickmarket/storeauth/pkg/httpx"
)

// VerifyHandler serves POST /v1/login/verify.
type VerifyHandler struct {
	AuthService *service.AuthService
}

type verifyRequest struct {
	Email      string `json:"email"`
	LoginToken string `json:"login_token"`
	Code       string `json:"code"`
}

// ServeHTTP godoc
//
//	@Summary		Complete Login Challenge
//	@Description	Checks the emailed code against the pending login challenge and issues a session on success. Wrong codes cost an attempt; expiry or exhaustion invalidates the challenge.
//	@Tags			Login
//	@Accept			json
//	@Produce		json
//	@Param			request	body		verifyRequest	true	"Email, login token and emailed code"
//	@Success		200		{object}	TokenResponse	"access_token, token_type, expires_in"
//	@Failure		400		{object}	apiError		"error, error_description"
//	@Failure		401		{object}	apiError		"error, error_description, attempts_remaining (invalid_code only)"
//	@Router			/v1/login/verify [post].
func (h *VerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}
	if req.Email == "" || req.LoginToken == "" || req.Code == "" {
		errInvalidRequest.WriteError(w)
		return
	}

	session, err := h.AuthService.VerifyLogin(r.Context(), req.Email, req.LoginToken, req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, newTokenResponse(session))
}
