package http

import (
	"net/http"

	"github.com/quickmarket/storeauth/internal/auth/service"
	"github.com/quickmarket/storeauth/pkg/httpx"
)

// ResendHandler serves POST /v1/login/resend.
type ResendHandler struct {
	AuthService *service.AuthService
}

type resendRequest struct {
	Email      string `json:"email"`
	LoginToken string `json:"login_token"`
}

// ServeHTTP godoc
//
//	@Summary		Resend Login Code
//	@Description	Sends another code email for a pending login challenge. Inside the cooldown window no email is sent and cooldown_seconds reports the remaining wait.
//	@Tags			Login
//	@Accept			json
//	@Produce		json
//	@Param			request	body		resendRequest		true	"Email and login token"
//	@Success		200		{object}	ChallengeResponse	"login_token, destination, code_expires_at, cooldown_seconds, email_sent"
//	@Failure		400		{object}	apiError			"error, error_description"
//	@Failure		401		{object}	apiError			"error, error_description"
//	@Failure		502		{object}	apiError			"error, error_description"
//	@Router			/v1/login/resend [post].
func (h *ResendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req resendRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}
	if req.Email == "" || req.LoginToken == "" {
		errInvalidRequest.WriteError(w)
		return
	}

	challenge, err := h.AuthService.ResendLogin(r.Context(), req.Email, req.LoginToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, newChallengeResponse(challenge))
}
