package http

import (
	"net/http"

	"github.com/quickmarket/storeauth/internal/auth/service"
	"github.com/quickmarket/storeauth/pkg/httpx"
)

// RegisterHandler serves POST /v1/register.
type RegisterHandler struct {
	AuthService *service.AuthService
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type registerResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

const minPasswordLength = 8

// ServeHTTP godoc
//
//	@Summary		Register Customer Account
//	@Description	Creates a customer account. New accounts have the email second factor enabled.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		registerRequest		true	"Email, password and display name"
//	@Success		201		{object}	registerResponse	"id, email, name"
//	@Failure		400		{object}	apiError			"error, error_description"
//	@Failure		409		{object}	apiError			"error, error_description"
//	@Router			/v1/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}
	if req.Email == "" || len(req.Password) < minPasswordLength {
		errInvalidRequest.WriteError(w)
		return
	}

	user, err := h.AuthService.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, registerResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	})
}
