package http

import (
	"errors"
	"net/http"

	"github.com/quickmarket/storeauth/internal/auth/service"
	"github.com/quickmarket/storeauth/pkg/httpx"
)

// BootstrapHandler serves POST /v1/bootstrap.
type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

type bootstrapRequest struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type bootstrapResponse struct {
	AdminID string `json:"admin_id"`
}

// ServeHTTP godoc
//
//	@Summary		Bootstrap Initial Admin
//	@Description	One-time setup: creates the first admin account on an empty store. Guarded by the configured bootstrap token.
//	@Tags			System
//	@Accept			json
//	@Produce		json
//	@Param			request	body		bootstrapRequest	true	"Bootstrap token and admin credentials"
//	@Success		201		{object}	bootstrapResponse	"admin_id"
//	@Failure		400		{object}	apiError			"error, error_description"
//	@Failure		403		{object}	apiError			"error, error_description"
//	@Failure		409		{object}	apiError			"error, error_description"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req bootstrapRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}
	if req.Email == "" || len(req.Password) < minPasswordLength {
		errInvalidRequest.WriteError(w)
		return
	}

	adminID, err := h.BootstrapService.Bootstrap(r.Context(), req.Token, req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapAlready):
			(&apiError{
				StatusCode:  http.StatusConflict,
				Code:        ErrorCodeInvalidRequest,
				Description: "system already bootstrapped",
			}).WriteError(w)
		case errors.Is(err, service.ErrBootstrapUnauthorized):
			(&apiError{
				StatusCode:  http.StatusForbidden,
				Code:        ErrorCodeInvalidRequest,
				Description: "bootstrap token mismatch",
			}).WriteError(w)
		default:
			writeServiceError(w, r, err)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, bootstrapResponse{AdminID: adminID})
}
