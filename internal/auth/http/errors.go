package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/quickmarket/storeauth/internal/auth/service"
	"github.com/quickmarket/storeauth/pkg/httpx"
	"github.com/quickmarket/storeauth/pkg/slogx"
)

// Machine-readable error codes of the login API.
const (
	ErrorCodeInvalidRequest      = "invalid_request"
	ErrorCodeInvalidCredentials  = "invalid_credentials"
	ErrorCodeSessionExpired      = "session_expired"
	ErrorCodeInvalidSession      = "invalid_session"
	ErrorCodeCodeExpired         = "code_expired"
	ErrorCodeInvalidCode         = "invalid_code"
	ErrorCodeTooManyAttempts     = "too_many_attempts"
	ErrorCodeEmailDeliveryFailed = "email_delivery_failed"
	ErrorCodeEmailTaken          = "email_taken"
	ErrorCodeServerError         = "server_error"
)

// apiError is the JSON error envelope every endpoint returns on failure.
type apiError struct {
	StatusCode int `json:"-"`

	Code        string `json:"error"`
	Description string `json:"error_description"`

	// AttemptsRemaining is set only on invalid_code responses.
	AttemptsRemaining *int `json:"attempts_remaining,omitempty"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes the error to an HTTP response writer.
func (e *apiError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

var (
	errInvalidRequest = &apiError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	errInvalidCredentials = &apiError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid email or password",
	}

	errSessionExpired = &apiError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeSessionExpired,
		Description: "the login session has expired, log in again",
	}

	errInvalidSession = &apiError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidSession,
		Description: "unknown or mismatched login session",
	}

	errCodeExpired = &apiError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeCodeExpired,
		Description: "the login code has expired, log in again",
	}

	errTooManyAttempts = &apiError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeTooManyAttempts,
		Description: "too many wrong codes, log in again",
	}

	errEmailDeliveryFailed = &apiError{
		StatusCode:  http.StatusBadGateway,
		Code:        ErrorCodeEmailDeliveryFailed,
		Description: "the login code email could not be delivered",
	}

	errEmailTaken = &apiError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeEmailTaken,
		Description: "an account with this email already exists",
	}

	errServerError = &apiError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

func invalidCodeError(attemptsRemaining int) *apiError {
	return &apiError{
		StatusCode:        http.StatusUnauthorized,
		Code:              ErrorCodeInvalidCode,
		Description:       "wrong login code",
		AttemptsRemaining: &attemptsRemaining,
	}
}

// writeServiceError maps service sentinels onto the wire taxonomy. Unknown
// errors are logged and surface as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var invalidCode *service.InvalidCodeError

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		errInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrSessionExpired):
		errSessionExpired.WriteError(w)
	case errors.Is(err, service.ErrInvalidSession):
		errInvalidSession.WriteError(w)
	case errors.Is(err, service.ErrCodeExpired):
		errCodeExpired.WriteError(w)
	case errors.As(err, &invalidCode):
		invalidCodeError(invalidCode.AttemptsRemaining).WriteError(w)
	case errors.Is(err, service.ErrTooManyAttempts):
		errTooManyAttempts.WriteError(w)
	case errors.Is(err, service.ErrEmailDeliveryFailed):
		errEmailDeliveryFailed.WriteError(w)
	case errors.Is(err, service.ErrEmailTaken):
		errEmailTaken.WriteError(w)
	case errors.Is(err, service.ErrInvalidEmail):
		errInvalidRequest.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		errServerError.WriteError(w)
	}
}
