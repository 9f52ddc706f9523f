package identity

import (
	"errors"
	"net/http"

	"github.com/relojeriasur/storefront/internal/backend"
)

// LoginFailureCode classifies login failures so the UI can render
// field-specific messages instead of one generic error.
type LoginFailureCode string

const (
	CodeInvalidCredentials LoginFailureCode = "invalid_credentials"
	CodeUserNotFound       LoginFailureCode = "user_not_found"
	CodeWrongPassword      LoginFailureCode = "wrong_password"
	CodeServerError        LoginFailureCode = "server_error"
)

// LoginError is a classified login failure
type LoginError struct {
	Code    LoginFailureCode
	Message string
}

func (e *LoginError) Error() string {
	if e.Message != "" {
		return string(e.Code) + ": " + e.Message
	}
	return string(e.Code)
}

// classifyLoginError maps a backend failure to a LoginError. The backend's
// error code wins when present; otherwise the HTTP status decides.
func classifyLoginError(err error) *LoginError {
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) {
		return &LoginError{Code: CodeServerError, Message: err.Error()}
	}

	switch apiErr.Code {
	case "user_not_found":
		return &LoginError{Code: CodeUserNotFound, Message: apiErr.Message}
	case "wrong_password":
		return &LoginError{Code: CodeWrongPassword, Message: apiErr.Message}
	case "invalid_credentials", "invalid_email":
		return &LoginError{Code: CodeInvalidCredentials, Message: apiErr.Message}
	}

	switch apiErr.Status {
	case http.StatusNotFound:
		return &LoginError{Code: CodeUserNotFound, Message: apiErr.Message}
	case http.StatusUnauthorized:
		return &LoginError{Code: CodeWrongPassword, Message: apiErr.Message}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &LoginError{Code: CodeInvalidCredentials, Message: apiErr.Message}
	default:
		return &LoginError{Code: CodeServerError, Message: apiErr.Message}
	}
}
