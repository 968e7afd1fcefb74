package errs

import (
	"errors"
	"net/http"
)

var Unauthorized = &ApiErr{StatusCode: http.StatusUnauthorized, err: ErrUnauthorized}

// Authentication & Authorization Errors
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid remember token")
	ErrNotProjectManager  = errors.New("not a manager of this project")
	ErrAdminRequired      = errors.New("admin role required")
)

func NewInvalidTokenError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInvalidToken,
		Cause:      cause,
		Field:      "remember_token",
	}
}

func NewNotProjectManagerError(slug string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrNotProjectManager,
		Details:    "project " + slug,
	}
}

func NewAdminRequiredError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrAdminRequired,
	}
}

func IsInvalidTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

func IsNotProjectManagerError(err error) bool {
	return errors.Is(err, ErrNotProjectManager)
}
