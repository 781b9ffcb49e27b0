package errors

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Domain errors surfaced at the service boundary. Handlers branch on
// these with errors.Is; everything else is treated as an internal fault.
var (
	// ErrUserNotFound means the viewer (or a referenced user) does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrPremiumRequired means a gated filter dimension was requested
	// without a sufficient entitlement. Surfaced distinctly so clients
	// can show an upsell instead of a generic failure.
	ErrPremiumRequired = errors.New("premium required")

	// ErrInvalidFilterRange means a malformed age range was supplied.
	ErrInvalidFilterRange = errors.New("invalid filter range")

	// ErrLocationRequired means a radius-bounded search was requested by
	// a viewer with no stored location.
	ErrLocationRequired = errors.New("location required")

	// ErrUnavailable wraps infrastructure failures that the caller may
	// retry. Never returned for an empty candidate pool: an empty result
	// is a successful response.
	ErrUnavailable = errors.New("service unavailable")
)

// HTTPStatus converts domain and infra errors into an HTTP status code.
// Keeps handlers clean by centralizing the mapping.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, ErrUserNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound

	case errors.Is(err, ErrPremiumRequired):
		return http.StatusPaymentRequired

	case errors.Is(err, ErrInvalidFilterRange), errors.Is(err, ErrLocationRequired):
		return http.StatusBadRequest

	case errors.Is(err, ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable

	case errors.Is(err, context.Canceled):
		// client went away; chi will not deliver the body anyway
		return 499

	default:
		return http.StatusInternalServerError
	}
}
