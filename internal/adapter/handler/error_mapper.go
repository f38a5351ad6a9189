package handler

import (
	"errors"
	"net/http"

	"ops-hub/internal/domain"

	"github.com/labstack/echo/v4"
)

// mapDomainError converts a domain error into an appropriate echo.HTTPError.
func mapDomainError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnknownAccount),
		errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrAuthFailed):
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")

	case errors.Is(err, domain.ErrRateLimited):
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")

	case errors.Is(err, domain.ErrBackendUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, "identity provider unavailable")

	case errors.Is(err, domain.ErrProfileWrite):
		return echo.NewHTTPError(http.StatusInternalServerError, "profile write error")

	case errors.Is(err, domain.ErrCollectionFetch):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "collection unavailable")

	case errors.Is(err, domain.ErrTokenGeneration),
		errors.Is(err, domain.ErrCSRFSecretMissing):
		return echo.NewHTTPError(http.StatusInternalServerError, "token generation error")

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
