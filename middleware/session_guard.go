package middleware

import (
	"net/http"
	"strings"

	"ops-hub/internal/domain"
	"ops-hub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// SessionGuard protects routes behind the session context. Each request
// runs the screen guard state machine: while the initial auth state is
// still loading it answers 503 so clients retry instead of being bounced
// to login; once resolved, unauthenticated requests are turned away.
// Authenticated requests must also present the session cookie issued at
// login, and its token must verify against the current identity.
func SessionGuard(session *usecase.Session, tokens domain.TokenIssuer, cookieName, loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			guard := usecase.NewScreenGuard(session, nil)
			switch guard.Observe() {
			case usecase.ScreenLoading:
				c.Response().Header().Set("Retry-After", "1")
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session state loading")
			case usecase.ScreenUnauthorized:
				return rejectUnauthenticated(c, loginPath)
			}

			current := session.Current()
			if current == nil {
				return rejectUnauthenticated(c, loginPath)
			}

			cookie, err := c.Request().Cookie(cookieName)
			if err != nil {
				return rejectUnauthenticated(c, loginPath)
			}
			verified, err := tokens.VerifySessionToken(cookie.Value)
			if err != nil || verified.ID != current.ID {
				return rejectUnauthenticated(c, loginPath)
			}

			return next(c)
		}
	}
}

// rejectUnauthenticated redirects browser navigations to loginPath and
// answers 401 for API clients.
func rejectUnauthenticated(c echo.Context, loginPath string) error {
	if wantsHTML(c.Request()) {
		return c.Redirect(http.StatusSeeOther, loginPath)
	}
	return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
}

// wantsHTML reports whether the request came from a browser navigation
// rather than an API client.
func wantsHTML(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Accept"), "text/html")
}
