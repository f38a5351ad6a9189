package handler

import (
	"log/slog"
	"net/http"

	"ops-hub/internal/domain"
	"ops-hub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// LogoutHandler handles /logout, ending the backend session and
// clearing the session cookie.
type LogoutHandler struct {
	session *usecase.Session
	csrf    domain.CSRFGenerator
}

// NewLogoutHandler creates a new logout handler.
func NewLogoutHandler(session *usecase.Session, csrf domain.CSRFGenerator) *LogoutHandler {
	return &LogoutHandler{session: session, csrf: csrf}
}

// Handle processes the /logout endpoint. Signing out while already
// signed out is a no-op and still succeeds.
func (h *LogoutHandler) Handle(c echo.Context) error {
	ctx := c.Request().Context()

	if current := h.session.Current(); current != nil {
		presented := c.Request().Header.Get(CSRFHeaderName)
		if !h.csrf.Verify(current.ID, presented) {
			slog.WarnContext(ctx, "logout with bad csrf token", "identity_id", current.ID)
			return echo.NewHTTPError(http.StatusForbidden, "invalid csrf token")
		}
	}

	if err := h.session.SignOut(ctx); err != nil {
		return mapDomainError(err)
	}

	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	return c.NoContent(http.StatusNoContent)
}
