package handler

import (
	"net/http"

	"ops-hub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// SessionHandler handles /session, reporting the current auth state for
// the frontend. The state is one of loading, signed in, or signed out.
type SessionHandler struct {
	session *usecase.Session
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(session *usecase.Session) *SessionHandler {
	return &SessionHandler{session: session}
}

// sessionResponse represents the JSON response structure.
type sessionResponse struct {
	OK      bool          `json:"ok"`
	Loading bool          `json:"loading"`
	User    *identityBody `json:"user,omitempty"`
}

// Handle processes the /session endpoint.
func (h *SessionHandler) Handle(c echo.Context) error {
	if h.session.Loading() {
		c.Response().Header().Set("Retry-After", "1")
		return c.JSON(http.StatusServiceUnavailable, sessionResponse{Loading: true})
	}

	current := h.session.Current()
	if current == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	body := toIdentityBody(current)
	return c.JSON(http.StatusOK, sessionResponse{OK: true, User: &body})
}
