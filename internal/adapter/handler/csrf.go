package handler

import (
	"log/slog"
	"net/http"

	"ops-hub/internal/domain"
	"ops-hub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// CSRFHandler handles /csrf, reissuing a CSRF token for the signed-in
// identity. Frontends that lost the login response call this before a
// state-changing request.
type CSRFHandler struct {
	session *usecase.Session
	csrf    domain.CSRFGenerator
}

// NewCSRFHandler creates a new CSRF handler.
func NewCSRFHandler(session *usecase.Session, csrf domain.CSRFGenerator) *CSRFHandler {
	return &CSRFHandler{session: session, csrf: csrf}
}

// csrfResponse represents the CSRF token response.
type csrfResponse struct {
	Data struct {
		CSRFToken string `json:"csrf_token"`
	} `json:"data"`
}

// Handle processes CSRF token requests.
func (h *CSRFHandler) Handle(c echo.Context) error {
	ctx := c.Request().Context()

	current := h.session.Current()
	if current == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	token, err := h.csrf.Generate(current.ID)
	if err != nil {
		return mapDomainError(err)
	}

	slog.InfoContext(ctx, "csrf token generated", "identity_id", current.ID)

	resp := csrfResponse{}
	resp.Data.CSRFToken = token
	return c.JSON(http.StatusOK, resp)
}
