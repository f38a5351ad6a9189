package handler

import (
	"log/slog"
	"net/http"
	"time"

	"ops-hub/internal/domain"
	"ops-hub/internal/usecase"
	"ops-hub/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// SessionCookieName carries the signed session token issued on login.
const SessionCookieName = "ops_hub_session"

// CSRFHeaderName carries the CSRF token on state-changing requests.
const CSRFHeaderName = "X-CSRF-Token"

// LoginHandler handles /login, signing the operator in against the
// identity backend and issuing the session cookie.
type LoginHandler struct {
	session   *usecase.Session
	tokens    domain.TokenIssuer
	csrf      domain.CSRFGenerator
	cookieTTL time.Duration
	validate  *validator.Validate
}

// NewLoginHandler creates a new login handler.
func NewLoginHandler(session *usecase.Session, tokens domain.TokenIssuer, csrf domain.CSRFGenerator, cookieTTL time.Duration) *LoginHandler {
	return &LoginHandler{
		session:   session,
		tokens:    tokens,
		csrf:      csrf,
		cookieTTL: cookieTTL,
		validate:  validator.New(),
	}
}

// loginRequest represents the login request body.
type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// loginResponse represents the login response body.
type loginResponse struct {
	OK        bool         `json:"ok"`
	User      identityBody `json:"user"`
	CSRFToken string       `json:"csrfToken"`
}

// identityBody is the JSON shape of a signed-in identity.
type identityBody struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	DisplayName string    `json:"displayName"`
	CompanyID   *string   `json:"companyId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toIdentityBody(identity *domain.Identity) identityBody {
	return identityBody{
		ID:          identity.ID,
		Email:       identity.Email,
		Role:        string(identity.Role),
		DisplayName: identity.DisplayName,
		CompanyID:   identity.CompanyID,
		CreatedAt:   identity.CreatedAt,
	}
}

// Handle processes the /login endpoint.
func (h *LoginHandler) Handle(c echo.Context) error {
	ctx := c.Request().Context()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	identity, err := h.session.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		metrics.RecordSignIn("failure")
		slog.WarnContext(ctx, "sign-in rejected", "email", req.Email, "error", err)
		return mapDomainError(err)
	}
	metrics.RecordSignIn("success")

	sessionToken, err := h.tokens.IssueSessionToken(identity)
	if err != nil {
		return mapDomainError(err)
	}
	csrfToken, err := h.csrf.Generate(identity.ID)
	if err != nil {
		return mapDomainError(err)
	}

	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionToken,
		Path:     "/",
		MaxAge:   int(h.cookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	slog.InfoContext(ctx, "signed in", "identity_id", identity.ID, "role", identity.Role)

	return c.JSON(http.StatusOK, loginResponse{
		OK:        true,
		User:      toIdentityBody(identity),
		CSRFToken: csrfToken,
	})
}
