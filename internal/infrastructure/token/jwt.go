package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ops-hub/internal/domain"
)

// JWTConfig holds session token generation configuration.
type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// sessionClaims carries the identity fields the dashboard frontend needs.
type sessionClaims struct {
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	DisplayName string  `json:"name"`
	CompanyID   *string `json:"companyId,omitempty"`
	jwt.RegisteredClaims
}

// JWTIssuer generates and verifies signed session tokens.
// Implements domain.TokenIssuer.
type JWTIssuer struct {
	cfg JWTConfig
}

// NewJWTIssuer creates a new session token issuer.
func NewJWTIssuer(cfg JWTConfig) *JWTIssuer {
	return &JWTIssuer{cfg: cfg}
}

// IssueSessionToken generates a signed token for the given identity.
func (j *JWTIssuer) IssueSessionToken(identity *domain.Identity) (string, error) {
	if identity == nil {
		return "", fmt.Errorf("%w: no identity", domain.ErrTokenGeneration)
	}

	now := time.Now()
	claims := sessionClaims{
		Email:       identity.Email,
		Role:        string(identity.Role),
		DisplayName: identity.DisplayName,
		CompanyID:   identity.CompanyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.cfg.Issuer,
			Audience:  jwt.ClaimStrings{j.cfg.Audience},
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.cfg.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrTokenGeneration, err)
	}
	return signed, nil
}

// VerifySessionToken validates a token and reconstructs the identity.
func (j *JWTIssuer) VerifySessionToken(tokenStr string) (*domain.Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(j.cfg.Secret), nil
	}, jwt.WithIssuer(j.cfg.Issuer), jwt.WithAudience(j.cfg.Audience))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthFailed, err)
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return nil, domain.ErrAuthFailed
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthFailed, err)
	}

	return &domain.Identity{
		ID:          claims.Subject,
		Email:       claims.Email,
		Role:        role,
		DisplayName: claims.DisplayName,
		CompanyID:   claims.CompanyID,
	}, nil
}
