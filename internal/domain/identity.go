package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Role represents the permission tier of an identity.
type Role string

const (
	RoleDriver  Role = "driver"
	RoleViewer  Role = "viewer"
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleIT      Role = "it"
)

// DefaultBootstrapRole is assigned by the bootstrap tool when no role
// argument is given.
const DefaultBootstrapRole = RoleIT

// ParseRole validates a role string against the enumerated set.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	switch role {
	case RoleDriver, RoleViewer, RoleAdmin, RoleManager, RoleIT:
		return role, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// Identity represents an authenticated user profile.
// CompanyID == nil means the identity is not scoped to a single company
// and sees data across all companies.
type Identity struct {
	ID          string
	Email       string
	Role        Role
	DisplayName string
	CompanyID   *string
	CreatedAt   time.Time
}

// HasRole reports whether the identity carries the given role.
// A nil identity never has a role.
func (i *Identity) HasRole(role Role) bool {
	if i == nil {
		return false
	}
	return i.Role == role
}

// Scoped reports whether the identity is restricted to one company.
func (i *Identity) Scoped() bool {
	return i != nil && i.CompanyID != nil
}

// Profile is the stored user-profile record, keyed by the identity id
// assigned by the identity provider.
type Profile struct {
	Email       string
	Role        Role
	DisplayName string
	CompanyID   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProfile builds a profile for a freshly provisioned account.
// DisplayName defaults to the local part of the email address.
func NewProfile(email string, role Role) (*Profile, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email format: %w", err)
	}

	displayName := email
	if at := strings.Index(email, "@"); at > 0 {
		displayName = email[:at]
	}

	now := time.Now().UTC()
	return &Profile{
		Email:       email,
		Role:        role,
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Identity materializes a profile into an Identity for the given id.
func (p *Profile) Identity(id string) *Identity {
	return &Identity{
		ID:          id,
		Email:       p.Email,
		Role:        p.Role,
		DisplayName: p.DisplayName,
		CompanyID:   p.CompanyID,
		CreatedAt:   p.CreatedAt,
	}
}
