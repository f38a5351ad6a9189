package gateway

import (
	"context"
	"sync"
	"time"

	"ops-hub/internal/domain"
)

// FixedIdentityProvider is the development-mode auth provider. It seeds a
// fixed identity with unrestricted company scope, accepts any credentials,
// and never leaves the session signed out. It must only be selected by an
// explicit configuration switch; see config.AuthModeFixed.
type FixedIdentityProvider struct {
	mu      sync.Mutex
	current domain.Identity
}

// NewFixedIdentityProvider creates the development provider.
func NewFixedIdentityProvider() *FixedIdentityProvider {
	return &FixedIdentityProvider{current: fixedIdentity()}
}

func fixedIdentity() domain.Identity {
	return domain.Identity{
		ID:          "dev-identity",
		Email:       "dev@ops.local",
		Role:        domain.RoleAdmin,
		DisplayName: "Dev User",
		CreatedAt:   time.Now().UTC(),
	}
}

// Start immediately delivers the fixed identity; the stream never reports
// a signed-out state.
func (p *FixedIdentityProvider) Start(_ context.Context, onChange func(*domain.Identity)) (func(), error) {
	onChange(p.snapshot())
	return func() {}, nil
}

// SignIn always succeeds; only the email field is overwritten.
func (p *FixedIdentityProvider) SignIn(_ context.Context, email, _ string) (*domain.Identity, error) {
	p.mu.Lock()
	p.current.Email = email
	identity := p.current
	p.mu.Unlock()
	return &identity, nil
}

// SignOut resets to the fixed identity instead of clearing it.
func (p *FixedIdentityProvider) SignOut(context.Context) (*domain.Identity, error) {
	p.mu.Lock()
	p.current = fixedIdentity()
	identity := p.current
	p.mu.Unlock()
	return &identity, nil
}

func (p *FixedIdentityProvider) snapshot() *domain.Identity {
	p.mu.Lock()
	identity := p.current
	p.mu.Unlock()
	return &identity
}
