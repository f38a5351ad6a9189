package domain

import "context"

// AuthProvider is the capability variant that backs the session context.
// The real implementation delegates to the identity backend; the
// fixed-identity implementation exists for development only and is
// selected explicitly at startup configuration.
type AuthProvider interface {
	// Start opens the auth-state stream. onChange is invoked with the
	// current identity (nil when signed out) once immediately and then on
	// every state change. The returned func releases the subscription.
	Start(ctx context.Context, onChange func(*Identity)) (stop func(), err error)

	// SignIn verifies credentials with the backend and resolves the
	// profile into an Identity.
	SignIn(ctx context.Context, email, password string) (*Identity, error)

	// SignOut invalidates the backend session. It returns the identity
	// that should be current afterwards (nil for the real backend).
	SignOut(ctx context.Context) (*Identity, error)
}

// ProfileStore provides read/write access to user-profile records keyed
// by the backend-assigned identity id.
type ProfileStore interface {
	ReadProfile(ctx context.Context, identityID string) (*Profile, error)
	WriteProfile(ctx context.Context, identityID string, profile *Profile) error
}

// ProfileCache caches resolved profiles between sign-ins.
type ProfileCache interface {
	Get(identityID string) (*Profile, bool)
	Set(identityID string, profile Profile)

	// Invalidate drops the cached profile so the next sign-in re-reads
	// the store. Called after a profile write.
	Invalidate(identityID string)
}

// CollectionStore provides reads over the backend's document collections.
type CollectionStore interface {
	// FetchCollection returns a one-shot snapshot capped at limit records.
	FetchCollection(ctx context.Context, name string, limit int) ([]Record, error)

	// SubscribeCollection delivers an initial snapshot and then a fresh
	// snapshot on every backend push. The returned func releases the
	// subscription.
	SubscribeCollection(ctx context.Context, name string, onSnapshot func([]Record)) (stop func(), err error)
}

// AccountProvisioner creates authentication accounts against the identity
// backend's admin surface. Used by the bootstrap tool only.
type AccountProvisioner interface {
	CreateAccount(ctx context.Context, email, password string) (identityID string, err error)
}

// TokenIssuer generates and verifies signed session tokens for the
// HTTP edge.
type TokenIssuer interface {
	IssueSessionToken(identity *Identity) (string, error)
	VerifySessionToken(token string) (*Identity, error)
}

// CSRFGenerator issues and checks per-identity CSRF tokens for
// state-changing endpoints.
type CSRFGenerator interface {
	Generate(identityID string) (string, error)
	Verify(identityID, presented string) bool
}
