package usecase

import (
	"context"
	"log/slog"
	"sync"

	"ops-hub/internal/domain"
)

// Session is the single source of truth for the current authenticated
// identity. Every mutation funnels through the auth-state callback or the
// explicit SignIn/SignOut calls below; consumers only ever observe one
// consistent identity value at a time.
type Session struct {
	provider domain.AuthProvider
	logger   *slog.Logger

	mu      sync.RWMutex
	current *domain.Identity
	loading bool
	stop    func()
}

// NewSession creates a session context over the given auth provider.
func NewSession(provider domain.AuthProvider, logger *slog.Logger) *Session {
	return &Session{
		provider: provider,
		logger:   logger,
		loading:  true,
	}
}

// Initialize opens the long-lived auth-state subscription. The session
// reports loading until the first state event arrives.
func (s *Session) Initialize(ctx context.Context) error {
	stop, err := s.provider.Start(ctx, s.onAuthState)
	if err != nil {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.stop = stop
	s.mu.Unlock()
	return nil
}

// onAuthState is the single subscription callback; the provider invokes it
// once with the initial state and again on every change.
func (s *Session) onAuthState(identity *domain.Identity) {
	s.mu.Lock()
	s.current = identity
	s.loading = false
	s.mu.Unlock()

	if identity != nil {
		s.logger.Info("auth state changed", "identity_id", identity.ID, "role", identity.Role)
	} else {
		s.logger.Info("auth state changed", "identity_id", "")
	}
}

// SignIn verifies credentials through the provider and stores the
// resolved identity. State is left untouched on failure.
func (s *Session) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	identity, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = identity
	s.loading = false
	s.mu.Unlock()

	s.logger.Info("signed in", "identity_id", identity.ID, "role", identity.Role)
	return identity, nil
}

// SignOut invalidates the backend session and clears the identity.
// Calling it while already signed out is a no-op.
func (s *Session) SignOut(ctx context.Context) error {
	s.mu.RLock()
	signedOut := s.current == nil && !s.loading
	s.mu.RUnlock()
	if signedOut {
		return nil
	}

	identity, err := s.provider.SignOut(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = identity
	s.loading = false
	s.mu.Unlock()

	s.logger.Info("signed out")
	return nil
}

// HasRole reports whether the current identity carries the given role.
// Returns false when no identity is present.
func (s *Session) HasRole(role domain.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.HasRole(role)
}

// Current returns the current identity, or nil when signed out.
func (s *Session) Current() *domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Loading reports whether the first auth-state event is still pending.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Close releases the auth-state subscription.
func (s *Session) Close() {
	s.mu.Lock()
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
}
