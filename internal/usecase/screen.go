package usecase

// ScreenState is the lifecycle state of a protected screen instance.
type ScreenState int

const (
	// ScreenLoading renders a placeholder while the session resolves.
	ScreenLoading ScreenState = iota
	// ScreenAuthorized renders the screen's data.
	ScreenAuthorized
	// ScreenUnauthorized has redirected to the sign-in screen.
	ScreenUnauthorized
)

func (s ScreenState) String() string {
	switch s {
	case ScreenLoading:
		return "loading"
	case ScreenAuthorized:
		return "authorized"
	case ScreenUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// ScreenGuard is the per-screen authorization state machine. Every
// protected screen observes the session on mount and on each session
// change: while loading it holds; once resolved it either authorizes or
// redirects. Authorized and Unauthorized are terminal until Reset.
type ScreenGuard struct {
	session  *Session
	redirect func()
	state    ScreenState
}

// NewScreenGuard creates a guard for one screen instance. redirect is
// invoked exactly once if the session resolves without an identity.
func NewScreenGuard(session *Session, redirect func()) *ScreenGuard {
	return &ScreenGuard{
		session:  session,
		redirect: redirect,
		state:    ScreenLoading,
	}
}

// Observe advances the state machine against the current session state
// and returns the resulting state.
func (g *ScreenGuard) Observe() ScreenState {
	if g.state != ScreenLoading {
		return g.state
	}
	if g.session.Loading() {
		return ScreenLoading
	}

	if g.session.Current() == nil {
		g.state = ScreenUnauthorized
		if g.redirect != nil {
			g.redirect()
		}
		return g.state
	}

	g.state = ScreenAuthorized
	return g.state
}

// State returns the guard state without advancing it.
func (g *ScreenGuard) State() ScreenState {
	return g.state
}

// Reset returns the guard to loading, as on a screen remount.
func (g *ScreenGuard) Reset() {
	g.state = ScreenLoading
}
