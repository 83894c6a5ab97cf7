// Package routing implements the authorization gate evaluated before a
// protected view renders.
package routing

import (
	"github.com/Akshita071/banking-app/internal/session"
)

// State is the outcome kind of a gate evaluation.
type State int

const (
	// Allowed means the requested protected view may render.
	Allowed State = iota

	// Redirected means the caller must land on the login view instead.
	Redirected
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Allowed:
		return "allowed"
	case Redirected:
		return "redirected"
	default:
		return "unknown"
	}
}

// Decision is the result of resolving a navigation attempt. Target is the
// view to render: the requested path when allowed, the login view when
// redirected.
type Decision struct {
	State  State
	Target string
}

// Gate decides, from current session state alone, whether a protected view
// renders or the caller is sent to the login view. It holds no state of
// its own; every call re-reads the session store, so callers simply
// re-resolve after any session mutation.
type Gate struct {
	sessions  *session.Store
	loginPath string
}

// NewGate creates a gate backed by the given session store. Redirects
// always target loginPath.
func NewGate(sessions *session.Store, loginPath string) *Gate {
	return &Gate{
		sessions:  sessions,
		loginPath: loginPath,
	}
}

// Resolve evaluates a navigation attempt to a protected view.
//
// An unauthenticated session always redirects to the login view, and the
// originally requested path is discarded: after a later login the user
// starts from the login view, not the deep link.
func (g *Gate) Resolve(requested string) Decision {
	if !g.sessions.IsLoggedIn() {
		return Decision{State: Redirected, Target: g.loginPath}
	}

	return Decision{State: Allowed, Target: requested}
}
