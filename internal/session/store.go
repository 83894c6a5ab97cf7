// Package session holds the process-wide authentication state: whether a
// user is logged in and who they are. The Store is the single source of
// truth; views observe it through Subscribe rather than sharing globals.
package session

import "sync"

// Identity describes the authenticated user. It is immutable once attached
// to the session and replaced wholesale on the next login.
type Identity struct {
	Email       string
	DisplayName string
}

// Snapshot is an immutable view of the session taken at notification time.
// User is the zero Identity whenever LoggedIn is false.
type Snapshot struct {
	LoggedIn bool
	User     Identity
}

type subscriber struct {
	id int
	fn func(Snapshot)
}

// Store is the authentication state with explicit login/logout mutation and
// synchronous subscriber notification. The zero-value semantics are
// "unauthenticated"; use NewStore.
type Store struct {
	mu       sync.RWMutex
	loggedIn bool
	user     Identity
	nextID   int
	subs     []subscriber
}

// NewStore creates an unauthenticated session store.
func NewStore() *Store {
	return &Store{}
}

// Login marks the session authenticated with the given identity. A second
// login replaces the identity wholesale (last write wins). Subscribers are
// notified synchronously before Login returns. No network call happens
// here; the identity is assumed already verified by the login flow.
func (s *Store) Login(user Identity) {
	s.mu.Lock()
	s.loggedIn = true
	s.user = user
	snap := Snapshot{LoggedIn: true, User: user}
	subs := append([]subscriber(nil), s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(snap)
	}
}

// Logout clears the authentication state and notifies subscribers.
// When the session is already logged out this is a no-op: state is
// untouched and nobody is notified. Server-side invalidation is a separate
// collaborator's job.
func (s *Store) Logout() {
	s.mu.Lock()
	if !s.loggedIn {
		s.mu.Unlock()
		return
	}
	s.loggedIn = false
	s.user = Identity{}
	subs := append([]subscriber(nil), s.subs...)
	s.mu.Unlock()

	snap := Snapshot{}
	for _, sub := range subs {
		sub.fn(snap)
	}
}

// IsLoggedIn reports the current authentication status. Never fails.
func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

// Current returns the attached identity and whether one is present.
// The identity is present exactly when the session is authenticated.
func (s *Store) Current() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.loggedIn
}

// Subscribe registers fn to run synchronously on every effective session
// mutation. The returned function removes the subscription; calling it
// more than once is harmless.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}
