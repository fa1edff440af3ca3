package session

import (
	"sync"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/errs"
)

// Registry holds the active session of each user.
// Lookups are guarded by a read-write mutex and every session has its own
// lock, so calls for one user run one at a time while different users do
// not block each other.
type Registry struct {
	sessions map[string]*entry
	mu       sync.RWMutex
}

type entry struct {
	mu   sync.Mutex
	ctrl *Controller
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*entry),
	}
}

// Put sets the active session for a user, replacing any previous one.
func (r *Registry) Put(username string, ctrl *Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[username] = &entry{ctrl: ctrl}
}

// Remove drops the active session for a user.
func (r *Registry) Remove(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, username)
}

// Has reports whether the user has an active session.
func (r *Registry) Has(username string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.sessions[username]
	return ok
}

// With runs fn against the user's session while holding its lock.
// Returns a NotFoundError if the user has no active session.
func (r *Registry) With(username string, fn func(*Controller) error) error {
	r.mu.RLock()
	e, ok := r.sessions[username]
	r.mu.RUnlock()

	if !ok {
		return errs.NewNotFound("session", username)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return fn(e.ctrl)
}

// Count returns the number of active sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
