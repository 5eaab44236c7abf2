package api

import (
	"sync"

	"github.com/google/uuid"

	"github.com/logsmart/designer/pkg/errors"
	"github.com/logsmart/designer/pkg/session"
)

// Registry holds the open API sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*session.Controller
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*session.Controller)}
}

// Add stores c under a new session ID.
func (r *Registry) Add(c *session.Controller) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = c
	r.mu.Unlock()
	return id
}

// Get returns the controller for id.
func (r *Registry) Get(id string) (*session.Controller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.sessions[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "session %s not found", id)
	}
	return c, nil
}

// Remove closes and forgets the session. It reports whether it existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	c, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		c.Close()
	}
	return ok
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll closes every session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*session.Controller)
	r.mu.Unlock()
	for _, c := range all {
		c.Close()
	}
}
