package session

import "sync"

// Registry holds the active trackers by session id.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Tracker
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Tracker)}
}

func (r *Registry) Add(t *Tracker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[t.ID] = t
}

func (r *Registry) Get(id string) (*Tracker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.sessions[id]
	return t, ok
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}
