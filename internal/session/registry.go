package session

import (
	"context"
	"fmt"
	"sync"
)

// StatusWriter flips the ambulance's persisted status at login and logout.
type StatusWriter interface {
	SetActive(ctx context.Context, id string) error
	SetInactive(ctx context.Context, id string) error
}

// Registry maps ambulance ids to their live sessions. One session per
// ambulance; logging in again tears the old session down first.
type Registry struct {
	deps   Deps
	status StatusWriter

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(deps Deps, status StatusWriter) *Registry {
	return &Registry{
		deps:     deps,
		status:   status,
		sessions: map[string]*Session{},
	}
}

// Login creates the session for an ambulance and marks it active.
func (r *Registry) Login(ctx context.Context, ambulanceID, patientID string) (*Session, error) {
	if ambulanceID == "" {
		return nil, fmt.Errorf("ambulance_id is required")
	}
	if patientID == "" {
		return nil, fmt.Errorf("patient_id is required")
	}

	r.mu.Lock()
	if old, ok := r.sessions[ambulanceID]; ok {
		old.End()
	}
	s := New(r.deps, ambulanceID, patientID)
	r.sessions[ambulanceID] = s
	r.mu.Unlock()

	if err := r.status.SetActive(ctx, ambulanceID); err != nil {
		r.mu.Lock()
		if r.sessions[ambulanceID] == s {
			delete(r.sessions, ambulanceID)
		}
		r.mu.Unlock()
		s.End()
		return nil, fmt.Errorf("marking ambulance active: %w", err)
	}
	return s, nil
}

// Logout ends the session and marks the ambulance inactive. Unknown ids are
// a no-op so a retried logout cannot fail.
func (r *Registry) Logout(ctx context.Context, ambulanceID string) error {
	r.mu.Lock()
	s, ok := r.sessions[ambulanceID]
	if ok {
		delete(r.sessions, ambulanceID)
	}
	r.mu.Unlock()

	if !ok {
		return nil
	}
	s.End()
	return r.status.SetInactive(ctx, ambulanceID)
}

// Get returns the live session for an ambulance, or false.
func (r *Registry) Get(ambulanceID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[ambulanceID]
	return s, ok
}
