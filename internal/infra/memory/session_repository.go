package memory

import (
	"context"
	"sync"

	"debate-dueler/internal/domain"
)

// SessionRepository is an in-memory implementation of app.SessionRepository.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]domain.PlayerSession
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]domain.PlayerSession)}
}

func (r *SessionRepository) Get(_ context.Context, instanceID, userID string) (domain.PlayerSession, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[sessionKey(instanceID, userID)]
	return session, ok, nil
}

func (r *SessionRepository) Save(_ context.Context, instanceID string, session domain.PlayerSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionKey(instanceID, session.UserID)] = session
	return nil
}

func sessionKey(instanceID, userID string) string {
	return instanceID + "/" + userID
}
