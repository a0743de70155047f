package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"debate-dueler/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SessionRepository stores each player session as a JSON blob under
// game:{instanceID}:player:{userID}.
//
// Reads and writes are plain GET/SET: the key is private to one user, and the
// client serializes its own requests. Two concurrent submissions for the same
// user can still race read-modify-write through the service layer; see the
// concurrency notes in DESIGN.md.
type SessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

func (r *SessionRepository) Get(ctx context.Context, instanceID, userID string) (domain.PlayerSession, bool, error) {
	raw, err := r.client.Get(ctx, sessionKey(instanceID, userID)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.PlayerSession{}, false, nil
	}
	if err != nil {
		return domain.PlayerSession{}, false, fmt.Errorf("get session: %w", err)
	}
	var session domain.PlayerSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return domain.PlayerSession{}, false, fmt.Errorf("unmarshal session: %w", err)
	}
	return session, true, nil
}

func (r *SessionRepository) Save(ctx context.Context, instanceID string, session domain.PlayerSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(instanceID, session.UserID), raw, 0).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
