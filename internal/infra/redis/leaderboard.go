package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"debate-dueler/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Leaderboard keeps a sorted set of userID→score per instance
// (leaderboard:{instanceID}) and the full entry record as JSON under
// leaderboard:{instanceID}:{userID}.
type Leaderboard struct {
	client *redis.Client
}

func NewLeaderboard(client *redis.Client) *Leaderboard {
	return &Leaderboard{client: client}
}

// Upsert inserts the entry unless the user already has one. The exists check
// and the write are two round trips, not a transaction; the session lifecycle
// already prevents two finalizations of the same session, so this stays a
// best-effort guard rather than a strict one.
func (l *Leaderboard) Upsert(ctx context.Context, instanceID string, entry domain.LeaderboardEntry) error {
	entryKey := leaderboardEntryKey(instanceID, entry.UserID)

	exists, err := l.client.Exists(ctx, entryKey).Result()
	if err != nil {
		return fmt.Errorf("check leaderboard entry: %w", err)
	}
	if exists > 0 {
		log.Printf("user %s already on leaderboard %s, keeping first score", entry.UserID, instanceID)
		return nil
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal leaderboard entry: %w", err)
	}

	pipe := l.client.Pipeline()
	pipe.ZAdd(ctx, leaderboardKey(instanceID), redis.Z{
		Score:  float64(entry.Score),
		Member: entry.UserID,
	})
	pipe.Set(ctx, entryKey, raw, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write leaderboard entry: %w", err)
	}
	return nil
}

func (l *Leaderboard) Top(ctx context.Context, instanceID string, limit int) ([]domain.LeaderboardEntry, error) {
	userIDs, err := l.client.ZRevRange(ctx, leaderboardKey(instanceID), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(userIDs))
	for _, userID := range userIDs {
		raw, err := l.client.Get(ctx, leaderboardEntryKey(instanceID, userID)).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read leaderboard entry: %w", err)
		}
		var entry domain.LeaderboardEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Printf("skipping malformed leaderboard entry for %s: %v", userID, err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (l *Leaderboard) Rank(ctx context.Context, instanceID, userID string) (int, bool, error) {
	rank, err := l.client.ZRevRank(ctx, leaderboardKey(instanceID), userID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read rank: %w", err)
	}
	return int(rank) + 1, true, nil
}
