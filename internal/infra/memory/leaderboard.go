package memory

import (
	"context"
	"sort"
	"sync"

	"debate-dueler/internal/domain"
)

// Leaderboard is an in-memory implementation of app.LeaderboardRepository.
// Ties keep insertion order, which is stable across reads.
type Leaderboard struct {
	mu     sync.RWMutex
	boards map[string]*board
}

type board struct {
	entries map[string]domain.LeaderboardEntry
	order   []string // userIDs in insertion order
}

func NewLeaderboard() *Leaderboard {
	return &Leaderboard{boards: make(map[string]*board)}
}

func (l *Leaderboard) Upsert(_ context.Context, instanceID string, entry domain.LeaderboardEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.boards[instanceID]
	if !ok {
		b = &board{entries: make(map[string]domain.LeaderboardEntry)}
		l.boards[instanceID] = b
	}
	if _, exists := b.entries[entry.UserID]; exists {
		// first completion wins
		return nil
	}
	b.entries[entry.UserID] = entry
	b.order = append(b.order, entry.UserID)
	return nil
}

func (l *Leaderboard) Top(_ context.Context, instanceID string, limit int) ([]domain.LeaderboardEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ranked := l.rankedLocked(instanceID)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func (l *Leaderboard) Rank(_ context.Context, instanceID, userID string) (int, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i, entry := range l.rankedLocked(instanceID) {
		if entry.UserID == userID {
			return i + 1, true, nil
		}
	}
	return 0, false, nil
}

func (l *Leaderboard) rankedLocked(instanceID string) []domain.LeaderboardEntry {
	b, ok := l.boards[instanceID]
	if !ok {
		return nil
	}
	entries := make([]domain.LeaderboardEntry, 0, len(b.order))
	for _, userID := range b.order {
		entries = append(entries, b.entries[userID])
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}
