package app

import (
	"sync"
	"time"

	"debate-dueler/internal/domain"
)

// LeaderboardHub fans leaderboard snapshots out to in-process subscribers,
// typically websocket connections watching one instance's board.
type LeaderboardHub struct {
	mu          sync.Mutex
	subscribers map[string]map[chan domain.Leaderboard]struct{}
	now         func() time.Time
}

func NewLeaderboardHub() *LeaderboardHub {
	return &LeaderboardHub{
		subscribers: make(map[string]map[chan domain.Leaderboard]struct{}),
		now:         time.Now,
	}
}

// Subscribe registers a watcher for the instance. The caller must invoke the
// returned cancel function to avoid leaks.
func (h *LeaderboardHub) Subscribe(instanceID string) (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)

	h.mu.Lock()
	subs, ok := h.subscribers[instanceID]
	if !ok {
		subs = make(map[chan domain.Leaderboard]struct{})
		h.subscribers[instanceID] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs, ok := h.subscribers[instanceID]
		if !ok {
			return
		}
		if _, ok := subs[ch]; ok {
			delete(subs, ch)
			close(ch)
		}
		if len(subs) == 0 {
			delete(h.subscribers, instanceID)
		}
	}
	return ch, cancel
}

// Publish delivers the entries to every subscriber of the instance. Slow
// subscribers have their stale snapshot replaced rather than blocking the
// publisher.
func (h *LeaderboardHub) Publish(instanceID string, entries []domain.LeaderboardEntry) {
	snapshot := domain.Leaderboard{
		InstanceID: instanceID,
		Entries:    entries,
		UpdatedAt:  h.now(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers[instanceID] {
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
}
