package redis

import (
	"context"
	"testing"
	"time"

	"debate-dueler/internal/domain"
)

func boardEntry(userID string, score int) domain.LeaderboardEntry {
	return domain.LeaderboardEntry{
		UserID:      userID,
		Username:    userID,
		Score:       score,
		ScoringMode: domain.ModeConformist,
		CompletedAt: time.Unix(1700000000, 0).UTC(),
	}
}

func TestLeaderboardUpsertFirstWriteWins(t *testing.T) {
	mr, client := newTestClient(t)
	lb := NewLeaderboard(client)
	ctx := context.Background()

	if err := lb.Upsert(ctx, "post-1", boardEntry("u1", 500)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !mr.Exists("leaderboard:post-1:u1") {
		t.Fatalf("expected entry record key")
	}

	if err := lb.Upsert(ctx, "post-1", boardEntry("u1", 800)); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	top, err := lb.Top(ctx, "post-1", 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 1 || top[0].Score != 500 {
		t.Fatalf("first completion must win, got %+v", top)
	}
}

func TestLeaderboardTopAndRank(t *testing.T) {
	_, client := newTestClient(t)
	lb := NewLeaderboard(client)
	ctx := context.Background()

	_ = lb.Upsert(ctx, "post-1", boardEntry("u1", 300))
	_ = lb.Upsert(ctx, "post-1", boardEntry("u2", 700))
	_ = lb.Upsert(ctx, "post-1", boardEntry("u3", 100))

	top, err := lb.Top(ctx, "post-1", 2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 || top[0].UserID != "u2" || top[1].UserID != "u1" {
		t.Fatalf("expected [u2 u1], got %+v", top)
	}

	rank, ok, err := lb.Rank(ctx, "post-1", "u3")
	if err != nil || !ok || rank != 3 {
		t.Fatalf("expected u3 at rank 3, got %d ok=%v err=%v", rank, ok, err)
	}
	if _, ok, _ := lb.Rank(ctx, "post-1", "ghost"); ok {
		t.Fatalf("unknown user must have no rank")
	}
}
