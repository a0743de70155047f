package app

import (
	"context"

	"debate-dueler/internal/domain"
)

// DeckRepository stores the per-instance question deck.
type DeckRepository interface {
	// Get returns the stored deck, reporting absence without error.
	Get(ctx context.Context, instanceID string) (domain.Deck, bool, error)
	// GetOrCreate returns the stored deck, materializing and persisting the
	// loader's default deck when none exists yet.
	GetOrCreate(ctx context.Context, instanceID string) (domain.Deck, error)
	// Save overwrites the stored deck wholesale.
	Save(ctx context.Context, instanceID string, deck domain.Deck) error
}

// DeckLoader fetches deck content from a backing catalog (built-in decks,
// Postgres, etc) keyed by theme.
type DeckLoader interface {
	LoadDeck(ctx context.Context, theme string) (domain.Deck, error)
}

// SessionRepository stores one play session per (instance, user).
type SessionRepository interface {
	Get(ctx context.Context, instanceID, userID string) (domain.PlayerSession, bool, error)
	Save(ctx context.Context, instanceID string, session domain.PlayerSession) error
}

// StatsRepository owns the community answer counters. Counter updates are
// contended across all players of an instance and must use the store's atomic
// increments, never application-level read-modify-write.
type StatsRepository interface {
	// RecordAnswer counts one submission: the chosen card (or every card of a
	// sequence) is incremented, and the response total is incremented exactly
	// once regardless of sequence length.
	RecordAnswer(ctx context.Context, instanceID, questionID string, answer domain.AnswerValue) error
	// InitQuestion zeroes the counters for every card of a freshly added
	// question, plus its response total.
	InitQuestion(ctx context.Context, instanceID string, question domain.Question) error
	// Stats reads current counters for the given cards; missing cards read
	// as zero.
	Stats(ctx context.Context, instanceID, questionID string, cardIDs []string) (domain.QuestionStats, error)
}

// LeaderboardRepository owns the ranked board of finished sessions.
type LeaderboardRepository interface {
	// Upsert inserts the entry unless the user already has one. First
	// completion wins; the existence check and the write are not atomic under
	// the abstract store contract, which is accepted (a double finalization of
	// one session is already excluded by the session lifecycle).
	Upsert(ctx context.Context, instanceID string, entry domain.LeaderboardEntry) error
	// Top returns up to limit entries, descending by score.
	Top(ctx context.Context, instanceID string, limit int) ([]domain.LeaderboardEntry, error)
	// Rank returns the user's 1-based descending rank, or false when the user
	// has no entry.
	Rank(ctx context.Context, instanceID, userID string) (int, bool, error)
}
