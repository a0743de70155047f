package memory

import (
	"context"
	"sync"

	"debate-dueler/internal/domain"
)

// StatsRepository is an in-memory implementation of app.StatsRepository.
// Increments happen under one lock, which stands in for the store's atomic
// counters.
type StatsRepository struct {
	mu       sync.Mutex
	counters map[string]*questionCounters
}

type questionCounters struct {
	cards map[string]int
	total int
}

func NewStatsRepository() *StatsRepository {
	return &StatsRepository{counters: make(map[string]*questionCounters)}
}

func (r *StatsRepository) RecordAnswer(_ context.Context, instanceID, questionID string, answer domain.AnswerValue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.countersLocked(instanceID, questionID)
	switch answer.Kind {
	case domain.AnswerSequence:
		for _, cardID := range answer.CardIDs {
			c.cards[cardID]++
		}
	default:
		c.cards[answer.CardID]++
	}
	// one response per submission, regardless of sequence length
	c.total++
	return nil
}

func (r *StatsRepository) InitQuestion(_ context.Context, instanceID string, question domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.countersLocked(instanceID, question.ID)
	for _, card := range question.Cards {
		if _, ok := c.cards[card.ID]; !ok {
			c.cards[card.ID] = 0
		}
	}
	return nil
}

func (r *StatsRepository) Stats(_ context.Context, instanceID, questionID string, cardIDs []string) (domain.QuestionStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := domain.QuestionStats{
		QuestionID: questionID,
		CardStats:  make(map[string]int, len(cardIDs)),
	}
	c, ok := r.counters[statsKey(instanceID, questionID)]
	for _, cardID := range cardIDs {
		if ok {
			stats.CardStats[cardID] = c.cards[cardID]
		} else {
			stats.CardStats[cardID] = 0
		}
	}
	if ok {
		stats.TotalResponses = c.total
	}
	return stats, nil
}

func (r *StatsRepository) countersLocked(instanceID, questionID string) *questionCounters {
	key := statsKey(instanceID, questionID)
	c, ok := r.counters[key]
	if !ok {
		c = &questionCounters{cards: make(map[string]int)}
		r.counters[key] = c
	}
	return c
}

func statsKey(instanceID, questionID string) string {
	return instanceID + "/" + questionID
}
