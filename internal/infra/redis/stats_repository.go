package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"debate-dueler/internal/domain"
	"github.com/redis/go-redis/v9"
)

// StatsRepository keeps community answer counters in a hash per question
// (stats:{instanceID}:{questionID}, field per card) plus a separate response
// total (…:total). HINCRBY/INCR are atomic on the server, so concurrent
// submissions from different users never lose updates.
type StatsRepository struct {
	client *redis.Client
}

func NewStatsRepository(client *redis.Client) *StatsRepository {
	return &StatsRepository{client: client}
}

func (r *StatsRepository) RecordAnswer(ctx context.Context, instanceID, questionID string, answer domain.AnswerValue) error {
	key := statsKey(instanceID, questionID)

	pipe := r.client.Pipeline()
	switch answer.Kind {
	case domain.AnswerSequence:
		for _, cardID := range answer.CardIDs {
			pipe.HIncrBy(ctx, key, cardID, 1)
		}
	default:
		pipe.HIncrBy(ctx, key, answer.CardID, 1)
	}
	// the total counts responses, not card touches
	pipe.IncrBy(ctx, statsTotalKey(instanceID, questionID), 1)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record answer: %w", err)
	}
	return nil
}

func (r *StatsRepository) InitQuestion(ctx context.Context, instanceID string, question domain.Question) error {
	key := statsKey(instanceID, question.ID)

	fields := make([]interface{}, 0, len(question.Cards)*2)
	for _, card := range question.Cards {
		fields = append(fields, card.ID, "0")
	}

	pipe := r.client.Pipeline()
	if len(fields) > 0 {
		pipe.HSet(ctx, key, fields...)
	}
	pipe.Set(ctx, statsTotalKey(instanceID, question.ID), "0", 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("init question stats: %w", err)
	}
	return nil
}

func (r *StatsRepository) Stats(ctx context.Context, instanceID, questionID string, cardIDs []string) (domain.QuestionStats, error) {
	counts, err := r.client.HGetAll(ctx, statsKey(instanceID, questionID)).Result()
	if err != nil {
		return domain.QuestionStats{}, fmt.Errorf("read card stats: %w", err)
	}

	stats := domain.QuestionStats{
		QuestionID: questionID,
		CardStats:  make(map[string]int, len(cardIDs)),
	}
	for _, cardID := range cardIDs {
		n, _ := strconv.Atoi(counts[cardID])
		stats.CardStats[cardID] = n
	}

	total, err := r.client.Get(ctx, statsTotalKey(instanceID, questionID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return domain.QuestionStats{}, fmt.Errorf("read response total: %w", err)
	}
	stats.TotalResponses, _ = strconv.Atoi(total)
	return stats, nil
}
