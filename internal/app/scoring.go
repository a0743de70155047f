package app

import (
	"math"
	"sort"

	"debate-dueler/internal/domain"
)

// Score maps one submitted answer to its integer score. It is pure: the same
// mode, question, answer, stats and timeRemaining always yield the same value,
// so a finished game can be replayed from persisted counters alone.
//
// Every mode shares the time bonus of 5 points per second remaining, floored
// at zero. The one exception is a wrong multiple-choice trivia answer, which
// scores exactly 0 with no bonus.
//
// The session manager rejects empty sequence answers before calling in here;
// should one slip through anyway, it scores 0 rather than dividing by zero.
func Score(mode domain.ScoringMode, question domain.Question, answer domain.AnswerValue, stats domain.QuestionStats, timeRemaining float64) int {
	timeBonus := int(math.Round(math.Max(0, timeRemaining*5)))

	if question.Type == domain.TypeSequence {
		return scoreSequence(mode, question, answer.CardIDs, stats, timeBonus)
	}
	return scoreChoice(mode, question, answer.CardID, stats, timeBonus)
}

func scoreChoice(mode domain.ScoringMode, question domain.Question, cardID string, stats domain.QuestionStats, timeBonus int) int {
	if mode == domain.ModeTrivia {
		card, ok := question.Card(cardID)
		if ok && card.IsCorrect {
			return 100 + timeBonus
		}
		return 0
	}

	pct := stats.Percentage(cardID)
	if mode == domain.ModeContrarian {
		return 100 - pct + timeBonus
	}
	return pct + timeBonus
}

func scoreSequence(mode domain.ScoringMode, question domain.Question, sequence []string, stats domain.QuestionStats, timeBonus int) int {
	if len(sequence) == 0 {
		return 0
	}

	if mode == domain.ModeTrivia {
		canonical := canonicalSequence(question)
		if len(canonical) == 0 {
			return 0
		}
		correct := 0
		for i, cardID := range sequence {
			if i < len(canonical) && canonical[i] == cardID {
				correct++
			}
		}
		accuracy := float64(correct) / float64(len(canonical))
		return int(math.Round(accuracy*100)) + timeBonus
	}

	totalPct := 0
	for _, cardID := range sequence {
		totalPct += stats.Percentage(cardID)
	}
	avgPct := float64(totalPct) / float64(len(sequence))

	if mode == domain.ModeConformist {
		return int(math.Round(avgPct)) + timeBonus
	}
	return int(math.Round(100-avgPct)) + timeBonus
}

// canonicalSequence returns the card ids that carry a sequence order, sorted
// ascending by that order.
func canonicalSequence(question domain.Question) []string {
	ordered := make([]domain.GameCard, 0, len(question.Cards))
	for _, c := range question.Cards {
		if c.SequenceOrder > 0 {
			ordered = append(ordered, c)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SequenceOrder < ordered[j].SequenceOrder
	})

	ids := make([]string, 0, len(ordered))
	for _, c := range ordered {
		ids = append(ids, c.ID)
	}
	return ids
}
