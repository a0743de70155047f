package app

import (
	"fmt"
	"strings"
	"time"

	"debate-dueler/internal/domain"
)

const (
	// DefaultTimeLimit applies to user-submitted questions without one.
	DefaultTimeLimit = 20

	minDeckQuestions = 3
	minQuestionCards = 2
	maxQuestionCards = 5
)

// DefaultDeck is the built-in deck materialized for an instance that has no
// stored deck yet.
func DefaultDeck() domain.Deck {
	return domain.Deck{
		ID:          "default-battles",
		Title:       "Epic Battles",
		Description: "Who would win in these epic showdowns?",
		Theme:       "battles",
		CreatedBy:   "system",
		CreatedAt:   time.Now(),
		Questions: []domain.Question{
			{
				ID:        "q1",
				Prompt:    "In a battle royale, who emerges victorious?",
				Type:      domain.TypeMultipleChoice,
				TimeLimit: 20,
				Cards: []domain.GameCard{
					{ID: "bear", Text: "🐻 Grizzly Bear"},
					{ID: "tiger", Text: "🐅 Siberian Tiger", IsCorrect: true},
					{ID: "elephant", Text: "🐘 African Elephant"},
					{ID: "rhino", Text: "🦏 White Rhino"},
				},
			},
			{
				ID:        "q2",
				Prompt:    "Which superhero wins in a no-holds-barred fight?",
				Type:      domain.TypeMultipleChoice,
				TimeLimit: 20,
				Cards: []domain.GameCard{
					{ID: "superman", Text: "🦸 Superman", IsCorrect: true},
					{ID: "batman", Text: "🦇 Batman"},
					{ID: "hulk", Text: "💚 Hulk"},
					{ID: "thor", Text: "⚡ Thor"},
				},
			},
			{
				ID:        "q3",
				Prompt:    "In a zombie apocalypse, what's your best weapon?",
				Type:      domain.TypeMultipleChoice,
				TimeLimit: 20,
				Cards: []domain.GameCard{
					{ID: "katana", Text: "⚔️ Katana"},
					{ID: "crossbow", Text: "🏹 Crossbow", IsCorrect: true},
					{ID: "baseball-bat", Text: "⚾ Baseball Bat"},
					{ID: "chainsaw", Text: "🪚 Chainsaw"},
				},
			},
			{
				ID:        "q4",
				Prompt:    "Which food would survive longest in your fridge?",
				Type:      domain.TypeMultipleChoice,
				TimeLimit: 20,
				Cards: []domain.GameCard{
					{ID: "honey", Text: "🍯 Honey", IsCorrect: true},
					{ID: "bread", Text: "🍞 Bread"},
					{ID: "milk", Text: "🥛 Milk"},
					{ID: "banana", Text: "🍌 Banana"},
				},
			},
			{
				ID:        "q5",
				Prompt:    "What's the most useless superpower?",
				Type:      domain.TypeMultipleChoice,
				TimeLimit: 20,
				Cards: []domain.GameCard{
					{ID: "talk-to-fish", Text: "🐠 Talk to Fish"},
					{ID: "change-traffic-lights", Text: "🚦 Change Traffic Lights", IsCorrect: true},
					{ID: "invisible-when-alone", Text: "👻 Invisible When Alone"},
					{ID: "super-smell", Text: "👃 Super Smell"},
				},
			},
			{
				ID:        "q6",
				Prompt:    "Order the steps for a perfect bank heist:",
				Type:      domain.TypeSequence,
				TimeLimit: 30,
				Cards: []domain.GameCard{
					{ID: "step1", Text: "Case the joint", SequenceOrder: 1},
					{ID: "step2", Text: "Disable security", SequenceOrder: 2},
					{ID: "step3", Text: "Grab the loot", SequenceOrder: 3},
					{ID: "step4", Text: "Escape clean", SequenceOrder: 4},
				},
			},
		},
	}
}

// SequenceDeck is an alternative built-in deck built around ordering puzzles.
func SequenceDeck() domain.Deck {
	return domain.Deck{
		ID:          "order-of-operations",
		Title:       "Perfect Sequence",
		Description: "Arrange steps in the correct order",
		Theme:       "sequence",
		CreatedBy:   "system",
		CreatedAt:   time.Now(),
		Questions: []domain.Question{
			{
				ID:        "q1",
				Prompt:    "Order the steps for a perfect bank heist:",
				Type:      domain.TypeSequence,
				TimeLimit: 30,
				Cards: []domain.GameCard{
					{ID: "step1", Text: "Case the joint", SequenceOrder: 1},
					{ID: "step2", Text: "Disable security", SequenceOrder: 2},
					{ID: "step3", Text: "Grab the loot", SequenceOrder: 3},
					{ID: "step4", Text: "Escape clean", SequenceOrder: 4},
				},
			},
			{
				ID:        "q2",
				Prompt:    "Arrange the steps to make a perfect omelette:",
				Type:      domain.TypeSequence,
				TimeLimit: 30,
				Cards: []domain.GameCard{
					{ID: "step1", Text: "Crack eggs into bowl", SequenceOrder: 1},
					{ID: "step2", Text: "Whisk eggs with salt and pepper", SequenceOrder: 2},
					{ID: "step3", Text: "Heat butter in pan", SequenceOrder: 3},
					{ID: "step4", Text: "Pour eggs into pan", SequenceOrder: 4},
					{ID: "step5", Text: "Fold and serve", SequenceOrder: 5},
				},
			},
			{
				ID:        "q3",
				Prompt:    "Which superpower would you want?",
				Type:      domain.TypeMultipleChoice,
				TimeLimit: 20,
				Cards: []domain.GameCard{
					{ID: "fly", Text: "Flight"},
					{ID: "invis", Text: "Invisibility"},
					{ID: "strength", Text: "Super strength"},
					{ID: "tele", Text: "Teleportation"},
				},
			},
		},
	}
}

// BuiltinDecks maps theme names to the built-in decks, for loaders that are
// not backed by a deck catalog.
func BuiltinDecks() map[string]domain.Deck {
	return map[string]domain.Deck{
		"battles":  DefaultDeck(),
		"sequence": SequenceDeck(),
	}
}

// ValidateDeck collects every problem with a submitted deck. An empty result
// means the deck is publishable.
func ValidateDeck(deck domain.Deck) []string {
	var errs []string

	if strings.TrimSpace(deck.Title) == "" {
		errs = append(errs, "Deck title is required")
	}
	if len(deck.Questions) < minDeckQuestions {
		errs = append(errs, fmt.Sprintf("Deck must have at least %d questions", minDeckQuestions))
	}
	for i, q := range deck.Questions {
		for _, msg := range validateQuestion(q) {
			errs = append(errs, fmt.Sprintf("Question %d: %s", i+1, msg))
		}
	}
	return errs
}

func validateQuestion(q domain.Question) []string {
	var errs []string

	if strings.TrimSpace(q.Prompt) == "" {
		errs = append(errs, "Prompt is required")
	}
	if len(q.Cards) < minQuestionCards {
		errs = append(errs, fmt.Sprintf("Must have at least %d answer cards", minQuestionCards))
	}
	if len(q.Cards) > maxQuestionCards {
		errs = append(errs, fmt.Sprintf("Cannot have more than %d answer cards", maxQuestionCards))
	}
	for i, card := range q.Cards {
		if strings.TrimSpace(card.Text) == "" {
			errs = append(errs, fmt.Sprintf("Card %d: Text is required", i+1))
		}
	}
	if q.Type == domain.TypeSequence {
		ordered := 0
		for _, card := range q.Cards {
			if card.SequenceOrder > 0 {
				ordered++
			}
		}
		if ordered < minQuestionCards {
			errs = append(errs, fmt.Sprintf("Sequence questions need at least %d cards with a sequence order", minQuestionCards))
		}
	}
	return errs
}
