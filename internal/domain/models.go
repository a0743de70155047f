package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// ScoringMode selects the formula used for every answer in a session.
type ScoringMode string

const (
	ModeTrivia     ScoringMode = "trivia"
	ModeConformist ScoringMode = "conformist"
	ModeContrarian ScoringMode = "contrarian"
)

// Valid reports whether the mode is one of the three supported modes.
func (m ScoringMode) Valid() bool {
	switch m {
	case ModeTrivia, ModeConformist, ModeContrarian:
		return true
	}
	return false
}

// QuestionType discriminates how a question is answered and scored.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple-choice"
	TypeSequence       QuestionType = "sequence"
)

// GameState is the lifecycle of a player session.
type GameState string

const (
	StateWaiting  GameState = "waiting"
	StatePlaying  GameState = "playing"
	StateFinished GameState = "finished"
)

// GameCard is one selectable answer option. IsCorrect carries trivia
// semantics for multiple-choice questions; SequenceOrder (1-based, 0 means
// unset) carries the canonical position for sequence questions. A card never
// uses both within the same question.
type GameCard struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	IsCorrect     bool   `json:"isCorrect,omitempty"`
	SequenceOrder int    `json:"sequenceOrder,omitempty"`
}

// Question is a single timed prompt with its answer cards.
type Question struct {
	ID             string       `json:"id"`
	Prompt         string       `json:"prompt"`
	Type           QuestionType `json:"questionType"`
	TimeLimit      int          `json:"timeLimit"` // seconds
	Cards          []GameCard   `json:"cards"`
	AuthorUsername string       `json:"authorUsername,omitempty"`
}

// Card returns the card with the given id, if present.
func (q Question) Card(cardID string) (GameCard, bool) {
	for _, c := range q.Cards {
		if c.ID == cardID {
			return c, true
		}
	}
	return GameCard{}, false
}

// CardIDs lists every card id in declaration order.
func (q Question) CardIDs() []string {
	ids := make([]string, 0, len(q.Cards))
	for _, c := range q.Cards {
		ids = append(ids, c.ID)
	}
	return ids
}

// Deck is the ordered question list for one game instance. Questions are
// append-only once the deck is published.
type Deck struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Theme       string     `json:"theme"`
	FlairText   string     `json:"flairText,omitempty"`
	FlairCSS    string     `json:"flairCSS,omitempty"`
	Questions   []Question `json:"questions"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// AnswerKind tags the two answer shapes.
type AnswerKind string

const (
	AnswerSingle   AnswerKind = "single"
	AnswerSequence AnswerKind = "sequence"
)

// AnswerValue is the submitted answer for one question: either one card id
// (multiple-choice) or an ordered list of card ids (sequence). The zero value
// is invalid. On the wire it is a bare JSON string or an array of strings.
type AnswerValue struct {
	Kind    AnswerKind
	CardID  string
	CardIDs []string
}

// SingleChoice builds a multiple-choice answer.
func SingleChoice(cardID string) AnswerValue {
	return AnswerValue{Kind: AnswerSingle, CardID: cardID}
}

// Sequence builds an ordered sequence answer.
func Sequence(cardIDs ...string) AnswerValue {
	return AnswerValue{Kind: AnswerSequence, CardIDs: cardIDs}
}

func (a AnswerValue) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AnswerSingle:
		return json.Marshal(a.CardID)
	case AnswerSequence:
		return json.Marshal(a.CardIDs)
	}
	return nil, fmt.Errorf("marshal answer: unknown kind %q", a.Kind)
}

func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*a = SingleChoice(single)
		return nil
	}
	var seq []string
	if err := json.Unmarshal(data, &seq); err == nil {
		*a = Sequence(seq...)
		return nil
	}
	return fmt.Errorf("%w: answer must be a card id or a list of card ids", ErrValidation)
}

// PlayerAnswer records one submission. Immutable once appended to a session.
type PlayerAnswer struct {
	QuestionID    string      `json:"questionId"`
	Answer        AnswerValue `json:"answer"`
	TimeRemaining float64     `json:"timeRemaining"` // seconds left on the client timer
	Timestamp     time.Time   `json:"timestamp"`
}

// PlayerSession is the per-(instance, user) play record. Exactly one exists
// per user; starting a new game replaces it.
type PlayerSession struct {
	UserID               string         `json:"userId"`
	Username             string         `json:"username"`
	ScoringMode          ScoringMode    `json:"scoringMode"`
	Answers              []PlayerAnswer `json:"answers"`
	TotalScore           int            `json:"totalScore"`
	CurrentQuestionIndex int            `json:"currentQuestionIndex"`
	GameState            GameState      `json:"gameState"`
	StartedAt            time.Time      `json:"startedAt"`
	FinishedAt           time.Time      `json:"finishedAt,omitempty"`
}

// QuestionStats holds community response counters for one question.
type QuestionStats struct {
	QuestionID     string         `json:"questionId"`
	CardStats      map[string]int `json:"cardStats"`
	TotalResponses int            `json:"totalResponses"`
}

// Percentage is the share of responses that picked the card, rounded to the
// nearest integer (half up). Zero when there are no responses or the card is
// unknown. Scoring depends on this exact rounding.
func (s QuestionStats) Percentage(cardID string) int {
	if s.TotalResponses <= 0 {
		return 0
	}
	count := s.CardStats[cardID]
	return int(math.Round(float64(count) / float64(s.TotalResponses) * 100))
}

// LeaderboardEntry is one finished session on the board. First completion
// wins; later completions by the same user never replace it.
type LeaderboardEntry struct {
	UserID      string      `json:"userId"`
	Username    string      `json:"username"`
	Score       int         `json:"score"`
	ScoringMode ScoringMode `json:"scoringMode"`
	CompletedAt time.Time   `json:"completedAt"`
}

// Leaderboard is a snapshot of the ranked board for one instance.
type Leaderboard struct {
	InstanceID string             `json:"instanceId"`
	Entries    []LeaderboardEntry `json:"entries"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}
