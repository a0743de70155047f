package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"debate-dueler/internal/domain"
	"github.com/google/uuid"
)

// leaderboardLimit caps how many entries the board surfaces.
const leaderboardLimit = 10

// GameService contains the core game use cases: session lifecycle, answer
// scoring, and leaderboard maintenance. Session mutation happens only here.
type GameService struct {
	decks       DeckRepository
	sessions    SessionRepository
	stats       StatsRepository
	leaderboard LeaderboardRepository
	hub         *LeaderboardHub

	now   func() time.Time
	newID func() string
}

func NewGameService(decks DeckRepository, sessions SessionRepository, stats StatsRepository, leaderboard LeaderboardRepository, hub *LeaderboardHub) *GameService {
	return &GameService{
		decks:       decks,
		sessions:    sessions,
		stats:       stats,
		leaderboard: leaderboard,
		hub:         hub,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// WithClock is test-only for deterministic timestamps.
func (s *GameService) WithClock(now func() time.Time) *GameService {
	s.now = now
	return s
}

// InitResult is the bootstrap payload for a client opening the game.
type InitResult struct {
	Deck       domain.Deck
	Session    *domain.PlayerSession
	Stats      []domain.QuestionStats
	PlayerRank *int
}

// Init returns the instance's deck (materializing the default deck on first
// access), the caller's session if one exists, community stats for every
// question that has responses, and the caller's leaderboard rank.
func (s *GameService) Init(ctx context.Context, instanceID, userID string) (InitResult, error) {
	deck, err := s.decks.GetOrCreate(ctx, instanceID)
	if err != nil {
		return InitResult{}, err
	}

	result := InitResult{Deck: deck}

	if userID != "" {
		session, ok, err := s.sessions.Get(ctx, instanceID, userID)
		if err != nil {
			return InitResult{}, err
		}
		if ok {
			result.Session = &session
		}

		rank, ranked, err := s.leaderboard.Rank(ctx, instanceID, userID)
		if err != nil {
			return InitResult{}, err
		}
		if ranked {
			result.PlayerRank = &rank
		}
	}

	stats, err := s.QuestionStatsForDeck(ctx, instanceID, deck)
	if err != nil {
		return InitResult{}, err
	}
	result.Stats = stats
	return result, nil
}

// Start creates a fresh session for the user at question zero. Any prior
// session for the same user is discarded: starting a new game intentionally
// restarts an in-progress one.
func (s *GameService) Start(ctx context.Context, instanceID, userID, username string, mode domain.ScoringMode) (domain.PlayerSession, error) {
	if !mode.Valid() {
		return domain.PlayerSession{}, fmt.Errorf("%w: valid scoring mode is required", domain.ErrValidation)
	}

	if _, ok, err := s.decks.Get(ctx, instanceID); err != nil {
		return domain.PlayerSession{}, err
	} else if !ok {
		return domain.PlayerSession{}, domain.ErrDeckNotFound
	}

	session := domain.PlayerSession{
		UserID:      userID,
		Username:    username,
		ScoringMode: mode,
		Answers:     []domain.PlayerAnswer{},
		GameState:   domain.StatePlaying,
		StartedAt:   s.now(),
	}
	if err := s.sessions.Save(ctx, instanceID, session); err != nil {
		return domain.PlayerSession{}, err
	}
	return session, nil
}

// SubmitResult reports the outcome of one incremental answer.
type SubmitResult struct {
	Score             int
	Stats             domain.QuestionStats
	GameComplete      bool
	NextQuestionIndex int
}

// SubmitAnswer scores the answer to the session's current question and
// advances the session, finalizing it on the last question. The answer shape
// is validated against the question type before any counter is touched, so a
// rejected submission leaves no partial side effects.
func (s *GameService) SubmitAnswer(ctx context.Context, instanceID, userID string, answer domain.AnswerValue, timeRemaining float64) (SubmitResult, error) {
	session, err := s.playingSession(ctx, instanceID, userID)
	if err != nil {
		return SubmitResult{}, err
	}

	deck, ok, err := s.decks.Get(ctx, instanceID)
	if err != nil {
		return SubmitResult{}, err
	}
	if !ok {
		return SubmitResult{}, domain.ErrDeckNotFound
	}

	idx := session.CurrentQuestionIndex
	if idx >= len(deck.Questions) {
		return SubmitResult{}, domain.ErrQuestionNotFound
	}
	question := deck.Questions[idx]

	if err := validateAnswerShape(question, answer); err != nil {
		return SubmitResult{}, err
	}

	score, stats, err := s.recordAndScore(ctx, instanceID, session.ScoringMode, question, answer, timeRemaining)
	if err != nil {
		return SubmitResult{}, err
	}

	session.Answers = append(session.Answers, domain.PlayerAnswer{
		QuestionID:    question.ID,
		Answer:        answer,
		TimeRemaining: timeRemaining,
		Timestamp:     s.now(),
	})
	session.TotalScore += score

	result := SubmitResult{Score: score, Stats: stats}
	if idx == len(deck.Questions)-1 {
		session.GameState = domain.StateFinished
		session.FinishedAt = s.now()
		result.GameComplete = true
	} else {
		session.CurrentQuestionIndex = idx + 1
		result.NextQuestionIndex = session.CurrentQuestionIndex
	}

	if err := s.sessions.Save(ctx, instanceID, session); err != nil {
		return SubmitResult{}, err
	}
	if result.GameComplete {
		if err := s.recordCompletion(ctx, instanceID, session); err != nil {
			return SubmitResult{}, err
		}
	}
	return result, nil
}

// CompleteGame is the batch finalization path: the client played with local
// optimistic scoring and now submits every answer at once. The authoritative
// score is recomputed here by replaying the answers in order; any total the
// client claims is ignored for persistence and ranking.
func (s *GameService) CompleteGame(ctx context.Context, instanceID, userID string, answers []domain.PlayerAnswer) (int, domain.PlayerSession, error) {
	if len(answers) == 0 {
		return 0, domain.PlayerSession{}, fmt.Errorf("%w: valid answers required", domain.ErrValidation)
	}

	session, err := s.playingSession(ctx, instanceID, userID)
	if err != nil {
		return 0, domain.PlayerSession{}, err
	}

	deck, ok, err := s.decks.Get(ctx, instanceID)
	if err != nil {
		return 0, domain.PlayerSession{}, err
	}
	if !ok {
		return 0, domain.PlayerSession{}, domain.ErrDeckNotFound
	}

	// Validate every answer shape first: a rejected batch must leave the
	// counters untouched, same as the incremental path.
	for _, answer := range answers {
		question, found := deckQuestion(deck, answer.QuestionID)
		if !found {
			continue
		}
		if err := validateAnswerShape(question, answer.Answer); err != nil {
			return 0, domain.PlayerSession{}, err
		}
	}

	finalScore := 0
	for _, answer := range answers {
		question, found := deckQuestion(deck, answer.QuestionID)
		if !found {
			// answers naming unknown questions are skipped rather than
			// failing the whole batch
			continue
		}
		score, _, err := s.recordAndScore(ctx, instanceID, session.ScoringMode, question, answer.Answer, answer.TimeRemaining)
		if err != nil {
			return 0, domain.PlayerSession{}, err
		}
		finalScore += score
	}

	session.Answers = answers
	session.TotalScore = finalScore
	session.GameState = domain.StateFinished
	session.FinishedAt = s.now()

	if err := s.sessions.Save(ctx, instanceID, session); err != nil {
		return 0, domain.PlayerSession{}, err
	}
	if err := s.recordCompletion(ctx, instanceID, session); err != nil {
		return 0, domain.PlayerSession{}, err
	}
	return finalScore, session, nil
}

// LeaderboardView is the board plus the caller's own standing when known.
type LeaderboardView struct {
	Entries     []domain.LeaderboardEntry
	PlayerRank  *int
	PlayerScore *int
}

// Leaderboard returns the top entries and, for a known user, their rank and
// session score.
func (s *GameService) Leaderboard(ctx context.Context, instanceID, userID string) (LeaderboardView, error) {
	entries, err := s.leaderboard.Top(ctx, instanceID, leaderboardLimit)
	if err != nil {
		return LeaderboardView{}, err
	}
	view := LeaderboardView{Entries: entries}

	if userID == "" {
		return view, nil
	}
	rank, ranked, err := s.leaderboard.Rank(ctx, instanceID, userID)
	if err != nil {
		return LeaderboardView{}, err
	}
	if ranked {
		view.PlayerRank = &rank
	}
	session, ok, err := s.sessions.Get(ctx, instanceID, userID)
	if err != nil {
		return LeaderboardView{}, err
	}
	if ok {
		score := session.TotalScore
		view.PlayerScore = &score
	}
	return view, nil
}

// AddQuestion appends a player-contributed question to the instance's deck,
// assigning it a fresh id, attribution, and a default time limit, and zeroes
// its community counters.
func (s *GameService) AddQuestion(ctx context.Context, instanceID, username string, question domain.Question) (domain.Question, error) {
	if msgs := validateQuestion(question); len(msgs) > 0 {
		return domain.Question{}, fmt.Errorf("%w: %s", domain.ErrValidation, msgs[0])
	}

	deck, err := s.decks.GetOrCreate(ctx, instanceID)
	if err != nil {
		return domain.Question{}, err
	}

	question.ID = "user_" + s.newID()
	question.AuthorUsername = username
	if question.TimeLimit <= 0 {
		question.TimeLimit = DefaultTimeLimit
	}
	if question.Type == "" {
		question.Type = domain.TypeMultipleChoice
	}

	deck.Questions = append(deck.Questions, question)
	if err := s.decks.Save(ctx, instanceID, deck); err != nil {
		return domain.Question{}, err
	}
	if err := s.stats.InitQuestion(ctx, instanceID, question); err != nil {
		return domain.Question{}, err
	}

	log.Printf("added question %s to deck for instance %s", question.ID, instanceID)
	return question, nil
}

// QuestionStatsForDeck reads counters for every deck question, skipping
// questions nobody has answered yet.
func (s *GameService) QuestionStatsForDeck(ctx context.Context, instanceID string, deck domain.Deck) ([]domain.QuestionStats, error) {
	var all []domain.QuestionStats
	for _, q := range deck.Questions {
		stats, err := s.stats.Stats(ctx, instanceID, q.ID, q.CardIDs())
		if err != nil {
			return nil, err
		}
		if stats.TotalResponses == 0 {
			continue
		}
		all = append(all, stats)
	}
	return all, nil
}

// playingSession loads the session and rejects anything not mid-game.
func (s *GameService) playingSession(ctx context.Context, instanceID, userID string) (domain.PlayerSession, error) {
	session, ok, err := s.sessions.Get(ctx, instanceID, userID)
	if err != nil {
		return domain.PlayerSession{}, err
	}
	if !ok {
		return domain.PlayerSession{}, domain.ErrNoActiveSession
	}
	switch session.GameState {
	case domain.StatePlaying:
		return session, nil
	case domain.StateFinished:
		return domain.PlayerSession{}, domain.ErrGameFinished
	default:
		return domain.PlayerSession{}, domain.ErrNoActiveSession
	}
}

// recordAndScore counts the answer into community stats and scores it against
// the post-update counters, so a player's own vote is part of the percentages
// they are scored on, matching replay semantics.
func (s *GameService) recordAndScore(ctx context.Context, instanceID string, mode domain.ScoringMode, question domain.Question, answer domain.AnswerValue, timeRemaining float64) (int, domain.QuestionStats, error) {
	if err := s.stats.RecordAnswer(ctx, instanceID, question.ID, answer); err != nil {
		return 0, domain.QuestionStats{}, err
	}
	stats, err := s.stats.Stats(ctx, instanceID, question.ID, question.CardIDs())
	if err != nil {
		return 0, domain.QuestionStats{}, err
	}
	return Score(mode, question, answer, stats, timeRemaining), stats, nil
}

// recordCompletion performs the single leaderboard upsert for a finished
// session and pushes the refreshed board to live watchers.
func (s *GameService) recordCompletion(ctx context.Context, instanceID string, session domain.PlayerSession) error {
	entry := domain.LeaderboardEntry{
		UserID:      session.UserID,
		Username:    session.Username,
		Score:       session.TotalScore,
		ScoringMode: session.ScoringMode,
		CompletedAt: session.FinishedAt,
	}
	if err := s.leaderboard.Upsert(ctx, instanceID, entry); err != nil {
		return err
	}
	log.Printf("user %s finished instance %s with score %d", session.UserID, instanceID, session.TotalScore)

	if s.hub != nil {
		entries, err := s.leaderboard.Top(ctx, instanceID, leaderboardLimit)
		if err != nil {
			return err
		}
		s.hub.Publish(instanceID, entries)
	}
	return nil
}

func validateAnswerShape(question domain.Question, answer domain.AnswerValue) error {
	switch question.Type {
	case domain.TypeSequence:
		if answer.Kind != domain.AnswerSequence {
			return fmt.Errorf("%w: question expects an ordered sequence of card ids", domain.ErrValidation)
		}
		if len(answer.CardIDs) < 2 {
			return fmt.Errorf("%w: sequence answer needs at least 2 cards", domain.ErrValidation)
		}
	default:
		if answer.Kind != domain.AnswerSingle || answer.CardID == "" {
			return fmt.Errorf("%w: question expects a single card id", domain.ErrValidation)
		}
	}
	return nil
}

func deckQuestion(deck domain.Deck, questionID string) (domain.Question, bool) {
	for _, q := range deck.Questions {
		if q.ID == questionID {
			return q, true
		}
	}
	return domain.Question{}, false
}
