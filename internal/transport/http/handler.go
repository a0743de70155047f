package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"debate-dueler/internal/app"
	"debate-dueler/internal/domain"
)

// Handler exposes the game service as a JSON API. Identity is explicit on
// every request: the instance travels in the "instance" query parameter and
// the user in the X-User-ID / X-Username headers (no ambient request state).
type Handler struct {
	service *app.GameService
	hub     *app.LeaderboardHub
}

func NewHandler(service *app.GameService, hub *app.LeaderboardHub) *Handler {
	return &Handler{service: service, hub: hub}
}

// Routes wires the API surface onto a mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/init", h.handleInit)
	mux.HandleFunc("/api/start", h.handleStart)
	mux.HandleFunc("/api/submit-answer", h.handleSubmitAnswer)
	mux.HandleFunc("/api/complete-game", h.handleCompleteGame)
	mux.HandleFunc("/api/leaderboard", h.handleLeaderboard)
	mux.HandleFunc("/api/add-question", h.handleAddQuestion)
	mux.HandleFunc("/ws/leaderboard", h.serveLeaderboardWS)
	return mux
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type initResponse struct {
	Status        string                 `json:"status"`
	Deck          domain.Deck            `json:"deck"`
	PlayerSession *domain.PlayerSession  `json:"playerSession"`
	QuestionStats []domain.QuestionStats `json:"allQuestionStats,omitempty"`
	PlayerRank    *int                   `json:"playerRank"`
}

func (h *Handler) handleInit(w http.ResponseWriter, r *http.Request) {
	instanceID, ok := requireInstance(w, r)
	if !ok {
		return
	}

	result, err := h.service.Init(r.Context(), instanceID, r.Header.Get("X-User-ID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, initResponse{
		Status:        "success",
		Deck:          result.Deck,
		PlayerSession: result.Session,
		QuestionStats: result.Stats,
		PlayerRank:    result.PlayerRank,
	})
}

type startRequest struct {
	ScoringMode domain.ScoringMode `json:"scoringMode"`
}

type startResponse struct {
	Status        string               `json:"status"`
	PlayerSession domain.PlayerSession `json:"playerSession"`
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	instanceID, userID, username, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req startRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := h.service.Start(r.Context(), instanceID, userID, username, req.ScoringMode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, startResponse{Status: "success", PlayerSession: session})
}

type submitAnswerRequest struct {
	Answer        domain.AnswerValue `json:"answer"`
	TimeRemaining float64            `json:"timeRemaining"`
}

type submitAnswerResponse struct {
	Status            string               `json:"status"`
	Score             int                  `json:"score"`
	QuestionStats     domain.QuestionStats `json:"questionStats"`
	IsGameComplete    bool                 `json:"isGameComplete"`
	NextQuestionIndex *int                 `json:"nextQuestionIndex,omitempty"`
}

func (h *Handler) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	instanceID, userID, _, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req submitAnswerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.service.SubmitAnswer(r.Context(), instanceID, userID, req.Answer, req.TimeRemaining)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := submitAnswerResponse{
		Status:         "success",
		Score:          result.Score,
		QuestionStats:  result.Stats,
		IsGameComplete: result.GameComplete,
	}
	if !result.GameComplete {
		next := result.NextQuestionIndex
		resp.NextQuestionIndex = &next
	}
	writeJSON(w, resp)
}

type completeGameRequest struct {
	Answers []domain.PlayerAnswer `json:"answers"`
	// TotalScore is the client's optimistic estimate; the server recomputes
	// the authoritative score and ignores this value.
	TotalScore int `json:"totalScore"`
}

type completeGameResponse struct {
	Status     string               `json:"status"`
	FinalScore int                  `json:"finalScore"`
	Session    domain.PlayerSession `json:"session"`
}

func (h *Handler) handleCompleteGame(w http.ResponseWriter, r *http.Request) {
	instanceID, userID, _, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req completeGameRequest
	if !decodeBody(w, r, &req) {
		return
	}

	finalScore, session, err := h.service.CompleteGame(r.Context(), instanceID, userID, req.Answers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, completeGameResponse{Status: "success", FinalScore: finalScore, Session: session})
}

type leaderboardResponse struct {
	Status      string                    `json:"status"`
	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
	PlayerRank  *int                      `json:"playerRank"`
	PlayerScore *int                      `json:"playerScore"`
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	instanceID, ok := requireInstance(w, r)
	if !ok {
		return
	}

	view, err := h.service.Leaderboard(r.Context(), instanceID, r.Header.Get("X-User-ID"))
	if err != nil {
		writeError(w, err)
		return
	}
	entries := view.Entries
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	writeJSON(w, leaderboardResponse{
		Status:      "success",
		Leaderboard: entries,
		PlayerRank:  view.PlayerRank,
		PlayerScore: view.PlayerScore,
	})
}

type addQuestionRequest struct {
	Question domain.Question `json:"question"`
}

type addQuestionResponse struct {
	Status     string `json:"status"`
	QuestionID string `json:"questionId"`
}

func (h *Handler) handleAddQuestion(w http.ResponseWriter, r *http.Request) {
	instanceID, _, username, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req addQuestionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	question, err := h.service.AddQuestion(r.Context(), instanceID, username, req.Question)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, addQuestionResponse{Status: "success", QuestionID: question.ID})
}

func requireInstance(w http.ResponseWriter, r *http.Request) (string, bool) {
	instanceID := r.URL.Query().Get("instance")
	if instanceID == "" {
		writeStatusError(w, http.StatusBadRequest, "instance is required")
		return "", false
	}
	return instanceID, true
}

func requireIdentity(w http.ResponseWriter, r *http.Request) (instanceID, userID, username string, ok bool) {
	instanceID, ok = requireInstance(w, r)
	if !ok {
		return "", "", "", false
	}
	userID = r.Header.Get("X-User-ID")
	username = r.Header.Get("X-Username")
	if userID == "" || username == "" {
		writeStatusError(w, http.StatusBadRequest, "must be logged in to play")
		return "", "", "", false
	}
	return instanceID, userID, username, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeStatusError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeStatusError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDeckNotFound), errors.Is(err, domain.ErrQuestionNotFound):
		writeStatusError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNoActiveSession):
		writeStatusError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrGameFinished):
		writeStatusError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeStatusError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeStatusError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Status: "error", Message: message})
}
