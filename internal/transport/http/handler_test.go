package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"debate-dueler/internal/app"
	"debate-dueler/internal/domain"
	"debate-dueler/internal/infra/memory"
)

func sampleDeck() domain.Deck {
	return domain.Deck{
		ID:        "deck-1",
		Title:     "Sample",
		Theme:     "sample",
		CreatedBy: "system",
		CreatedAt: time.Unix(1700000000, 0).UTC(),
		Questions: []domain.Question{
			{
				ID:        "q1",
				Prompt:    "Pick the right card",
				Type:      domain.TypeMultipleChoice,
				TimeLimit: 20,
				Cards: []domain.GameCard{
					{ID: "a", Text: "Right", IsCorrect: true},
					{ID: "b", Text: "Wrong"},
				},
			},
			{
				ID:        "q2",
				Prompt:    "Order the steps",
				Type:      domain.TypeSequence,
				TimeLimit: 30,
				Cards: []domain.GameCard{
					{ID: "s1", Text: "first", SequenceOrder: 1},
					{ID: "s2", Text: "second", SequenceOrder: 2},
				},
			},
		},
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *app.LeaderboardHub) {
	t.Helper()
	loader := memory.NewStaticDeckLoader(map[string]domain.Deck{"sample": sampleDeck()})
	hub := app.NewLeaderboardHub()
	service := app.NewGameService(
		memory.NewDeckRepository(loader, "sample"),
		memory.NewSessionRepository(),
		memory.NewStatsRepository(),
		memory.NewLeaderboard(),
		hub,
	)
	server := httptest.NewServer(NewHandler(service, hub).Routes())
	t.Cleanup(server.Close)
	return server, hub
}

func doJSON(t *testing.T, method, url string, body interface{}, out interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u1")
	req.Header.Set("X-Username", "Alice")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp
}

func TestInitStartSubmitFlow(t *testing.T) {
	server, _ := newTestServer(t)

	var initResp struct {
		Status string      `json:"status"`
		Deck   domain.Deck `json:"deck"`
	}
	resp := doJSON(t, http.MethodGet, server.URL+"/api/init?instance=post-1", nil, &initResp)
	if resp.StatusCode != http.StatusOK || initResp.Status != "success" {
		t.Fatalf("init failed: %d %+v", resp.StatusCode, initResp)
	}
	if len(initResp.Deck.Questions) != 2 {
		t.Fatalf("expected the sample deck, got %+v", initResp.Deck)
	}

	var startResp struct {
		Status        string               `json:"status"`
		PlayerSession domain.PlayerSession `json:"playerSession"`
	}
	doJSON(t, http.MethodPost, server.URL+"/api/start?instance=post-1",
		map[string]any{"scoringMode": "trivia"}, &startResp)
	if startResp.PlayerSession.GameState != domain.StatePlaying {
		t.Fatalf("expected playing session, got %+v", startResp.PlayerSession)
	}

	var submitResp struct {
		Status            string `json:"status"`
		Score             int    `json:"score"`
		IsGameComplete    bool   `json:"isGameComplete"`
		NextQuestionIndex *int   `json:"nextQuestionIndex"`
	}
	doJSON(t, http.MethodPost, server.URL+"/api/submit-answer?instance=post-1",
		map[string]any{"answer": "a", "timeRemaining": 10}, &submitResp)
	if submitResp.Score != 150 || submitResp.IsGameComplete {
		t.Fatalf("expected 150 mid-game, got %+v", submitResp)
	}
	if submitResp.NextQuestionIndex == nil || *submitResp.NextQuestionIndex != 1 {
		t.Fatalf("expected next question 1, got %v", submitResp.NextQuestionIndex)
	}

	doJSON(t, http.MethodPost, server.URL+"/api/submit-answer?instance=post-1",
		map[string]any{"answer": []string{"s1", "s2"}, "timeRemaining": 0}, &submitResp)
	if !submitResp.IsGameComplete {
		t.Fatalf("expected completion, got %+v", submitResp)
	}

	var lbResp struct {
		Status      string                    `json:"status"`
		Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
		PlayerRank  *int                      `json:"playerRank"`
		PlayerScore *int                      `json:"playerScore"`
	}
	doJSON(t, http.MethodGet, server.URL+"/api/leaderboard?instance=post-1", nil, &lbResp)
	if len(lbResp.Leaderboard) != 1 || lbResp.Leaderboard[0].UserID != "u1" {
		t.Fatalf("expected Alice on the board, got %+v", lbResp.Leaderboard)
	}
	if lbResp.PlayerRank == nil || *lbResp.PlayerRank != 1 {
		t.Fatalf("expected rank 1, got %v", lbResp.PlayerRank)
	}
}

func TestCompleteGameEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	doJSON(t, http.MethodGet, server.URL+"/api/init?instance=post-1", nil, nil)
	doJSON(t, http.MethodPost, server.URL+"/api/start?instance=post-1",
		map[string]any{"scoringMode": "trivia"}, nil)

	var completeResp struct {
		Status     string               `json:"status"`
		FinalScore int                  `json:"finalScore"`
		Session    domain.PlayerSession `json:"session"`
	}
	doJSON(t, http.MethodPost, server.URL+"/api/complete-game?instance=post-1", map[string]any{
		"answers": []map[string]any{
			{"questionId": "q1", "answer": "a", "timeRemaining": 10},
			{"questionId": "q2", "answer": []string{"s1", "s2"}, "timeRemaining": 0},
		},
		// inflated claim must be ignored in favor of the recomputed score
		"totalScore": 99999,
	}, &completeResp)

	if completeResp.FinalScore != 250 {
		t.Fatalf("expected recomputed 250, got %d", completeResp.FinalScore)
	}
	if completeResp.Session.GameState != domain.StateFinished {
		t.Fatalf("expected finished session, got %+v", completeResp.Session)
	}
}

func TestErrorEnvelope(t *testing.T) {
	server, _ := newTestServer(t)

	var errResp struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	resp := doJSON(t, http.MethodPost, server.URL+"/api/submit-answer?instance=post-1",
		map[string]any{"answer": "a", "timeRemaining": 5}, &errResp)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without a session, got %d", resp.StatusCode)
	}
	if errResp.Status != "error" || errResp.Message == "" {
		t.Fatalf("expected error envelope, got %+v", errResp)
	}

	// missing instance parameter
	resp = doJSON(t, http.MethodGet, server.URL+"/api/init", nil, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without instance, got %d", resp.StatusCode)
	}
}

func TestAddQuestionEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	var addResp struct {
		Status     string `json:"status"`
		QuestionID string `json:"questionId"`
	}
	doJSON(t, http.MethodPost, server.URL+"/api/add-question?instance=post-1", map[string]any{
		"question": map[string]any{
			"prompt": "Best topping?",
			"cards": []map[string]any{
				{"id": "c1", "text": "Pepperoni"},
				{"id": "c2", "text": "Pineapple"},
			},
		},
	}, &addResp)
	if addResp.Status != "success" || addResp.QuestionID == "" {
		t.Fatalf("expected a fresh question id, got %+v", addResp)
	}

	var initResp struct {
		Deck domain.Deck `json:"deck"`
	}
	doJSON(t, http.MethodGet, server.URL+"/api/init?instance=post-1", nil, &initResp)
	last := initResp.Deck.Questions[len(initResp.Deck.Questions)-1]
	if last.ID != addResp.QuestionID || last.AuthorUsername != "Alice" {
		t.Fatalf("expected appended question with attribution, got %+v", last)
	}
}
