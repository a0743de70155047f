package http

import (
	"log"
	"net/http"
	"time"

	"debate-dueler/internal/domain"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type wsMessage struct {
	Type    string             `json:"type"`
	Payload domain.Leaderboard `json:"payload"`
}

// serveLeaderboardWS streams leaderboard snapshots to a watcher: one snapshot
// on connect, then one whenever any player finishes a game on the instance.
func (h *Handler) serveLeaderboardWS(w http.ResponseWriter, r *http.Request) {
	instanceID := r.URL.Query().Get("instance")
	if instanceID == "" {
		http.Error(w, "instance is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	view, err := h.service.Leaderboard(r.Context(), instanceID, "")
	if err != nil {
		log.Printf("ws initial leaderboard: %v", err)
		return
	}

	updates, cancel := h.hub.Subscribe(instanceID)
	defer cancel()

	initial := domain.Leaderboard{
		InstanceID: instanceID,
		Entries:    view.Entries,
		UpdatedAt:  time.Now(),
	}
	if err := conn.WriteJSON(wsMessage{Type: "leaderboard", Payload: initial}); err != nil {
		return
	}

	// the reader only detects disconnects; clients never send payloads
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for update := range updates {
		if err := conn.WriteJSON(wsMessage{Type: "leaderboard", Payload: update}); err != nil {
			return
		}
	}
}
