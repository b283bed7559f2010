package http

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"kambaz-quiz-service/internal/app"
	"kambaz-quiz-service/internal/domain"
)

// WSHandler streams a quiz's attempt events to instructors over a websocket.
type WSHandler struct {
	attempts *app.AttemptService
	upgrader websocket.Upgrader
}

func NewWSHandler(attempts *app.AttemptService) *WSHandler {
	return &WSHandler{
		attempts: attempts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS subscribes before upgrading so permission and lookup failures are
// reported as plain HTTP errors.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	quizID := chi.URLParam(r, "quizId")

	events, cancel, err := h.attempts.Subscribe(r.Context(), user, quizID)
	if err != nil {
		writeError(w, err)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(outboundMessage[map[string]string]{Type: "subscribed", Payload: map[string]string{"quizId": quizID}}); err != nil {
		return
	}

	// Watchers never send anything; reading only detects the client going away.
	closeSignals := make(chan struct{})
	go func() {
		defer close(closeSignals)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			msg := outboundMessage[domain.AttemptEvent]{Type: string(event.Type), Payload: event}
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-closeSignals:
			return
		}
	}
}
