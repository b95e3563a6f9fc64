package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"vignan-assistant-backend/internal/middleware"
	"vignan-assistant-backend/internal/models"
)

const maxFrameBytes = 64 * 1024

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ChatSocket answers one ChatRequest frame at a time over a websocket. Frames are independent.
func (h *ChatHandler) ChatSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxFrameBytes)

	sessionID := uuid.New()
	log.Printf("WebSocket chat connected: %s", sessionID)
	defer log.Printf("WebSocket chat disconnected: %s", sessionID)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var req models.ChatRequest
		if err := json.Unmarshal(data, &req); err != nil {
			if err := conn.WriteJSON(errorResp("VALIDATION_ERROR", "Invalid request body", r)); err != nil {
				return
			}
			continue
		}
		if strings.TrimSpace(req.Message) == "" {
			if err := conn.WriteJSON(errorResp("VALIDATION_ERROR", "Message is required", r)); err != nil {
				return
			}
			continue
		}

		if !h.allowFrame(r) {
			if err := conn.WriteJSON(errorResp("RATE_LIMITED", "Too many requests. Please try again later.", r)); err != nil {
				return
			}
			continue
		}

		if err := conn.WriteJSON(h.answer(r.Context(), req)); err != nil {
			return
		}
	}
}

// allowFrame charges one frame against the client's chat budget. Limiter errors let it through.
func (h *ChatHandler) allowFrame(r *http.Request) bool {
	if h.limiter == nil {
		return true
	}
	ok, err := h.limiter.Allow(r.Context(), middleware.ClientKey(r))
	if err != nil {
		log.Printf("[ratelimit] limiter error, allowing frame: %v", err)
		return true
	}
	return ok
}
