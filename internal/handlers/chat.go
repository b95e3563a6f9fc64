package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"vignan-assistant-backend/internal/middleware"
	"vignan-assistant-backend/internal/models"
	"vignan-assistant-backend/internal/services"
)

const serviceName = "Vignan AI Assistant"

type assistant interface {
	GenerateResponse(ctx context.Context, message, role string, userData map[string]any) string
	Active() services.ActiveProvider
}

type ChatHandler struct {
	assistant assistant
	limiter   middleware.Limiter
	now       func() time.Time
}

// NewChatHandler wires the assistant. limiter, when non-nil, is charged once per websocket
// frame; plain HTTP requests are charged by the RateLimit middleware instead.
func NewChatHandler(a assistant, limiter middleware.Limiter) *ChatHandler {
	return &ChatHandler{assistant: a, limiter: limiter, now: time.Now}
}

func (h *ChatHandler) timestamp() string {
	return h.now().UTC().Format(time.RFC3339Nano)
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message is required", r))
		return
	}

	writeJSON(w, http.StatusOK, h.answer(r.Context(), req))
}

func (h *ChatHandler) answer(ctx context.Context, req models.ChatRequest) models.ChatResponse {
	if req.Role == "" {
		req.Role = services.DefaultRole
	}

	if portalUser := middleware.GetPortalUserID(ctx); portalUser != "" {
		log.Printf("🤖 Received query from %s (portal user %s)", req.Role, portalUser)
	} else {
		log.Printf("🤖 Received query from %s", req.Role)
	}

	reply := h.assistant.GenerateResponse(ctx, req.Message, req.Role, req.UserData)

	return models.ChatResponse{
		Success:   true,
		Response:  reply,
		Timestamp: h.timestamp(),
	}
}

func (h *ChatHandler) Health(w http.ResponseWriter, r *http.Request) {
	active := h.assistant.Active()
	provider := string(active.Name)
	if active.IsNone() {
		provider = "local"
	}

	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Service:   serviceName,
		Provider:  provider,
		Model:     active.Model,
		Timestamp: h.timestamp(),
	})
}

func (h *ChatHandler) Provider(w http.ResponseWriter, r *http.Request) {
	active := h.assistant.Active()
	if active.IsNone() {
		writeJSON(w, http.StatusOK, models.ProviderResponse{Provider: "local"})
		return
	}
	writeJSON(w, http.StatusOK, models.ProviderResponse{Provider: string(active.Name), Model: active.Model})
}

func (h *ChatHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": serviceName + " Server is Running!"})
}
