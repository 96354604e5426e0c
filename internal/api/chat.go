package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/agenthub-labs/agenthub/internal/chat"
	"github.com/agenthub-labs/agenthub/internal/store"
)

// Chat handles POST /api/chat: one full turn through the pipeline.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(r.RemoteAddr) {
		Error(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req chat.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ConversationID == "" || req.Message == "" {
		Error(w, http.StatusBadRequest, "conversationId and message are required")
		return
	}

	result, err := h.chat.ProcessTurn(r.Context(), req)
	if errors.Is(err, store.ErrNotFound) {
		Error(w, http.StatusNotFound, "Conversation not found")
		return
	}
	if err != nil {
		slog.Error("Chat turn failed", "error", err, "conversation_id", req.ConversationID)
		Error(w, http.StatusInternalServerError, "Failed to process chat message")
		return
	}

	JSON(w, http.StatusOK, result)
}
