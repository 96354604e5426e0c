package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agenthub-labs/agenthub/internal/domain"
	"github.com/agenthub-labs/agenthub/internal/store"
)

// ListConversations handles GET /api/conversations.
func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	convs, err := h.repo.ListConversations(r.Context())
	if err != nil {
		slog.Error("Failed to list conversations", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to fetch conversations")
		return
	}
	if convs == nil {
		convs = []*domain.Conversation{}
	}
	JSON(w, http.StatusOK, convs)
}

// CreateConversation handles POST /api/conversations.
func (h *Handler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req struct {
		Title  string `json:"title"`
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conv := &domain.Conversation{
		UserID: req.UserID,
		Title:  req.Title,
	}
	if err := h.repo.CreateConversation(r.Context(), conv); err != nil {
		slog.Error("Failed to create conversation", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to create conversation")
		return
	}

	JSON(w, http.StatusOK, conv)
}

// ListMessages handles GET /api/conversations/{id}/messages.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.repo.GetConversation(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			Error(w, http.StatusNotFound, "Conversation not found")
			return
		}
		slog.Error("Failed to fetch conversation", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}

	msgs, err := h.repo.ListMessages(r.Context(), id)
	if err != nil {
		slog.Error("Failed to list messages", "error", err, "conversation_id", id)
		Error(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}
	if msgs == nil {
		msgs = []*domain.Message{}
	}
	JSON(w, http.StatusOK, msgs)
}
