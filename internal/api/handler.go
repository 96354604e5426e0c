// Package api provides HTTP handlers for the AgentHub API.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agenthub-labs/agenthub/internal/chat"
	"github.com/agenthub-labs/agenthub/internal/config"
	"github.com/agenthub-labs/agenthub/internal/feed"
	"github.com/agenthub-labs/agenthub/internal/store"
)

// maxRequestBodySize caps JSON request bodies (1MB).
const maxRequestBodySize = 1 << 20

// defaultLedgerLimit is the page size for ledger listings when the caller
// does not pass ?limit=.
const defaultLedgerLimit = 20

// Handler serves the AgentHub REST API.
type Handler struct {
	repo    store.Repository
	chat    *chat.Service
	hub     *feed.Hub
	limiter *RateLimiter
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Repository, chatSvc *chat.Service, hub *feed.Hub, cfg *config.Config) *Handler {
	return &Handler{
		repo:    repo,
		chat:    chatSvc,
		hub:     hub,
		limiter: NewRateLimiter(cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.WindowDuration),
	}
}

// RegisterRoutes registers all REST routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/agents", h.ListAgents)
		r.Get("/agents/{id}", h.GetAgent)
		r.Post("/agents/{id}/deploy", h.DeployAgent)
		r.Get("/conversations", h.ListConversations)
		r.Post("/conversations", h.CreateConversation)
		r.Get("/conversations/{id}/messages", h.ListMessages)
		r.Post("/chat", h.Chat)
		r.Get("/transactions", h.ListTransactions)
		r.Get("/decision-logs", h.ListDecisionLogs)
		r.Get("/metrics", h.Metrics)
		r.Get("/blockchain/network-status", h.NetworkStatus)
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
