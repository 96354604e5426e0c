package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agenthub-labs/agenthub/internal/domain"
	"github.com/agenthub-labs/agenthub/internal/feed"
	"github.com/agenthub-labs/agenthub/internal/ledger"
	"github.com/agenthub-labs/agenthub/internal/store"
)

// ListAgents handles GET /api/agents.
func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.repo.ListAgents(r.Context())
	if err != nil {
		slog.Error("Failed to list agents", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to fetch agents")
		return
	}
	if agents == nil {
		agents = []*domain.Agent{}
	}
	JSON(w, http.StatusOK, agents)
}

// GetAgent handles GET /api/agents/{id}.
func (h *Handler) GetAgent(w http.ResponseWriter, r *http.Request) {
	agent, err := h.repo.GetAgent(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		Error(w, http.StatusNotFound, "Agent not found")
		return
	}
	if err != nil {
		slog.Error("Failed to fetch agent", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to fetch agent")
		return
	}
	JSON(w, http.StatusOK, agent)
}

// DeployAgent handles POST /api/agents/{id}/deploy. Deployment is part of
// the demo's fiction: it writes a decision log and hands back a tx hash.
func (h *Handler) DeployAgent(w http.ResponseWriter, r *http.Request) {
	agent, err := h.repo.GetAgent(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		Error(w, http.StatusNotFound, "Agent not found")
		return
	}
	if err != nil {
		slog.Error("Failed to fetch agent for deploy", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to deploy agent")
		return
	}

	details, _ := json.Marshal(map[string]string{
		"deployedAt": time.Now().UTC().Format(time.RFC3339),
	})
	log := &domain.DecisionLog{
		AgentID:   agent.ID,
		AgentName: agent.Name,
		Action:    "Agent deployed to workspace",
		Details:   string(details),
		TxHash:    ledger.TruncateTxHash(ledger.GenerateTxHash()),
		Status:    domain.StatusConfirmed,
	}
	if err := h.repo.CreateDecisionLog(r.Context(), log); err != nil {
		slog.Error("Failed to record deployment", "error", err, "agent", agent.Name)
		Error(w, http.StatusInternalServerError, "Failed to deploy agent")
		return
	}

	if h.hub != nil {
		h.hub.Publish(feed.EventDecisionLog, log)
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("%s deployed successfully", agent.Name),
		"txHash":  log.TxHash,
	})
}
