package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/agenthub-labs/agenthub/internal/domain"
)

// ListTransactions handles GET /api/transactions?limit=.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := h.repo.RecentTransactions(r.Context(), limitParam(r))
	if err != nil {
		slog.Error("Failed to list transactions", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}
	if txns == nil {
		txns = []*domain.Transaction{}
	}
	JSON(w, http.StatusOK, txns)
}

// ListDecisionLogs handles GET /api/decision-logs?limit=.
func (h *Handler) ListDecisionLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.repo.RecentDecisionLogs(r.Context(), limitParam(r))
	if err != nil {
		slog.Error("Failed to list decision logs", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to fetch decision logs")
		return
	}
	if logs == nil {
		logs = []*domain.DecisionLog{}
	}
	JSON(w, http.StatusOK, logs)
}

func limitParam(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return defaultLedgerLimit
	}
	return limit
}
