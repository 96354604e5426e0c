package api

import (
	"fmt"
	"log/slog"
	"net/http"
)

// metricsSampleSize bounds the ledger scan behind the metrics endpoint.
const metricsSampleSize = 1000

// Metrics handles GET /api/metrics: aggregate marketplace figures shown on
// the landing dashboard. The static values are marketing copy for the
// simulated platform, not measurements.
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	agents, err := h.repo.ListAgents(r.Context())
	if err != nil {
		slog.Error("Failed to compute metrics", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to fetch metrics")
		return
	}
	txns, err := h.repo.RecentTransactions(r.Context(), metricsSampleSize)
	if err != nil {
		slog.Error("Failed to compute metrics", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to fetch metrics")
		return
	}

	totalUsesServed := 0
	domains := make(map[string]struct{})
	for _, a := range agents {
		totalUsesServed += a.UsesServed
		domains[a.Domain] = struct{}{}
	}
	totalCost := float64(len(txns)) * 0.004

	JSON(w, http.StatusOK, map[string]interface{}{
		"systemLayers":      7,
		"specializedAgents": len(agents),
		"agentDomains":      len(domains),
		"throughput":        "1000+ TPS",
		"costPerService":    "~$0.004",
		"platformFee":       "10%",
		"onChain":           "100%",
		"totalUsesServed":   totalUsesServed,
		"totalTransactions": len(txns),
		"totalCost":         fmt.Sprintf("$%.3f", totalCost),
	})
}
