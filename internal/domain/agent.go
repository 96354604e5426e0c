// Package domain contains core domain types for the AgentHub application.
package domain

import (
	"time"
)

// Agent statuses shown in the catalog.
const (
	AgentStatusOnline  = "online"
	AgentStatusOffline = "offline"
)

// Agent represents a specialized AI agent listed in the marketplace catalog.
// Rows are created once at seed time; only UsesServed changes afterwards.
type Agent struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Domain        string    `json:"domain"`
	Icon          string    `json:"icon"`
	SystemPrompt  string    `json:"systemPrompt"`
	UsesServed    int       `json:"usesServed"`
	AvgResponseMs int       `json:"avgResponseMs"`
	IsVerified    bool      `json:"isVerified"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}
