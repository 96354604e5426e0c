package domain

import (
	"time"
)

// Ledger record statuses. The simulated ledger marks everything confirmed
// as soon as it is written; "pending" exists only for display variety.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
)

// LayerHydra tags simulated micropayments as Hydra Layer 2 settlements.
const LayerHydra = "hydra"

// Transaction is a cosmetic micropayment record created once per chat turn.
// It carries no real monetary meaning; TxHash is a random token.
type Transaction struct {
	ID            string    `json:"id"`
	FromAgentID   string    `json:"fromAgentId,omitempty"`
	ToAgentID     string    `json:"toAgentId,omitempty"`
	FromAgentName string    `json:"fromAgentName"`
	ToAgentName   string    `json:"toAgentName"`
	Amount        string    `json:"amount"`
	TxHash        string    `json:"txHash"`
	Status        string    `json:"status"`
	Layer         string    `json:"layer"`
	CreatedAt     time.Time `json:"createdAt"`
}

// DecisionLog records which persona handled which action, independent of
// the transaction record.
type DecisionLog struct {
	ID             string    `json:"id"`
	AgentID        string    `json:"agentId,omitempty"`
	AgentName      string    `json:"agentName"`
	Action         string    `json:"action"`
	Details        string    `json:"details,omitempty"`
	TxHash         string    `json:"txHash"`
	Status         string    `json:"status"`
	ConversationID string    `json:"conversationId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}
