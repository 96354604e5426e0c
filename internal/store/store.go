// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"errors"

	"github.com/agenthub-labs/agenthub/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Turn bundles the per-turn writes committed atomically by RecordTurn.
type Turn struct {
	// UserMessage and AgentMessage are inserted in that order.
	UserMessage  *domain.Message
	AgentMessage *domain.Message

	// Decision is the audit record accompanying the agent message.
	Decision *domain.DecisionLog

	// IncrementAgentID, when non-empty, bumps uses_served for that agent
	// within the same transaction. The AgentHub fallback persona has no
	// catalog row and leaves this empty.
	IncrementAgentID string
}

// Repository defines the interface for persisting catalog, conversation,
// and ledger data.
type Repository interface {
	// ListAgents returns all catalog agents.
	ListAgents(ctx context.Context) ([]*domain.Agent, error)

	// GetAgent retrieves an agent by id. Returns ErrNotFound if absent.
	GetAgent(ctx context.Context, id string) (*domain.Agent, error)

	// GetAgentByName retrieves an agent by its unique name.
	// Returns ErrNotFound if absent.
	GetAgentByName(ctx context.Context, name string) (*domain.Agent, error)

	// CreateAgent inserts a catalog agent, assigning ID and CreatedAt
	// when unset.
	CreateAgent(ctx context.Context, agent *domain.Agent) error

	// IncrementAgentUses bumps the uses_served counter for an agent.
	// Last-write-wins under concurrency; the counter is a display metric.
	IncrementAgentUses(ctx context.Context, id string) error

	// SeedAgents populates the fixed catalog when the agents table is
	// empty. Idempotent: a non-empty table is left untouched. Returns the
	// number of rows inserted.
	SeedAgents(ctx context.Context) (int, error)

	// ListConversations returns conversations, most recently updated first.
	ListConversations(ctx context.Context) ([]*domain.Conversation, error)

	// GetConversation retrieves a conversation by id.
	// Returns ErrNotFound if absent.
	GetConversation(ctx context.Context, id string) (*domain.Conversation, error)

	// CreateConversation inserts a conversation, assigning ID and
	// timestamps when unset.
	CreateConversation(ctx context.Context, conv *domain.Conversation) error

	// ListMessages returns a conversation's messages in creation order.
	ListMessages(ctx context.Context, conversationID string) ([]*domain.Message, error)

	// RecordTurn commits one chat turn (both messages, the decision log,
	// and the optional usage increment) in a single transaction so a
	// failure never leaves a half-recorded turn.
	RecordTurn(ctx context.Context, turn Turn) error

	// CreateTransaction inserts a simulated micropayment record.
	CreateTransaction(ctx context.Context, tx *domain.Transaction) error

	// RecentTransactions returns up to limit transactions, newest first.
	RecentTransactions(ctx context.Context, limit int) ([]*domain.Transaction, error)

	// CreateDecisionLog inserts an audit record.
	CreateDecisionLog(ctx context.Context, log *domain.DecisionLog) error

	// RecentDecisionLogs returns up to limit decision logs, newest first.
	RecentDecisionLogs(ctx context.Context, limit int) ([]*domain.DecisionLog, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
