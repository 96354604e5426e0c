package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/agenthub-labs/agenthub/internal/domain"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS agents (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL,
		domain TEXT NOT NULL,
		icon TEXT NOT NULL,
		system_prompt TEXT NOT NULL,
		uses_served INTEGER NOT NULL DEFAULT 0,
		avg_response_ms INTEGER NOT NULL DEFAULT 1000,
		is_verified INTEGER NOT NULL DEFAULT 1,
		status TEXT NOT NULL DEFAULT 'online',
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		user_id TEXT,
		title TEXT NOT NULL DEFAULT 'New Conversation',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_conversations_updated ON conversations(updated_at);

	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL REFERENCES conversations(id),
		sender TEXT NOT NULL,
		agent_id TEXT,
		agent_name TEXT,
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at);

	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		from_agent_id TEXT,
		to_agent_id TEXT,
		from_agent_name TEXT NOT NULL,
		to_agent_name TEXT NOT NULL,
		amount TEXT NOT NULL DEFAULT '0.004',
		tx_hash TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		layer TEXT NOT NULL DEFAULT 'hydra',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_created ON transactions(created_at);

	CREATE TABLE IF NOT EXISTS decision_logs (
		id TEXT PRIMARY KEY,
		agent_id TEXT,
		agent_name TEXT NOT NULL,
		action TEXT NOT NULL,
		details TEXT,
		tx_hash TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		conversation_id TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_decision_logs_created ON decision_logs(created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

const agentColumns = `id, name, description, domain, icon, system_prompt,
	uses_served, avg_response_ms, is_verified, status, created_at`

func scanAgent(row interface{ Scan(...any) error }) (*domain.Agent, error) {
	var agent domain.Agent
	var isVerified int
	var createdAt int64

	err := row.Scan(
		&agent.ID, &agent.Name, &agent.Description, &agent.Domain,
		&agent.Icon, &agent.SystemPrompt, &agent.UsesServed,
		&agent.AvgResponseMs, &isVerified, &agent.Status, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	agent.IsVerified = isVerified != 0
	agent.CreatedAt = time.Unix(createdAt, 0)
	return &agent, nil
}

// ListAgents returns all catalog agents.
func (s *SQLiteStore) ListAgents(ctx context.Context) ([]*domain.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query agents: %w", err)
	}
	defer closeRows(rows, "agents")

	var agents []*domain.Agent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan agent row: %w", err)
		}
		agents = append(agents, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agents: %w", err)
	}

	return agents, nil
}

// GetAgent retrieves an agent by id.
func (s *SQLiteStore) GetAgent(ctx context.Context, id string) (*domain.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE id = ?`

	agent, err := scanAgent(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan agent row: %w", err)
	}
	return agent, nil
}

// GetAgentByName retrieves an agent by its unique name.
func (s *SQLiteStore) GetAgentByName(ctx context.Context, name string) (*domain.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE name = ?`

	agent, err := scanAgent(s.db.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan agent row: %w", err)
	}
	return agent, nil
}

// CreateAgent inserts a catalog agent.
func (s *SQLiteStore) CreateAgent(ctx context.Context, agent *domain.Agent) error {
	fillID(&agent.ID)
	if agent.CreatedAt.IsZero() {
		agent.CreatedAt = time.Now()
	}
	if agent.Status == "" {
		agent.Status = domain.AgentStatusOnline
	}

	query := `
	INSERT INTO agents (id, name, description, domain, icon, system_prompt,
		uses_served, avg_response_ms, is_verified, status, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		agent.ID, agent.Name, agent.Description, agent.Domain, agent.Icon,
		agent.SystemPrompt, agent.UsesServed, agent.AvgResponseMs,
		boolToInt(agent.IsVerified), agent.Status, agent.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert agent: %w", err)
	}
	return nil
}

// IncrementAgentUses bumps the uses_served counter for an agent.
func (s *SQLiteStore) IncrementAgentUses(ctx context.Context, id string) error {
	query := `UPDATE agents SET uses_served = uses_served + 1 WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment uses_served: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		slog.Warn("IncrementAgentUses affected 0 rows", "agent_id", id)
	}
	return nil
}

// ListConversations returns conversations, most recently updated first.
func (s *SQLiteStore) ListConversations(ctx context.Context) ([]*domain.Conversation, error) {
	query := `
		SELECT id, user_id, title, created_at, updated_at
		FROM conversations ORDER BY updated_at DESC, rowid DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer closeRows(rows, "conversations")

	var convs []*domain.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversation row: %w", err)
		}
		convs = append(convs, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}

	return convs, nil
}

func scanConversation(row interface{ Scan(...any) error }) (*domain.Conversation, error) {
	var conv domain.Conversation
	var userID sql.NullString
	var createdAt, updatedAt int64

	err := row.Scan(&conv.ID, &userID, &conv.Title, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	conv.UserID = userID.String
	conv.CreatedAt = time.Unix(createdAt, 0)
	conv.UpdatedAt = time.Unix(updatedAt, 0)
	return &conv, nil
}

// GetConversation retrieves a conversation by id.
func (s *SQLiteStore) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	query := `
		SELECT id, user_id, title, created_at, updated_at
		FROM conversations WHERE id = ?`

	conv, err := scanConversation(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan conversation row: %w", err)
	}
	return conv, nil
}

// CreateConversation inserts a conversation.
func (s *SQLiteStore) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	fillID(&conv.ID)
	now := time.Now()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = now
	}
	if conv.UpdatedAt.IsZero() {
		conv.UpdatedAt = conv.CreatedAt
	}
	if conv.Title == "" {
		conv.Title = "New Conversation"
	}

	query := `
	INSERT INTO conversations (id, user_id, title, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		conv.ID, nullIfEmpty(conv.UserID), conv.Title,
		conv.CreatedAt.Unix(), conv.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}
	return nil
}

const messageColumns = `id, conversation_id, sender, agent_id, agent_name, content, created_at`

func scanMessage(row interface{ Scan(...any) error }) (*domain.Message, error) {
	var msg domain.Message
	var agentID, agentName sql.NullString
	var createdAt int64

	err := row.Scan(
		&msg.ID, &msg.ConversationID, &msg.Sender,
		&agentID, &agentName, &msg.Content, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	msg.AgentID = agentID.String
	msg.AgentName = agentName.String
	msg.CreatedAt = time.Unix(createdAt, 0)
	return &msg, nil
}

// ListMessages returns a conversation's messages in creation order.
// Ties on created_at (user and agent message of the same turn land within
// the same second) are broken by insertion order.
func (s *SQLiteStore) ListMessages(ctx context.Context, conversationID string) ([]*domain.Message, error) {
	query := `
		SELECT ` + messageColumns + ` FROM messages
		WHERE conversation_id = ? ORDER BY created_at, rowid`

	rows, err := s.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer closeRows(rows, "messages")

	var msgs []*domain.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return msgs, nil
}

// RecordTurn commits one chat turn in a single transaction.
func (s *SQLiteStore) RecordTurn(ctx context.Context, turn Turn) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin turn transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			slog.Warn("failed to roll back turn transaction", "error", rbErr)
		}
	}()

	now := time.Now()
	for _, msg := range []*domain.Message{turn.UserMessage, turn.AgentMessage} {
		fillID(&msg.ID)
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = now
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO messages (id, conversation_id, sender, agent_id, agent_name, content, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			msg.ID, msg.ConversationID, msg.Sender,
			nullIfEmpty(msg.AgentID), nullIfEmpty(msg.AgentName),
			msg.Content, msg.CreatedAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("insert %s message: %w", msg.Sender, err)
		}
	}

	log := turn.Decision
	fillID(&log.ID)
	if log.CreatedAt.IsZero() {
		log.CreatedAt = now
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO decision_logs (id, agent_id, agent_name, action, details, tx_hash, status, conversation_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID, nullIfEmpty(log.AgentID), log.AgentName, log.Action,
		nullIfEmpty(log.Details), log.TxHash, log.Status,
		nullIfEmpty(log.ConversationID), log.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert decision log: %w", err)
	}

	if turn.IncrementAgentID != "" {
		_, err = tx.ExecContext(ctx,
			`UPDATE agents SET uses_served = uses_served + 1 WHERE id = ?`,
			turn.IncrementAgentID,
		)
		if err != nil {
			return fmt.Errorf("increment uses_served: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE conversations SET updated_at = ? WHERE id = ?`,
		now.Unix(), turn.UserMessage.ConversationID,
	)
	if err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit turn transaction: %w", err)
	}
	return nil
}

// CreateTransaction inserts a simulated micropayment record.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, txn *domain.Transaction) error {
	fillID(&txn.ID)
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}

	query := `
	INSERT INTO transactions (id, from_agent_id, to_agent_id, from_agent_name,
		to_agent_name, amount, tx_hash, status, layer, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		txn.ID, nullIfEmpty(txn.FromAgentID), nullIfEmpty(txn.ToAgentID),
		txn.FromAgentName, txn.ToAgentName, txn.Amount, txn.TxHash,
		txn.Status, txn.Layer, txn.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// RecentTransactions returns up to limit transactions, newest first.
func (s *SQLiteStore) RecentTransactions(ctx context.Context, limit int) ([]*domain.Transaction, error) {
	query := `
		SELECT id, from_agent_id, to_agent_id, from_agent_name, to_agent_name,
		       amount, tx_hash, status, layer, created_at
		FROM transactions ORDER BY created_at DESC, rowid DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer closeRows(rows, "transactions")

	var txns []*domain.Transaction
	for rows.Next() {
		var txn domain.Transaction
		var fromID, toID sql.NullString
		var createdAt int64

		if err := rows.Scan(
			&txn.ID, &fromID, &toID, &txn.FromAgentName, &txn.ToAgentName,
			&txn.Amount, &txn.TxHash, &txn.Status, &txn.Layer, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}

		txn.FromAgentID = fromID.String
		txn.ToAgentID = toID.String
		txn.CreatedAt = time.Unix(createdAt, 0)
		txns = append(txns, &txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return txns, nil
}

// CreateDecisionLog inserts an audit record.
func (s *SQLiteStore) CreateDecisionLog(ctx context.Context, log *domain.DecisionLog) error {
	fillID(&log.ID)
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	query := `
	INSERT INTO decision_logs (id, agent_id, agent_name, action, details,
		tx_hash, status, conversation_id, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		log.ID, nullIfEmpty(log.AgentID), log.AgentName, log.Action,
		nullIfEmpty(log.Details), log.TxHash, log.Status,
		nullIfEmpty(log.ConversationID), log.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert decision log: %w", err)
	}
	return nil
}

// RecentDecisionLogs returns up to limit decision logs, newest first.
func (s *SQLiteStore) RecentDecisionLogs(ctx context.Context, limit int) ([]*domain.DecisionLog, error) {
	query := `
		SELECT id, agent_id, agent_name, action, details, tx_hash, status,
		       conversation_id, created_at
		FROM decision_logs ORDER BY created_at DESC, rowid DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query decision logs: %w", err)
	}
	defer closeRows(rows, "decision logs")

	var logs []*domain.DecisionLog
	for rows.Next() {
		var log domain.DecisionLog
		var agentID, details, conversationID sql.NullString
		var createdAt int64

		if err := rows.Scan(
			&log.ID, &agentID, &log.AgentName, &log.Action, &details,
			&log.TxHash, &log.Status, &conversationID, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan decision log row: %w", err)
		}

		log.AgentID = agentID.String
		log.Details = details.String
		log.ConversationID = conversationID.String
		log.CreatedAt = time.Unix(createdAt, 0)
		logs = append(logs, &log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decision logs: %w", err)
	}

	return logs, nil
}

func fillID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func closeRows(rows *sql.Rows, what string) {
	if err := rows.Close(); err != nil {
		slog.Warn("failed to close rows", "query", what, "error", err)
	}
}
