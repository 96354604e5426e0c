// Package chat implements the marketplace chat-turn pipeline: persona
// selection, response generation, and the audit writes each turn triggers.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/agenthub-labs/agenthub/internal/domain"
	"github.com/agenthub-labs/agenthub/internal/feed"
	"github.com/agenthub-labs/agenthub/internal/ledger"
	"github.com/agenthub-labs/agenthub/internal/llm"
	"github.com/agenthub-labs/agenthub/internal/store"
)

// historyLimit bounds the trailing conversation window fed to the model.
const historyLimit = 10

// fallbackReply is returned to the user when generation fails. The turn
// still succeeds and both messages are persisted.
const fallbackReply = "I apologize, but I encountered an error while generating a response. Please try again."

// Generator produces a reply conditioned on a persona prompt and bounded
// conversation history.
type Generator interface {
	Complete(ctx context.Context, systemPrompt string, history []llm.Message, userMessage string) (string, error)
}

// Classifier maps a user message to candidate agent names.
type Classifier interface {
	Classify(ctx context.Context, userMessage string, agents []llm.AgentSummary) (*llm.Classification, error)
}

// Request is one inbound chat turn.
type Request struct {
	ConversationID string `json:"conversationId"`
	Message        string `json:"message"`
	AgentName      string `json:"agentName,omitempty"`
}

// Result is the completed turn returned to the caller.
type Result struct {
	UserMessage   *domain.Message `json:"userMessage"`
	AgentMessage  *domain.Message `json:"agentMessage"`
	SelectedAgent string          `json:"selectedAgent"`
}

// Service runs the chat-turn pipeline.
type Service struct {
	repo       store.Repository
	generator  Generator
	classifier Classifier
	recorder   *ledger.Recorder
	hub        *feed.Hub
}

// NewService creates the chat pipeline. recorder and hub may be nil; the
// pipeline then skips transaction recording and feed publishing.
func NewService(repo store.Repository, generator Generator, classifier Classifier, recorder *ledger.Recorder, hub *feed.Hub) *Service {
	return &Service{
		repo:       repo,
		generator:  generator,
		classifier: classifier,
		recorder:   recorder,
		hub:        hub,
	}
}

// ProcessTurn handles one chat turn end to end. Persistence failures are
// returned to the caller; generation failures degrade to a fallback reply
// and the turn still completes.
func (s *Service) ProcessTurn(ctx context.Context, req Request) (*Result, error) {
	conv, err := s.repo.GetConversation(ctx, req.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("resolve conversation: %w", err)
	}

	selection := s.selectAgent(ctx, req.Message, req.AgentName)

	history, err := s.conversationHistory(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	content, err := s.generator.Complete(ctx, selection.SystemPrompt, history, req.Message)
	if err != nil || content == "" {
		slog.Error("Response generation failed, using fallback reply",
			"error", err, "conversation_id", conv.ID, "agent", selection.Name)
		content = fallbackReply
	}

	userMsg := &domain.Message{
		ConversationID: conv.ID,
		Sender:         domain.SenderUser,
		Content:        req.Message,
	}
	agentMsg := &domain.Message{
		ConversationID: conv.ID,
		Sender:         domain.SenderAgent,
		AgentName:      selection.Name,
		Content:        content,
	}
	if selection.Agent != nil {
		agentMsg.AgentID = selection.Agent.ID
	}

	decision := s.buildDecision(conv.ID, selection, req.Message, content)

	turn := store.Turn{
		UserMessage:  userMsg,
		AgentMessage: agentMsg,
		Decision:     decision,
	}
	if selection.Agent != nil {
		turn.IncrementAgentID = selection.Agent.ID
	}
	if err := s.repo.RecordTurn(ctx, turn); err != nil {
		return nil, fmt.Errorf("record turn: %w", err)
	}

	if s.hub != nil {
		s.hub.Publish(feed.EventDecisionLog, decision)
	}
	if s.recorder != nil {
		txReq := ledger.TransactionRequest{
			FromAgentName: "User",
			ToAgentName:   selection.Name,
		}
		if selection.Agent != nil {
			txReq.ToAgentID = selection.Agent.ID
		}
		s.recorder.RecordTransaction(txReq)
	}

	return &Result{
		UserMessage:   userMsg,
		AgentMessage:  agentMsg,
		SelectedAgent: selection.Name,
	}, nil
}

// conversationHistory returns the trailing window of prior messages as
// two-role completion context.
func (s *Service) conversationHistory(ctx context.Context, conversationID string) ([]llm.Message, error) {
	msgs, err := s.repo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if len(msgs) > historyLimit {
		msgs = msgs[len(msgs)-historyLimit:]
	}

	history := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		role := "user"
		if m.Sender == domain.SenderAgent {
			role = "assistant"
		}
		history = append(history, llm.Message{Role: role, Content: m.Content})
	}
	return history, nil
}

func (s *Service) buildDecision(conversationID string, selection Selection, userMessage, response string) *domain.DecisionLog {
	details, err := json.Marshal(map[string]string{
		"userMessage": userMessage,
		"response":    truncate(response, 200),
	})
	if err != nil {
		slog.Warn("failed to marshal decision details", "error", err)
	}

	decision := &domain.DecisionLog{
		AgentName:      selection.Name,
		Action:         fmt.Sprintf("Processed user request: %q", ellipsize(userMessage, 50)),
		Details:        string(details),
		TxHash:         ledger.TruncateTxHash(ledger.GenerateTxHash()),
		Status:         domain.StatusConfirmed,
		ConversationID: conversationID,
	}
	if selection.Agent != nil {
		decision.AgentID = selection.Agent.ID
	}
	return decision
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func ellipsize(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
