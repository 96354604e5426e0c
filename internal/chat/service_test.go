package chat

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agenthub-labs/agenthub/internal/domain"
	"github.com/agenthub-labs/agenthub/internal/ledger"
	"github.com/agenthub-labs/agenthub/internal/llm"
	"github.com/agenthub-labs/agenthub/internal/store"
)

type fakeGenerator struct {
	reply       string
	err         error
	calls       int
	lastSystem  string
	lastHistory []llm.Message
	lastMessage string
}

func (f *fakeGenerator) Complete(_ context.Context, systemPrompt string, history []llm.Message, userMessage string) (string, error) {
	f.calls++
	f.lastSystem = systemPrompt
	f.lastHistory = history
	f.lastMessage = userMessage
	return f.reply, f.err
}

type fakeClassifier struct {
	result *llm.Classification
	err    error
	calls  int
}

func (f *fakeClassifier) Classify(_ context.Context, _ string, _ []llm.AgentSummary) (*llm.Classification, error) {
	f.calls++
	return f.result, f.err
}

func newTestRepo(t *testing.T) *store.SQLiteStore {
	t.Helper()
	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "chat.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	if _, err := repo.SeedAgents(context.Background()); err != nil {
		t.Fatalf("SeedAgents failed: %v", err)
	}
	return repo
}

func newConversation(t *testing.T, repo store.Repository) *domain.Conversation {
	t.Helper()
	conv := &domain.Conversation{}
	if err := repo.CreateConversation(context.Background(), conv); err != nil {
		t.Fatalf("CreateConversation failed: %v", err)
	}
	return conv
}

func TestExplicitAgentSkipsClassifier(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	conv := newConversation(t, repo)
	gen := &fakeGenerator{reply: "Here is your content plan."}
	cls := &fakeClassifier{}
	svc := NewService(repo, gen, cls, nil, nil)

	result, err := svc.ProcessTurn(context.Background(), Request{
		ConversationID: conv.ID,
		Message:        "hello",
		AgentName:      "SocialGenie",
	})
	if err != nil {
		t.Fatalf("ProcessTurn failed: %v", err)
	}

	if result.SelectedAgent != "SocialGenie" {
		t.Errorf("Expected SocialGenie, got %q", result.SelectedAgent)
	}
	if cls.calls != 0 {
		t.Errorf("Classifier must not run for explicit agent, got %d calls", cls.calls)
	}
	if !strings.Contains(gen.lastSystem, "You are SocialGenie") {
		t.Error("Expected persona prompt in system message")
	}
	if !strings.Contains(gen.lastSystem, "logged on-chain") {
		t.Error("Expected platform context in system message")
	}

	logs, err := repo.RecentDecisionLogs(context.Background(), 5)
	if err != nil {
		t.Fatalf("RecentDecisionLogs failed: %v", err)
	}
	if len(logs) != 1 || logs[0].AgentName != "SocialGenie" {
		t.Fatalf("Expected decision log for SocialGenie, got %+v", logs)
	}

	agent, err := repo.GetAgentByName(context.Background(), "SocialGenie")
	if err != nil {
		t.Fatalf("GetAgentByName failed: %v", err)
	}
	if agent.UsesServed != 1248 { // seeded 1247 + this turn
		t.Errorf("Expected uses_served 1248, got %d", agent.UsesServed)
	}
}

func TestTurnPersistsBothMessagesInOrder(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	conv := newConversation(t, repo)
	svc := NewService(repo, &fakeGenerator{reply: "reply"}, &fakeClassifier{err: errors.New("down")}, nil, nil)

	if _, err := svc.ProcessTurn(context.Background(), Request{ConversationID: conv.ID, Message: "first"}); err != nil {
		t.Fatalf("ProcessTurn failed: %v", err)
	}

	msgs, err := repo.ListMessages(context.Background(), conv.ID)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("Expected exactly 2 messages, got %d", len(msgs))
	}
	if msgs[0].Sender != domain.SenderUser || msgs[0].Content != "first" {
		t.Errorf("Unexpected user message: %+v", msgs[0])
	}
	if msgs[1].Sender != domain.SenderAgent || msgs[1].Content != "reply" {
		t.Errorf("Unexpected agent message: %+v", msgs[1])
	}
}

func TestClassifierRoutesToFirstResolvingCandidate(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	conv := newConversation(t, repo)
	gen := &fakeGenerator{reply: "routed"}
	cls := &fakeClassifier{result: &llm.Classification{
		SelectedAgents: []string{"AgentHub", "NoSuchAgent", "MailMind"},
		Analysis:       "email related",
	}}
	svc := NewService(repo, gen, cls, nil, nil)

	result, err := svc.ProcessTurn(context.Background(), Request{ConversationID: conv.ID, Message: "write a newsletter"})
	if err != nil {
		t.Fatalf("ProcessTurn failed: %v", err)
	}
	if result.SelectedAgent != "MailMind" {
		t.Errorf("Expected MailMind, got %q", result.SelectedAgent)
	}
	if result.AgentMessage.AgentID == "" {
		t.Error("Expected catalog agent ID on agent message")
	}
}

func TestClassifierFailureFallsBackToPlatformPersona(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	conv := newConversation(t, repo)
	gen := &fakeGenerator{reply: "generic help"}
	cls := &fakeClassifier{err: errors.New("upstream exploded")}
	svc := NewService(repo, gen, cls, nil, nil)

	result, err := svc.ProcessTurn(context.Background(), Request{ConversationID: conv.ID, Message: "hi"})
	if err != nil {
		t.Fatalf("ProcessTurn must not fail on classifier error: %v", err)
	}
	if result.SelectedAgent != FallbackAgentName {
		t.Errorf("Expected %s fallback, got %q", FallbackAgentName, result.SelectedAgent)
	}
	if result.AgentMessage.AgentID != "" {
		t.Error("Fallback persona must not carry a catalog agent ID")
	}
}

func TestUnresolvableExplicitAgentFallsThrough(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	conv := newConversation(t, repo)
	cls := &fakeClassifier{err: errors.New("also down")}
	svc := NewService(repo, &fakeGenerator{reply: "ok"}, cls, nil, nil)

	result, err := svc.ProcessTurn(context.Background(), Request{
		ConversationID: conv.ID,
		Message:        "hi",
		AgentName:      "GhostAgent",
	})
	if err != nil {
		t.Fatalf("ProcessTurn failed: %v", err)
	}
	if cls.calls != 1 {
		t.Errorf("Expected classification attempt after unresolvable name, got %d calls", cls.calls)
	}
	if result.SelectedAgent != FallbackAgentName {
		t.Errorf("Expected fallback persona, got %q", result.SelectedAgent)
	}
}

func TestGenerationFailureStillCompletesTurn(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	conv := newConversation(t, repo)
	gen := &fakeGenerator{err: errors.New("model unavailable")}
	svc := NewService(repo, gen, &fakeClassifier{}, nil, nil)

	result, err := svc.ProcessTurn(context.Background(), Request{
		ConversationID: conv.ID,
		Message:        "hello",
		AgentName:      "ShopAssist",
	})
	if err != nil {
		t.Fatalf("ProcessTurn must not fail on generation error: %v", err)
	}
	if !strings.Contains(result.AgentMessage.Content, "I apologize") {
		t.Errorf("Expected apology fallback, got %q", result.AgentMessage.Content)
	}

	msgs, err := repo.ListMessages(context.Background(), conv.ID)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Errorf("Expected both messages persisted despite generation failure, got %d", len(msgs))
	}
}

func TestUnknownConversationIsNotFound(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	svc := NewService(repo, &fakeGenerator{reply: "x"}, &fakeClassifier{}, nil, nil)

	_, err := svc.ProcessTurn(context.Background(), Request{ConversationID: "missing", Message: "hi"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Expected store.ErrNotFound, got %v", err)
	}
}

func TestHistoryIsBoundedToTrailingWindow(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	conv := newConversation(t, repo)
	gen := &fakeGenerator{reply: "ok"}
	svc := NewService(repo, gen, &fakeClassifier{err: errors.New("skip")}, nil, nil)

	// Seven prior turns leave fourteen stored messages.
	for i := 0; i < 7; i++ {
		req := Request{ConversationID: conv.ID, Message: fmt.Sprintf("turn %d", i)}
		if _, err := svc.ProcessTurn(context.Background(), req); err != nil {
			t.Fatalf("ProcessTurn %d failed: %v", i, err)
		}
	}

	if _, err := svc.ProcessTurn(context.Background(), Request{ConversationID: conv.ID, Message: "latest"}); err != nil {
		t.Fatalf("Final ProcessTurn failed: %v", err)
	}

	if len(gen.lastHistory) != historyLimit {
		t.Fatalf("Expected history of %d messages, got %d", historyLimit, len(gen.lastHistory))
	}
	// The window must end with the most recent stored turn, alternating
	// user/assistant roles.
	last := gen.lastHistory[len(gen.lastHistory)-1]
	if last.Role != "assistant" {
		t.Errorf("Expected trailing assistant message, got role %q", last.Role)
	}
	if gen.lastMessage != "latest" {
		t.Errorf("Expected current message passed separately, got %q", gen.lastMessage)
	}
}

func TestTurnRecordsTransactionAsynchronously(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	conv := newConversation(t, repo)
	recorder := ledger.NewRecorder(repo, nil, 10)
	svc := NewService(repo, &fakeGenerator{reply: "done"}, &fakeClassifier{}, recorder, nil)

	if _, err := svc.ProcessTurn(context.Background(), Request{
		ConversationID: conv.ID,
		Message:        "hi",
		AgentName:      "TradeMind",
	}); err != nil {
		t.Fatalf("ProcessTurn failed: %v", err)
	}

	// Close drains the queue, so the write is visible afterwards.
	recorder.Close()

	txns, err := repo.RecentTransactions(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentTransactions failed: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(txns))
	}
	if txns[0].FromAgentName != "User" || txns[0].ToAgentName != "TradeMind" {
		t.Errorf("Unexpected transaction parties: %+v", txns[0])
	}
	if txns[0].Amount != ledger.TransactionAmount {
		t.Errorf("Expected fixed amount %s, got %s", ledger.TransactionAmount, txns[0].Amount)
	}
}
