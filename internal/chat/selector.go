package chat

import (
	"context"
	"errors"
	"log/slog"

	"github.com/agenthub-labs/agenthub/internal/domain"
	"github.com/agenthub-labs/agenthub/internal/llm"
	"github.com/agenthub-labs/agenthub/internal/store"
)

// FallbackAgentName is the generic platform persona used when no catalog
// agent is selected. It has no catalog row.
const FallbackAgentName = "AgentHub"

// Selection is the persona resolved for one turn. Agent is nil for the
// AgentHub fallback.
type Selection struct {
	Agent        *domain.Agent
	Name         string
	SystemPrompt string
}

// selectAgent resolves the persona for a turn: explicit request first,
// then classification, then the generic fallback. Classification failures
// never abort the turn; the fallback persona answers instead.
func (s *Service) selectAgent(ctx context.Context, message, explicitName string) Selection {
	if explicitName != "" && explicitName != FallbackAgentName {
		agent, err := s.repo.GetAgentByName(ctx, explicitName)
		if err == nil {
			return agentSelection(agent)
		}
		if !errors.Is(err, store.ErrNotFound) {
			slog.Warn("explicit agent lookup failed", "agent", explicitName, "error", err)
		}
	}

	if selection, ok := s.classify(ctx, message); ok {
		return selection
	}

	return Selection{
		Name:         FallbackAgentName,
		SystemPrompt: BuildSystemPrompt(fallbackPersona),
	}
}

// classify runs the routing call and resolves the first candidate that
// exists in the catalog.
func (s *Service) classify(ctx context.Context, message string) (Selection, bool) {
	agents, err := s.repo.ListAgents(ctx)
	if err != nil {
		slog.Warn("catalog listing for classification failed", "error", err)
		return Selection{}, false
	}

	summaries := make([]llm.AgentSummary, 0, len(agents))
	for _, a := range agents {
		summaries = append(summaries, llm.AgentSummary{
			Name:        a.Name,
			Description: a.Description,
		})
	}

	result, err := s.classifier.Classify(ctx, message, summaries)
	if err != nil {
		slog.Warn("classification failed, falling back to platform persona", "error", err)
		return Selection{}, false
	}

	for _, name := range result.SelectedAgents {
		if name == FallbackAgentName {
			continue
		}
		agent, err := s.repo.GetAgentByName(ctx, name)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			slog.Warn("candidate agent lookup failed", "agent", name, "error", err)
			continue
		}
		slog.Info("Classifier routed request",
			"agent", agent.Name, "analysis", result.Analysis)
		return agentSelection(agent), true
	}

	return Selection{}, false
}

func agentSelection(agent *domain.Agent) Selection {
	return Selection{
		Agent:        agent,
		Name:         agent.Name,
		SystemPrompt: BuildSystemPrompt(agent.SystemPrompt),
	}
}
