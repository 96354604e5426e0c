// Package llm wraps the OpenAI chat completion API for response
// generation and agent-routing classification.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Message is one prior conversation turn passed as completion context.
// Role is "user" or "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Classification is the routing verdict for a user message.
type Classification struct {
	SelectedAgents []string `json:"selectedAgents"`
	Analysis       string   `json:"analysis"`
}

// AgentSummary describes one catalog agent for the routing prompt.
type AgentSummary struct {
	Name        string
	Description string
}

// Config holds LLM client configuration.
type Config struct {
	APIKey         string
	Model          string
	Temperature    float32
	MaxTokens      int
	RequestTimeout time.Duration
}

// Client calls the OpenAI chat completion API. Each call is a single
// attempt bounded by RequestTimeout; retries are the caller's policy.
type Client struct {
	api            *openai.Client
	model          string
	temperature    float32
	maxTokens      int
	requestTimeout time.Duration
}

// NewClient creates an OpenAI-backed client.
func NewClient(cfg Config) *Client {
	return &Client{
		api:            openai.NewClient(cfg.APIKey),
		model:          cfg.Model,
		temperature:    cfg.Temperature,
		maxTokens:      cfg.MaxTokens,
		requestTimeout: cfg.RequestTimeout,
	}
}

// Complete produces a reply conditioned on the persona system prompt and
// the trailing conversation history.
func (c *Client) Complete(ctx context.Context, systemPrompt string, history []Message, userMessage string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == openai.ChatMessageRoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("chat completion returned no content")
	}

	return resp.Choices[0].Message.Content, nil
}

// classifyPrompt builds the routing system prompt from the live catalog.
func classifyPrompt(agents []AgentSummary) string {
	var b strings.Builder
	b.WriteString("You are the AgentHub Master Agent, responsible for analyzing user requests and determining which specialized agents should handle them.\n\nAvailable agents:\n")
	for _, a := range agents {
		fmt.Fprintf(&b, "- %s: %s\n", a.Name, a.Description)
	}
	b.WriteString(`
Analyze the user's request and respond with JSON:
{
  "selectedAgents": ["agent1", "agent2"],
  "analysis": "Brief explanation of why these agents were selected"
}

If no specific agent is needed, select "AgentHub" as the general assistant.`)
	return b.String()
}

// Classify maps a user message to candidate agent names with a short
// rationale. The model output is an untrusted boundary: any malformed or
// empty payload is reported as an error so callers can fall back.
func (c *Client) Classify(ctx context.Context, userMessage string, agents []AgentSummary) (*Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifyPrompt(agents)},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		MaxTokens:   256,
		Temperature: 0.3,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("classification completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("classification returned no choices")
	}

	var result Classification
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &result); err != nil {
		return nil, fmt.Errorf("parse classification: %w", err)
	}
	if len(result.SelectedAgents) == 0 {
		return nil, fmt.Errorf("classification selected no agents")
	}

	return &result, nil
}
