package domain

import (
	"time"
)

// Message sender roles.
const (
	SenderUser  = "user"
	SenderAgent = "agent"
)

// Conversation groups an ordered sequence of chat messages.
type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Message is one chat turn half: either the user's text or an agent reply.
// AgentID and AgentName are set only when Sender is "agent".
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Sender         string    `json:"sender"`
	AgentID        string    `json:"agentId,omitempty"`
	AgentName      string    `json:"agentName,omitempty"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}
