package chatModel

import (
	"context"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in a conversation. Identity is (ChatId, CreatedTime);
// messages are append-only and deleted en masse on reset.
type Message struct {
	ChatId      string    `json:"chat_id"`
	Role        Role      `json:"role"`
	Text        string    `json:"text"`
	Sources     []string  `json:"sources,omitempty"`
	Score       float32   `json:"score,omitempty"`
	CreatedTime time.Time `json:"created_time"`
}

// Conversation is the per-session record. Summary is single-level and lossy:
// each new synopsis replaces the previous one.
type Conversation struct {
	ChatId               string    `json:"chat_id"`
	Language             string    `json:"language"`
	Summary              string    `json:"summary,omitempty"`
	MessageCount         int       `json:"message_count"`
	MessagesSinceSummary int       `json:"messages_since_summary"`
	LastActivity         time.Time `json:"last_activity"`
}

// MemoryContext is computed per query and never persisted.
type MemoryContext struct {
	Summary       string
	Recent        []Message
	TokenEstimate int
}

type ConversationStore interface {
	GetConversation(ctx context.Context, chatId string) (Conversation, bool)
	SaveConversation(ctx context.Context, conv Conversation) error
	AppendMessage(ctx context.Context, msg Message) error
	RecentMessages(ctx context.Context, chatId string, n int) ([]Message, error)
	ClearMessages(ctx context.Context, chatId string) error
}
