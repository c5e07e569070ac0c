// kanoonsathi/types/chat.go
package types

import "time"

const (
	AuthorUser      = "user"
	AuthorAssistant = "assistant"
)

// Message is one entry in a conversation timeline. Messages are append-only:
// once created they are never mutated or deleted by this tier.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is the unified view over the three id namespaces: server-issued
// chat ids, backend-issued guest chatroom ids, and local temp- ids that exist
// only until the first message forces a real id.
type Conversation struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Messages           []Message `json:"messages"`
	LastMessageAt      time.Time `json:"last_message_at"`
	LastMessagePreview string    `json:"last_message_preview,omitempty"`
}

type SendRequest struct {
	Content string `json:"content"`
}

type SelectRequest struct {
	ID string `json:"id"`
}

type RenameRequest struct {
	Title string `json:"title"`
}

// ChatState is what the view renders: the reconciled conversation list plus
// which conversation is active.
type ChatState struct {
	Conversations []Conversation `json:"conversations"`
	ActiveID      string         `json:"active_id"`
	Authenticated bool           `json:"authenticated"`
}
