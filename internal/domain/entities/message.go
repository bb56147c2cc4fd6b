package entities

import (
	"time"
)

// Sender identifies the author of a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message represents a single message in a conversation. Messages are never
// mutated after creation; the log is append-only except for
// whole-conversation deletion and full-history clears.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Sender         Sender    `json:"sender"`
	Content        string    `json:"message"`
	CreatedAt      time.Time `json:"timestamp"`
}

// NewMessage creates a new message with generated ID and timestamp.
func NewMessage(conversationID string, sender Sender, content string) *Message {
	return &Message{
		ID:             generateID(),
		ConversationID: conversationID,
		Sender:         sender,
		Content:        content,
		CreatedAt:      time.Now(),
	}
}

// IsFromUser returns true if the message was typed by the user.
func (m *Message) IsFromUser() bool {
	return m.Sender == SenderUser
}

// IsFromBot returns true if the message is an assistant reply.
func (m *Message) IsFromBot() bool {
	return m.Sender == SenderBot
}
