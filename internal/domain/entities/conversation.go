package entities

import (
	"time"
)

// SentinelTitle is the placeholder title a conversation carries until the
// first user message rewrites it.
const SentinelTitle = "New Chat"

// TitleLimit is the number of runes of the first user message used for the
// derived conversation title.
const TitleLimit = 30

// Conversation represents a titled thread grouping an ordered set of messages.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// NewConversation creates a new conversation with the sentinel title.
func NewConversation() *Conversation {
	return &Conversation{
		ID:        generateID(),
		Title:     SentinelTitle,
		CreatedAt: time.Now(),
	}
}

// HasSentinelTitle reports whether the title has not yet been derived from a
// user message.
func (c *Conversation) HasSentinelTitle() bool {
	return c.Title == SentinelTitle
}

// DeriveTitle rewrites the sentinel title from the given user message and
// reports whether a rewrite happened. Once a real title is set it never
// changes again.
func (c *Conversation) DeriveTitle(firstUserMessage string) bool {
	if !c.HasSentinelTitle() {
		return false
	}
	runes := []rune(firstUserMessage)
	if len(runes) > TitleLimit {
		c.Title = string(runes[:TitleLimit]) + "..."
	} else {
		c.Title = firstUserMessage
	}
	return true
}
