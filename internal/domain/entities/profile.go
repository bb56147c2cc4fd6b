package entities

import (
	"time"
)

// Preferences holds the property preferences inferred from a conversation.
// Empty fields mean the preference is still unknown.
type Preferences struct {
	Location     string `json:"location"`
	PropertyType string `json:"property_type"`
	Bedrooms     string `json:"bedrooms"`
	Budget       string `json:"budget"`
}

// Profile is the derived, session-local context of a conversation: detected
// topic keywords, previously asked follow-up questions (lowercased), inferred
// preferences and interaction bookkeeping. Profiles are rebuilt as messages
// arrive and are never persisted.
//
// Profiles are treated as immutable records: updates go through Clone and a
// swap in the owning map, so concurrent readers never observe a half-updated
// profile.
type Profile struct {
	ConversationID  string
	Keywords        map[string]bool
	AskedQuestions  map[string]bool
	Preferences     Preferences
	Interactions    int
	LastInteraction time.Time
}

// NewProfile creates an empty profile for a conversation.
func NewProfile(conversationID string) *Profile {
	return &Profile{
		ConversationID: conversationID,
		Keywords:       make(map[string]bool),
		AskedQuestions: make(map[string]bool),
	}
}

// Clone returns a deep copy suitable for copy-on-write updates.
func (p *Profile) Clone() *Profile {
	clone := &Profile{
		ConversationID:  p.ConversationID,
		Keywords:        make(map[string]bool, len(p.Keywords)),
		AskedQuestions:  make(map[string]bool, len(p.AskedQuestions)),
		Preferences:     p.Preferences,
		Interactions:    p.Interactions,
		LastInteraction: p.LastInteraction,
	}
	for k := range p.Keywords {
		clone.Keywords[k] = true
	}
	for q := range p.AskedQuestions {
		clone.AskedQuestions[q] = true
	}
	return clone
}
