package memory

import (
	"context"
	"sync"

	"github.com/username/estatechat/internal/domain/entities"
	"github.com/username/estatechat/internal/domain/ports"
)

// Adapter is an in-memory StoragePort for tests and ephemeral deployments.
// It keeps the same full-overwrite snapshot semantics as the SQLite adapter.
type Adapter struct {
	mu            sync.RWMutex
	conversations []*entities.Conversation
	messages      []*entities.Message
	userID        string
	hasState      bool
}

// NewAdapter creates an empty in-memory storage adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

func (a *Adapter) Load(ctx context.Context) (*ports.Snapshot, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if !a.hasState || len(a.conversations) == 0 {
		return nil, ports.ErrNoSnapshot
	}

	snapshot := &ports.Snapshot{
		Conversations: make([]*entities.Conversation, len(a.conversations)),
		Messages:      make([]*entities.Message, len(a.messages)),
		UserID:        a.userID,
	}
	copy(snapshot.Conversations, a.conversations)
	copy(snapshot.Messages, a.messages)
	return snapshot, nil
}

func (a *Adapter) SaveConversations(ctx context.Context, conversations []*entities.Conversation) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.conversations = make([]*entities.Conversation, len(conversations))
	copy(a.conversations, conversations)
	a.hasState = true
	return nil
}

func (a *Adapter) SaveMessages(ctx context.Context, messages []*entities.Message) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.messages = make([]*entities.Message, len(messages))
	copy(a.messages, messages)
	a.hasState = true
	return nil
}

func (a *Adapter) SaveUserID(ctx context.Context, userID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.userID = userID
	return nil
}

func (a *Adapter) Clear(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.conversations = nil
	a.messages = nil
	a.userID = ""
	a.hasState = false
	return nil
}

func (a *Adapter) Ping(ctx context.Context) error {
	return nil
}

func (a *Adapter) Migrate(ctx context.Context) error {
	// Nothing to migrate for in-memory storage
	return nil
}
