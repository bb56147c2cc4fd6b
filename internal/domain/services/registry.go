package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/username/estatechat/internal/domain/entities"
	"github.com/username/estatechat/internal/domain/ports"
	"github.com/username/estatechat/internal/pkg/constants"
)

// ErrConversationNotFound is returned for operations that name a conversation
// id not present in the registry.
var ErrConversationNotFound = errors.New(constants.ErrMsgConversationNotFound)

// Registry owns the conversation list and the message log. All state lives in
// memory and is mirrored into the storage port on every mutation as a full
// overwrite of the affected collection. Messages are additionally indexed by
// conversation id so per-conversation reads do not scan the whole log.
//
// A save failure never fails the mutation itself: the in-memory state is the
// source of truth for the session and storage trouble is only logged.
type Registry struct {
	mu      sync.RWMutex
	storage ports.StoragePort
	logger  *zap.Logger

	conversations  []*entities.Conversation
	messages       []*entities.Message
	byConversation map[string][]*entities.Message
	activeID       string
	userID         string
}

// NewRegistry hydrates a registry from the storage port. When no usable saved
// state exists it starts fresh with a single greeted conversation. The first
// conversation in the loaded list becomes active.
func NewRegistry(ctx context.Context, storage ports.StoragePort, logger *zap.Logger) (*Registry, error) {
	r := &Registry{
		storage:        storage,
		logger:         logger,
		byConversation: make(map[string][]*entities.Message),
	}

	snapshot, err := storage.Load(ctx)
	if err != nil {
		if !errors.Is(err, ports.ErrNoSnapshot) {
			return nil, fmt.Errorf("failed to load saved state: %w", err)
		}
		r.seedConversation(ctx)
		return r, nil
	}

	r.userID = snapshot.UserID

	// A snapshot with no conversations cannot satisfy the always-an-active-
	// conversation invariant; start fresh instead of trusting the adapter to
	// never hand one back.
	if len(snapshot.Conversations) == 0 {
		r.seedConversation(ctx)
		return r, nil
	}

	r.conversations = snapshot.Conversations
	r.messages = snapshot.Messages
	for _, message := range snapshot.Messages {
		r.byConversation[message.ConversationID] = append(r.byConversation[message.ConversationID], message)
	}
	r.activeID = snapshot.Conversations[0].ID

	return r, nil
}

// seedConversation creates one fresh conversation with the bot greeting and
// persists both collections. Caller must hold the write lock or be the sole
// owner during construction.
func (r *Registry) seedConversation(ctx context.Context) *entities.Conversation {
	conversation := entities.NewConversation()
	greeting := entities.NewMessage(conversation.ID, entities.SenderBot, constants.GreetingMessage)

	r.conversations = append([]*entities.Conversation{conversation}, r.conversations...)
	r.messages = append(r.messages, greeting)
	r.byConversation[conversation.ID] = append(r.byConversation[conversation.ID], greeting)
	r.activeID = conversation.ID

	r.persistConversations(ctx)
	r.persistMessages(ctx)

	return conversation
}

// CreateConversation starts a new chat: fresh id, sentinel title, prepended to
// the list, made active and seeded with the bot greeting.
func (r *Registry) CreateConversation(ctx context.Context) *entities.Conversation {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.seedConversation(ctx)
}

// SelectConversation makes the given conversation active. Unknown ids are
// rejected rather than silently ignored.
func (r *Registry) SelectConversation(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findConversation(id) == nil {
		return ErrConversationNotFound
	}
	r.activeID = id
	return nil
}

// DeleteConversation removes the conversation and all its messages. If it was
// active, the first remaining conversation takes over; when none remain a new
// one is created so the registry is never left empty.
func (r *Registry) DeleteConversation(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findConversation(id) == nil {
		return ErrConversationNotFound
	}

	remaining := r.conversations[:0]
	for _, conversation := range r.conversations {
		if conversation.ID != id {
			remaining = append(remaining, conversation)
		}
	}
	r.conversations = remaining

	kept := make([]*entities.Message, 0, len(r.messages))
	for _, message := range r.messages {
		if message.ConversationID != id {
			kept = append(kept, message)
		}
	}
	r.messages = kept
	delete(r.byConversation, id)

	if r.activeID == id {
		if len(r.conversations) > 0 {
			r.activeID = r.conversations[0].ID
		} else {
			r.seedConversation(ctx)
			return nil
		}
	}

	r.persistConversations(ctx)
	r.persistMessages(ctx)
	return nil
}

// ClearAll erases everything, including the stored user id, and reinitializes
// with one fresh conversation. Without confirmation it is a no-op.
func (r *Registry) ClearAll(ctx context.Context, confirm bool) error {
	if !confirm {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.storage.Clear(ctx); err != nil {
		r.logger.Warn("failed to clear persisted state", zap.Error(err))
	}

	r.conversations = nil
	r.messages = nil
	r.byConversation = make(map[string][]*entities.Message)
	r.userID = ""
	r.seedConversation(ctx)
	return nil
}

// AppendMessage adds a message to the end of the log, persists the full log
// and runs the title pass over the message's conversation.
func (r *Registry) AppendMessage(ctx context.Context, message *entities.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conversation := r.findConversation(message.ConversationID)
	if conversation == nil {
		return ErrConversationNotFound
	}

	r.messages = append(r.messages, message)
	r.byConversation[message.ConversationID] = append(r.byConversation[message.ConversationID], message)
	r.persistMessages(ctx)

	// Title pass: first user message in the conversation rewrites the
	// sentinel title exactly once.
	if conversation.HasSentinelTitle() {
		for _, m := range r.byConversation[conversation.ID] {
			if m.IsFromUser() {
				if conversation.DeriveTitle(m.Content) {
					r.persistConversations(ctx)
				}
				break
			}
		}
	}

	return nil
}

// MessagesFor returns the conversation's messages in append order.
func (r *Registry) MessagesFor(id string) []*entities.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()

	messages := r.byConversation[id]
	out := make([]*entities.Message, len(messages))
	copy(out, messages)
	return out
}

// Conversations returns the conversation list, newest first.
func (r *Registry) Conversations() []*entities.Conversation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Conversation, len(r.conversations))
	copy(out, r.conversations)
	return out
}

// ActiveID returns the id of the active conversation.
func (r *Registry) ActiveID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeID
}

// UserID returns the identifier assigned by the remote endpoint, or empty.
func (r *Registry) UserID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.userID
}

// SetUserID stores the endpoint-assigned identifier. It is only ever set once;
// later assignments are ignored.
func (r *Registry) SetUserID(ctx context.Context, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.userID != "" || userID == "" {
		return
	}
	r.userID = userID
	if err := r.storage.SaveUserID(ctx, userID); err != nil {
		r.logger.Warn("failed to persist user id", zap.Error(err))
	}
}

func (r *Registry) findConversation(id string) *entities.Conversation {
	for _, conversation := range r.conversations {
		if conversation.ID == id {
			return conversation
		}
	}
	return nil
}

func (r *Registry) persistConversations(ctx context.Context) {
	if err := r.storage.SaveConversations(ctx, r.conversations); err != nil {
		r.logger.Warn("failed to persist conversations", zap.Error(err))
	}
}

func (r *Registry) persistMessages(ctx context.Context) {
	if err := r.storage.SaveMessages(ctx, r.messages); err != nil {
		r.logger.Warn("failed to persist messages", zap.Error(err))
	}
}
