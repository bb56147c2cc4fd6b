package ports

import (
	"context"
	"errors"

	"github.com/username/estatechat/internal/domain/entities"
)

// ErrNoSnapshot is returned by Load when no usable saved state exists, either
// because nothing was ever persisted or because the persisted blobs failed to
// parse. Callers treat both the same way: start fresh.
var ErrNoSnapshot = errors.New("no saved state")

// Snapshot is the full persisted state: the conversation list, the flat
// message log spanning all conversations, and the user identifier assigned by
// the remote endpoint (empty until the first successful exchange). The three
// collections are persisted independently; referential integrity between them
// is by convention only.
type Snapshot struct {
	Conversations []*entities.Conversation
	Messages      []*entities.Message
	UserID        string
}

// StoragePort defines the interface for the persistent store. Every save is a
// full overwrite of the named collection; there is no incremental diffing.
type StoragePort interface {
	Load(ctx context.Context) (*Snapshot, error)

	SaveConversations(ctx context.Context, conversations []*entities.Conversation) error
	SaveMessages(ctx context.Context, messages []*entities.Message) error
	SaveUserID(ctx context.Context, userID string) error

	// Clear erases all persisted state, including the stored user identifier.
	Clear(ctx context.Context) error

	// Health check
	Ping(ctx context.Context) error

	// Migration support
	Migrate(ctx context.Context) error
}
