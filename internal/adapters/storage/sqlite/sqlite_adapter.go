package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/username/estatechat/internal/domain/entities"
	"github.com/username/estatechat/internal/domain/ports"
	"github.com/username/estatechat/internal/pkg/constants"
	"github.com/username/estatechat/internal/pkg/dbutil"
)

// Adapter implements the StoragePort interface using SQLite. Each save
// rewrites the whole collection inside one transaction, mirroring the
// snapshot semantics of the store contract. There are no foreign keys between
// the three collections; consistency between them is by convention.
type Adapter struct {
	db             *sql.DB
	wrapper        *dbutil.Wrapper
	migrationsPath string
}

// NewAdapter creates a new SQLite storage adapter
func NewAdapter(dbPath, migrationsPath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(constants.DefaultMaxOpenConns)
	db.SetMaxIdleConns(constants.DefaultMaxIdleConns)
	db.SetConnMaxLifetime(constants.DefaultConnMaxLifetime)

	return &Adapter{
		db:             db,
		wrapper:        dbutil.NewWrapper(db, constants.StorageTimeout),
		migrationsPath: migrationsPath,
	}, nil
}

// Migrate runs database migrations
func (a *Adapter) Migrate(ctx context.Context) error {
	_, err := a.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied := make(map[string]bool)
	rows, err := a.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	migrationFiles, err := filepath.Glob(filepath.Join(a.migrationsPath, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	sort.Strings(migrationFiles)

	for _, file := range migrationFiles {
		version := strings.TrimSuffix(filepath.Base(file), ".sql")
		if applied[version] {
			continue
		}

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		err = a.wrapper.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, string(content)); err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", version, err)
			}
			if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
				return fmt.Errorf("failed to record migration %s: %w", version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// Ping checks database connectivity
func (a *Adapter) Ping(ctx context.Context) error {
	return a.wrapper.PingWithTimeout(ctx)
}

// Close closes the database connection
func (a *Adapter) Close() error {
	return a.db.Close()
}

// Load reads the persisted snapshot. Missing state yields ErrNoSnapshot so
// callers can start fresh; rows that cannot be read are treated the same way
// rather than surfaced.
func (a *Adapter) Load(ctx context.Context) (*ports.Snapshot, error) {
	conversations, err := a.loadConversations(ctx)
	if err != nil {
		return nil, ports.ErrNoSnapshot
	}
	messages, err := a.loadMessages(ctx)
	if err != nil {
		return nil, ports.ErrNoSnapshot
	}
	if len(conversations) == 0 {
		return nil, ports.ErrNoSnapshot
	}

	userID, err := a.loadUserID(ctx)
	if err != nil {
		userID = ""
	}

	return &ports.Snapshot{
		Conversations: conversations,
		Messages:      messages,
		UserID:        userID,
	}, nil
}

func (a *Adapter) loadConversations(ctx context.Context) ([]*entities.Conversation, error) {
	query := `
		SELECT id, title, created_at
		FROM conversations
		ORDER BY position ASC
	`

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversations: %w", err)
	}
	defer rows.Close()

	var conversations []*entities.Conversation
	for rows.Next() {
		var conversation entities.Conversation
		if err := rows.Scan(&conversation.ID, &conversation.Title, &conversation.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, &conversation)
	}

	return conversations, rows.Err()
}

func (a *Adapter) loadMessages(ctx context.Context) ([]*entities.Message, error) {
	query := `
		SELECT id, conversation_id, sender, content, created_at
		FROM messages
		ORDER BY position ASC
	`

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	defer rows.Close()

	var messages []*entities.Message
	for rows.Next() {
		var message entities.Message
		if err := rows.Scan(&message.ID, &message.ConversationID, &message.Sender, &message.Content, &message.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &message)
	}

	return messages, rows.Err()
}

func (a *Adapter) loadUserID(ctx context.Context) (string, error) {
	var userID string
	err := a.db.QueryRowContext(ctx, "SELECT user_id FROM identity WHERE id = 1").Scan(&userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to load user id: %w", err)
	}
	return userID, nil
}

// SaveConversations overwrites the conversation list, preserving order.
func (a *Adapter) SaveConversations(ctx context.Context, conversations []*entities.Conversation) error {
	return a.wrapper.SaveWithRetry(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM conversations"); err != nil {
			return fmt.Errorf("failed to clear conversations: %w", err)
		}
		for i, conversation := range conversations {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO conversations (id, title, created_at, position) VALUES (?, ?, ?, ?)",
				conversation.ID, conversation.Title, conversation.CreatedAt, i)
			if err != nil {
				return fmt.Errorf("failed to save conversation: %w", err)
			}
		}
		return nil
	}, 3)
}

// SaveMessages overwrites the full message log, preserving append order.
func (a *Adapter) SaveMessages(ctx context.Context, messages []*entities.Message) error {
	return a.wrapper.SaveWithRetry(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM messages"); err != nil {
			return fmt.Errorf("failed to clear messages: %w", err)
		}
		for i, message := range messages {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO messages (id, conversation_id, sender, content, created_at, position) VALUES (?, ?, ?, ?, ?, ?)",
				message.ID, message.ConversationID, string(message.Sender), message.Content, message.CreatedAt, i)
			if err != nil {
				return fmt.Errorf("failed to save message: %w", err)
			}
		}
		return nil
	}, 3)
}

// SaveUserID stores the user identifier assigned by the remote endpoint.
func (a *Adapter) SaveUserID(ctx context.Context, userID string) error {
	query := `
		INSERT INTO identity (id, user_id, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id, updated_at = excluded.updated_at
	`

	_, err := a.db.ExecContext(ctx, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save user id: %w", err)
	}

	return nil
}

// Clear erases all persisted state, including the stored user identifier.
func (a *Adapter) Clear(ctx context.Context) error {
	return a.wrapper.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"messages", "conversations", "identity"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
}
