package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/username/estatechat/internal/domain/entities"
	"github.com/username/estatechat/internal/domain/ports"
	"github.com/username/estatechat/internal/pkg/constants"
)

var (
	// ErrEmptyMessage rejects blank input before anything is appended.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrDispatchInFlight rejects a send while another one is still
	// outstanding for the same conversation.
	ErrDispatchInFlight = errors.New("a message is already being processed for this conversation")
)

// Dispatcher resolves a user message to exactly one bot reply. The flow per
// message: optimistic user append, then a search-first path for property
// queries, then the primary endpoint, then a plain-keyword fallback search,
// with fixed bilingual messages for the terminal failure branches. Every
// branch ends with one appended bot message.
//
// Failures in the search path and configuration problems are logged and
// degraded, never surfaced to the user as raw errors.
type Dispatcher struct {
	registry  *Registry
	profiler  *Profiler
	assistant ports.AssistantPort
	search    ports.SearchPort
	logger    *zap.Logger

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewDispatcher creates a dispatcher over the given collaborators.
func NewDispatcher(registry *Registry, profiler *Profiler, assistant ports.AssistantPort, search ports.SearchPort, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		registry:  registry,
		profiler:  profiler,
		assistant: assistant,
		search:    search,
		logger:    logger,
		inFlight:  make(map[string]bool),
	}
}

// Send processes one outgoing user message and returns the resulting bot
// message. The conversation id is captured here; a reply always lands in the
// conversation the message was sent from, even if the active one changed
// meanwhile.
func (d *Dispatcher) Send(ctx context.Context, conversationID, text string, uiSize ports.UISize) (*entities.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if uiSize == (ports.UISize{}) {
		uiSize = ports.DefaultUISize
	}

	if err := d.acquire(conversationID); err != nil {
		return nil, err
	}
	defer d.release(conversationID)

	// Optimistic append: the user message lands before any network call.
	userMessage := entities.NewMessage(conversationID, entities.SenderUser, text)
	if err := d.registry.AppendMessage(ctx, userMessage); err != nil {
		return nil, err
	}

	d.profiler.Update(conversationID, text)

	if d.profiler.IsPropertyQuery(text) {
		if reply, ok := d.trySearch(ctx, conversationID, d.profiler.BuildQuery(conversationID, text)); ok {
			return d.appendBot(ctx, conversationID, reply)
		}
	}

	reply, err := d.assistant.Send(ctx, ports.AssistantRequest{
		Message:        text,
		UserID:         d.registry.UserID(),
		UISize:         uiSize,
		ConversationID: conversationID,
	})
	switch {
	case err == nil:
		d.registry.SetUserID(ctx, reply.UserID)
		return d.appendBot(ctx, conversationID, reply.Response)

	case errors.Is(err, ports.ErrAssistantDeclined):
		d.logger.Warn("endpoint declined message",
			zap.String("conversation_id", conversationID),
			zap.Error(err))
		if reply, ok := d.trySearch(ctx, conversationID, text); ok {
			return d.appendBot(ctx, conversationID, reply)
		}
		return d.appendBot(ctx, conversationID, constants.ApologyMessage)

	default:
		// Transport failure: one fixed message, no retry.
		d.logger.Error("failed to reach chat endpoint",
			zap.String("conversation_id", conversationID),
			zap.Error(err))
		return d.appendBot(ctx, conversationID, constants.ConnectionTroubleMessage)
	}
}

// trySearch runs a search and formats the results into a bot reply. Any
// failure, including missing credentials, reads as "no special answer
// available" and the caller falls through.
func (d *Dispatcher) trySearch(ctx context.Context, conversationID, query string) (string, bool) {
	results, err := d.search.Search(ctx, query, constants.MaxSearchResults)
	if err != nil {
		if !errors.Is(err, ports.ErrSearchUnavailable) {
			d.logger.Warn("search lookup failed",
				zap.String("query", query),
				zap.Error(err))
		}
		return "", false
	}
	if len(results) == 0 {
		return "", false
	}

	return FormatSearchResults(results, d.profiler.FollowUp(conversationID)), true
}

func (d *Dispatcher) appendBot(ctx context.Context, conversationID, content string) (*entities.Message, error) {
	message := entities.NewMessage(conversationID, entities.SenderBot, content)
	if err := d.registry.AppendMessage(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (d *Dispatcher) acquire(conversationID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.inFlight[conversationID] {
		return ErrDispatchInFlight
	}
	d.inFlight[conversationID] = true
	return nil
}

func (d *Dispatcher) release(conversationID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.inFlight, conversationID)
}
