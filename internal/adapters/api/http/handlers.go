package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/username/estatechat/internal/domain/entities"
	"github.com/username/estatechat/internal/domain/ports"
	"github.com/username/estatechat/internal/domain/services"
	"github.com/username/estatechat/internal/pkg/constants"
	"github.com/username/estatechat/internal/pkg/httputil"
	"github.com/username/estatechat/internal/pkg/markdown"
)

// APIHandlers contains all HTTP API handlers
type APIHandlers struct {
	registry    *services.Registry
	dispatcher  *services.Dispatcher
	profiler    *services.Profiler
	storage     ports.StoragePort
	renderer    *markdown.Renderer
	logger      *zap.Logger
	corsEnabled bool
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(registry *services.Registry, dispatcher *services.Dispatcher, profiler *services.Profiler, storage ports.StoragePort, logger *zap.Logger, corsEnabled bool) *APIHandlers {
	return &APIHandlers{
		registry:    registry,
		dispatcher:  dispatcher,
		profiler:    profiler,
		storage:     storage,
		renderer:    markdown.NewRenderer(),
		logger:      logger,
		corsEnabled: corsEnabled,
	}
}

// SetupRoutes configures all API routes
func (h *APIHandlers) SetupRoutes(r *gin.Engine) {
	corsConfig := httputil.DefaultMiddlewareConfig
	corsConfig.EnableCORS = h.corsEnabled
	r.Use(httputil.CORSMiddleware(corsConfig))
	r.Use(httputil.TimeoutMiddleware(httputil.DefaultTimeouts))

	r.GET("/health", h.handleHealth)

	api := r.Group("/api/v1")
	{
		api.GET("/conversations", h.listConversations)
		api.POST("/conversations", h.createConversation)
		api.POST("/conversations/:id/activate", h.activateConversation)
		api.DELETE("/conversations/:id", h.deleteConversation)

		api.GET("/conversations/:id/messages", h.getMessages)
		api.POST("/conversations/:id/messages", h.sendMessage)

		api.POST("/history/clear", h.clearHistory)
	}
}

// Health check endpoint
func (h *APIHandlers) handleHealth(c *gin.Context) {
	status := gin.H{
		"status":    constants.StatusOK,
		"timestamp": time.Now().Unix(),
		"service":   constants.ServiceName,
	}

	ctx, cancel := httputil.WithShortTimeout()
	defer cancel()

	if err := h.storage.Ping(ctx); err != nil {
		status["status"] = constants.StatusServiceUnavailable
		status["storage"] = "error"
		status["storage_error"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}
	status["storage"] = constants.StatusOK

	c.JSON(http.StatusOK, status)
}

// messageView is a message enriched with display-ready HTML: bot markdown is
// rendered, user text is escaped.
type messageView struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Sender         string    `json:"sender"`
	Content        string    `json:"message"`
	HTML           string    `json:"html"`
	Timestamp      time.Time `json:"timestamp"`
}

func (h *APIHandlers) viewOf(message *entities.Message) messageView {
	view := messageView{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		Sender:         string(message.Sender),
		Content:        message.Content,
		Timestamp:      message.CreatedAt,
	}

	if message.IsFromBot() {
		html, err := h.renderer.RenderBot(message.Content)
		if err != nil {
			h.logger.Warn("failed to render bot message", zap.String("message_id", message.ID), zap.Error(err))
			html = markdown.EscapeUser(message.Content)
		}
		view.HTML = html
	} else {
		view.HTML = markdown.EscapeUser(message.Content)
	}

	return view
}

// Conversation handlers

func (h *APIHandlers) listConversations(c *gin.Context) {
	httputil.SuccessResponse(c, gin.H{
		"conversations": h.registry.Conversations(),
		"active_id":     h.registry.ActiveID(),
	})
}

func (h *APIHandlers) createConversation(c *gin.Context) {
	ctx, cancel := httputil.WithOperationContext(c, constants.OperationTypeStorage)
	defer cancel()

	conversation := h.registry.CreateConversation(ctx)
	httputil.CreatedResponse(c, conversation)
}

func (h *APIHandlers) activateConversation(c *gin.Context) {
	id, err := httputil.RequiredParam(c, "id")
	if err != nil {
		httputil.BadRequestError(c, err)
		return
	}

	if err := h.registry.SelectConversation(id); err != nil {
		httputil.NotFoundError(c, err)
		return
	}

	httputil.SuccessResponse(c, gin.H{"active_id": id})
}

func (h *APIHandlers) deleteConversation(c *gin.Context) {
	id, err := httputil.RequiredParam(c, "id")
	if err != nil {
		httputil.BadRequestError(c, err)
		return
	}

	ctx, cancel := httputil.WithOperationContext(c, constants.OperationTypeStorage)
	defer cancel()

	if err := h.registry.DeleteConversation(ctx, id); err != nil {
		httputil.NotFoundError(c, err)
		return
	}
	h.profiler.Forget(id)

	httputil.SuccessResponse(c, gin.H{"active_id": h.registry.ActiveID()})
}

// Message handlers

func (h *APIHandlers) getMessages(c *gin.Context) {
	id, err := httputil.RequiredParam(c, "id")
	if err != nil {
		httputil.BadRequestError(c, err)
		return
	}

	if !h.conversationExists(id) {
		httputil.NotFoundError(c, services.ErrConversationNotFound)
		return
	}

	messages := h.registry.MessagesFor(id)
	views := make([]messageView, 0, len(messages))
	for _, message := range messages {
		views = append(views, h.viewOf(message))
	}

	httputil.SuccessResponse(c, gin.H{"messages": views})
}

func (h *APIHandlers) sendMessage(c *gin.Context) {
	id, err := httputil.RequiredParam(c, "id")
	if err != nil {
		httputil.BadRequestError(c, err)
		return
	}

	var req struct {
		Content string       `json:"content"`
		UISize  ports.UISize `json:"ui_size"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequestError(c, err)
		return
	}

	ctx, cancel := httputil.WithOperationContext(c, constants.OperationTypeDispatch)
	defer cancel()

	reply, err := h.dispatcher.Send(ctx, id, req.Content, req.UISize)
	switch {
	case err == nil:
		httputil.SuccessResponse(c, gin.H{"reply": h.viewOf(reply)})
	case errors.Is(err, services.ErrEmptyMessage):
		httputil.BadRequestError(c, err)
	case errors.Is(err, services.ErrDispatchInFlight):
		httputil.ConflictError(c, err)
	case errors.Is(err, services.ErrConversationNotFound):
		httputil.NotFoundError(c, err)
	default:
		h.logger.Error("dispatch failed", zap.String("conversation_id", id), zap.Error(err))
		httputil.InternalServerError(c, err)
	}
}

// History handlers

func (h *APIHandlers) clearHistory(c *gin.Context) {
	var req struct {
		Confirm bool `json:"confirm"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequestError(c, err)
		return
	}

	ctx, cancel := httputil.WithOperationContext(c, constants.OperationTypeStorage)
	defer cancel()

	if err := h.registry.ClearAll(ctx, req.Confirm); err != nil {
		httputil.InternalServerError(c, err)
		return
	}
	if req.Confirm {
		h.profiler.Reset()
	}

	httputil.SuccessResponse(c, gin.H{
		"cleared":   req.Confirm,
		"active_id": h.registry.ActiveID(),
	})
}

func (h *APIHandlers) conversationExists(id string) bool {
	for _, conversation := range h.registry.Conversations() {
		if conversation.ID == id {
			return true
		}
	}
	return false
}
