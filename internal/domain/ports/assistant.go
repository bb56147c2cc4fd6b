package ports

import (
	"context"
	"errors"
)

// ErrAssistantDeclined indicates the remote endpoint answered but flagged an
// application-level failure (success=false). Transport failures are returned
// as ordinary errors.
var ErrAssistantDeclined = errors.New("assistant declined the request")

// UISize is the widget viewport measured at send time.
type UISize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultUISize is used when the caller cannot measure the viewport.
var DefaultUISize = UISize{Width: 400, Height: 600}

// AssistantRequest is the payload for the remote chat endpoint.
type AssistantRequest struct {
	Message        string `json:"message"`
	UserID         string `json:"userId,omitempty"`
	UISize         UISize `json:"uiSize"`
	ConversationID string `json:"conversationId"`
}

// AssistantReply is a successful answer from the remote chat endpoint. UserID
// is set when the endpoint assigns an identity on the first exchange.
type AssistantReply struct {
	Response string
	UserID   string
}

// AssistantPort defines the interface to the remote chat endpoint.
type AssistantPort interface {
	Send(ctx context.Context, req AssistantRequest) (*AssistantReply, error)
}
