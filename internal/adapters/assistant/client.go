package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/username/estatechat/internal/domain/ports"
	"github.com/username/estatechat/internal/pkg/constants"
)

// Client implements the AssistantPort interface against the remote chat
// endpoint. It speaks the endpoint's bespoke JSON contract: a flat request
// and an envelope with a success flag.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new assistant client. A non-positive timeout falls back
// to the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = constants.LongHTTPTimeout
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type messageResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response,omitempty"`
	UserID   string `json:"userId,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Send posts a user message to the remote endpoint. A response with
// success=false is reported as ErrAssistantDeclined so callers can fall back
// without treating it as a transport failure.
func (c *Client) Send(ctx context.Context, req ports.AssistantRequest) (*ports.AssistantReply, error) {
	if req.UISize == (ports.UISize{}) {
		req.UISize = ports.DefaultUISize
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST",
		c.baseURL+"/api/chatbot/message", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}

	var msgResp messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&msgResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if !msgResp.Success {
		return nil, fmt.Errorf("%w: %s", ports.ErrAssistantDeclined, msgResp.Error)
	}

	return &ports.AssistantReply{
		Response: msgResp.Response,
		UserID:   msgResp.UserID,
	}, nil
}

// Ping checks endpoint reachability for health reporting.
func (c *Client) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to reach endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}

	return nil
}
