package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/username/estatechat/internal/domain/ports"
	"github.com/username/estatechat/internal/pkg/constants"
)

func TestNewClientTimeout(t *testing.T) {
	client := NewClient("http://localhost:3000", 5*time.Second)
	if client.httpClient.Timeout != 5*time.Second {
		t.Errorf("expected configured timeout, got %v", client.httpClient.Timeout)
	}

	client = NewClient("http://localhost:3000", 0)
	if client.httpClient.Timeout != constants.LongHTTPTimeout {
		t.Errorf("expected default timeout, got %v", client.httpClient.Timeout)
	}
}

func TestSend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chatbot/message" {
			t.Errorf("expected path /api/chatbot/message, got %s", r.URL.Path)
		}
		if r.Method != "POST" {
			t.Errorf("expected POST, got %s", r.Method)
		}

		var req ports.AssistantRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Message != "2BHK in Vesu" {
			t.Errorf("expected message '2BHK in Vesu', got %q", req.Message)
		}
		if req.ConversationID != "conv-1" {
			t.Errorf("expected conversation id conv-1, got %q", req.ConversationID)
		}

		json.NewEncoder(w).Encode(messageResponse{
			Success:  true,
			Response: "Here are some options in Vesu.",
			UserID:   "user-42",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	reply, err := client.Send(context.Background(), ports.AssistantRequest{
		Message:        "2BHK in Vesu",
		UISize:         ports.UISize{Width: 400, Height: 600},
		ConversationID: "conv-1",
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if reply.Response != "Here are some options in Vesu." {
		t.Errorf("unexpected response: %q", reply.Response)
	}
	if reply.UserID != "user-42" {
		t.Errorf("expected user id user-42, got %q", reply.UserID)
	}
}

func TestSendDefaultUISize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ports.AssistantRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.UISize != ports.DefaultUISize {
			t.Errorf("expected default ui size, got %+v", req.UISize)
		}
		json.NewEncoder(w).Encode(messageResponse{Success: true, Response: "ok"})
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	_, err := client.Send(context.Background(), ports.AssistantRequest{
		Message:        "hello",
		ConversationID: "conv-1",
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
}

func TestSendDeclined(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(messageResponse{
			Success: false,
			Error:   "model overloaded",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	_, err := client.Send(context.Background(), ports.AssistantRequest{
		Message:        "hello",
		ConversationID: "conv-1",
	})
	if !errors.Is(err, ports.ErrAssistantDeclined) {
		t.Fatalf("expected ErrAssistantDeclined, got %v", err)
	}
}

func TestSendServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	_, err := client.Send(context.Background(), ports.AssistantRequest{
		Message:        "hello",
		ConversationID: "conv-1",
	})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if errors.Is(err, ports.ErrAssistantDeclined) {
		t.Fatal("transport failures should not look like declines")
	}
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("expected path /health, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}
