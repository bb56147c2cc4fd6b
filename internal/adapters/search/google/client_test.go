package google

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/username/estatechat/internal/domain/ports"
)

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("key") != "test-key" {
			t.Errorf("expected key test-key, got %q", q.Get("key"))
		}
		if q.Get("cx") != "test-cx" {
			t.Errorf("expected cx test-cx, got %q", q.Get("cx"))
		}
		if q.Get("q") != "2BHK flat in Vesu Surat" {
			t.Errorf("unexpected query %q", q.Get("q"))
		}
		if q.Get("num") != "3" {
			t.Errorf("expected num 3, got %q", q.Get("num"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"items": [
				{"title": "Sunrise Residency", "snippet": "2BHK flats from 45 lakhs", "link": "https://example.com/p/1"},
				{"title": "Green Valley", "snippet": "Premium 2BHK in Vesu", "link": "https://example.com/p/2"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key", "test-cx", server.URL, 0, 0)
	results, err := client.Search(context.Background(), "2BHK flat in Vesu Surat", 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Title != "Sunrise Residency" {
		t.Errorf("unexpected first title %q", results[0].Title)
	}
	if results[1].Link != "https://example.com/p/2" {
		t.Errorf("unexpected second link %q", results[1].Link)
	}
}

func TestSearchNoItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient("test-key", "test-cx", server.URL, 0, 0)
	results, err := client.Search(context.Background(), "nothing here", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestSearchUnconfigured(t *testing.T) {
	client := NewClient("", "", "", 0, 0)
	_, err := client.Search(context.Background(), "anything", 5)
	if !errors.Is(err, ports.ErrSearchUnavailable) {
		t.Fatalf("expected ErrSearchUnavailable, got %v", err)
	}
}

func TestSearchRespectsConfiguredMax(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("num"); got != "1" {
			t.Errorf("expected num 1, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"items": [
				{"title": "Sunrise Residency", "snippet": "2BHK flats", "link": "https://example.com/p/1"},
				{"title": "Green Valley", "snippet": "Premium 2BHK", "link": "https://example.com/p/2"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key", "test-cx", server.URL, 2*time.Second, 1)
	if client.httpClient.Timeout != 2*time.Second {
		t.Errorf("expected configured timeout, got %v", client.httpClient.Timeout)
	}

	// A limit above the configured cap is clamped down to it.
	results, err := client.Search(context.Background(), "2BHK in Vesu", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestSearchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient("test-key", "test-cx", server.URL, 0, 0)
	_, err := client.Search(context.Background(), "anything", 5)
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
}
