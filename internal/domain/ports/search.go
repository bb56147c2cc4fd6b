package ports

import (
	"context"
	"errors"
)

// ErrSearchUnavailable indicates the search adapter is not configured (for
// example missing API credentials). The dispatch flow degrades to the primary
// endpoint when it sees this.
var ErrSearchUnavailable = errors.New("search unavailable")

// SearchResult is one hit from the third-party search API.
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// SearchPort defines the interface to the third-party search API.
type SearchPort interface {
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}
