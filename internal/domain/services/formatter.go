package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/username/estatechat/internal/domain/ports"
	"github.com/username/estatechat/internal/pkg/constants"
)

// Amounts like "45 lakhs", "1.2 crore" or "₹ 45,00,000" inside a snippet.
var snippetPricePattern = regexp.MustCompile(`(?i)(₹\s*[\d,]+(?:\.\d+)?\s*(?:lakh|lakhs|lac|lacs|crore|crores|cr)?|\b\d+(?:\.\d+)?\s*(?:lakh|lakhs|lac|lacs|crore|crores|cr)\b)`)

// FormatSearchResults renders up to five search hits as one markdown document
// followed by a single follow-up question.
func FormatSearchResults(results []ports.SearchResult, followUp string) string {
	if len(results) > constants.MaxSearchResults {
		results = results[:constants.MaxSearchResults]
	}

	var b strings.Builder
	b.WriteString("Here are some properties I found for you:\n\n")

	for i, result := range results {
		fmt.Fprintf(&b, "**%d. %s**\n\n", i+1, result.Title)
		if snippet := strings.TrimSpace(result.Snippet); snippet != "" {
			b.WriteString(snippet)
			b.WriteString("\n\n")
		}
		if price := snippetPricePattern.FindString(result.Snippet); price != "" {
			fmt.Fprintf(&b, "Price: %s\n\n", strings.TrimSpace(price))
		}
		if result.Link != "" {
			fmt.Fprintf(&b, "[View details](%s)\n\n", result.Link)
		}
	}

	b.WriteString(followUp)
	return b.String()
}
