package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBot(t *testing.T) {
	r := NewRenderer()

	out, err := r.RenderBot("**1. Sunrise Residency**\n\n[View details](https://example.com/p/1)")
	require.NoError(t, err)

	assert.Contains(t, out, "<strong>1. Sunrise Residency</strong>")
	assert.Contains(t, out, `<a href="https://example.com/p/1">View details</a>`)
}

func TestRenderBot_Table(t *testing.T) {
	r := NewRenderer()

	out, err := r.RenderBot("| Area | Price |\n|---|---|\n| Vesu | 80 lakhs |")
	require.NoError(t, err)

	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "Vesu")
}

func TestEscapeUser(t *testing.T) {
	escaped := EscapeUser(`<script>alert("hi")</script>`)

	assert.NotContains(t, escaped, "<script>")
	assert.Contains(t, escaped, "&lt;script&gt;")
}
