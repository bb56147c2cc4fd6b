package entities

import (
	"strings"
	"testing"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "short message used verbatim",
			message: "hello",
			want:    "hello",
		},
		{
			name:    "long message truncated to 30 runes",
			message: "Looking for a 2BHK in Vesu under 80 lakhs",
			want:    "Looking for a 2BHK in Vesu und...",
		},
		{
			name:    "exactly 30 runes kept without ellipsis",
			message: strings.Repeat("a", 30),
			want:    strings.Repeat("a", 30),
		},
		{
			name:    "multibyte runes counted as characters",
			message: strings.Repeat("क", 31),
			want:    strings.Repeat("क", 30) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConversation()
			if !c.DeriveTitle(tt.message) {
				t.Fatal("expected title rewrite")
			}
			if c.Title != tt.want {
				t.Errorf("got title %q, want %q", c.Title, tt.want)
			}
		})
	}
}

func TestDeriveTitleOnlyOnce(t *testing.T) {
	c := NewConversation()
	if !c.HasSentinelTitle() {
		t.Fatal("new conversation should carry the sentinel title")
	}

	if !c.DeriveTitle("first message") {
		t.Fatal("expected first rewrite to happen")
	}
	if c.DeriveTitle("second message") {
		t.Fatal("title must not be rewritten twice")
	}
	if c.Title != "first message" {
		t.Errorf("got title %q, want %q", c.Title, "first message")
	}
}
