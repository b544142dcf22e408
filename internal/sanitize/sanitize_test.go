package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayerName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Anne Bonny", "Anne Bonny"},
		{"trims", "  Calico Jack  ", "Calico Jack"},
		{"strips markup", "<b>Salty</b> Pete", "Salty Pete"},
		{"strips script tags", "<script>alert(1)</script>Jack", "alert1Jack"},
		{"drops disallowed characters", "Red$Rackham!", "RedRackham"},
		{"keeps punctuation", "O'Malley-Jr_2.", "O'Malley-Jr_2."},
		{"empty falls back", "", DefaultPlayerName},
		{"only junk falls back", "<<>>$$", DefaultPlayerName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlayerName(tt.in))
		})
	}
}

func TestPlayerNameTruncates(t *testing.T) {
	got := PlayerName(strings.Repeat("a", 100))
	assert.Len(t, got, PlayerNameMaxLength)
}

func TestChatMessage(t *testing.T) {
	assert.Equal(t, "ahoy", ChatMessage("  ahoy  "))
	assert.Equal(t, "click me", ChatMessage(`<a href="x">click me</a>`))
	assert.Equal(t, "alert(1)", ChatMessage("javascript:alert(1)"))
	assert.Equal(t, "x alert(1)", ChatMessage("x onclick=alert(1)"))
	assert.Len(t, ChatMessage(strings.Repeat("b", 900)), ChatMessageMaxLength)
}
