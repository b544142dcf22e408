// Package sanitize cleans untrusted names and chat text received from a peer
// before they are stored or displayed.
package sanitize

import (
	"regexp"
	"strings"
)

const (
	// PlayerNameMaxLength bounds a display name.
	PlayerNameMaxLength = 30
	// ChatMessageMaxLength bounds a chat line.
	ChatMessageMaxLength = 500
	// DefaultPlayerName is used when nothing survives sanitization.
	DefaultPlayerName = "Player"
)

var (
	htmlTag        = regexp.MustCompile(`<[^>]*>`)
	disallowedName = regexp.MustCompile(`[^a-zA-Z0-9\s\-_'.]`)
	scriptScheme   = regexp.MustCompile(`(?i)javascript:`)
	eventHandler   = regexp.MustCompile(`(?i)on\w+\s*=`)
)

// PlayerName strips markup, restricts the name to letters, digits, spaces and
// - _ ' . and truncates it. An empty result falls back to DefaultPlayerName.
func PlayerName(raw string) string {
	s := htmlTag.ReplaceAllString(raw, "")
	s = disallowedName.ReplaceAllString(s, "")
	s = truncate(strings.TrimSpace(s), PlayerNameMaxLength)
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultPlayerName
	}
	return s
}

// ChatMessage trims and truncates a chat line and removes markup and script
// injection patterns.
func ChatMessage(raw string) string {
	s := truncate(strings.TrimSpace(raw), ChatMessageMaxLength)
	s = htmlTag.ReplaceAllString(s, "")
	s = scriptScheme.ReplaceAllString(s, "")
	s = eventHandler.ReplaceAllString(s, "")
	return s
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
