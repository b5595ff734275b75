package ai

import (
	"strings"

	"yukid/internal/types"
)

const (
	// HistoryLimit caps how many conversation turns ever reach a prompt.
	HistoryLimit = 10

	// historyMaxChars caps one message body inside prompt context.
	historyMaxChars = 500
)

// BuildContext renders recent conversation history as a prompt preamble.
// Messages must already be in chronological order. Returns "" for empty
// history so single-turn prompts carry no template overhead.
func BuildContext(history []types.Message) string {
	if len(history) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n## Recent Conversation History\n")
	for i, msg := range history {
		if i >= HistoryLimit {
			break
		}
		role := "Yuki"
		if msg.Role == "user" {
			role = "User"
		}
		b.WriteString(role)
		b.WriteString(": ")
		b.WriteString(truncate(msg.Content, historyMaxChars))
		b.WriteString("\n")
	}
	b.WriteString("\n---\nCurrent message:\n")
	return b.String()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
