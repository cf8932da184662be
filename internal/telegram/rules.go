package telegram

import (
	"fmt"
	"strings"
)

const (
	BotName = "Echo Filter Bot"
	Author  = "Kaustav Ray"

	// UsageHint is appended to the /start greeting.
	UsageHint = "Send me a message containing hello or hi to see the filter in action."
)

// ReplyText picks the reply for an incoming message. Matching is done on the
// lowercased text; replies quote the text exactly as it was sent.
// The first matching rule wins.
func ReplyText(text string) string {
	lowered := strings.ToLower(text)

	switch {
	case strings.HasPrefix(lowered, "/start"):
		return fmt.Sprintf("Hello! I am *%s*, built by %s.\n%s", BotName, Author, UsageHint)
	// Substring match: "history" and "shine" trigger the filter too.
	case strings.Contains(lowered, "hello"), strings.Contains(lowered, "hi"):
		return fmt.Sprintf("*Filter Activated!*\nYou said: %s", text)
	default:
		return fmt.Sprintf("You said: %s\nSorry, I only understand /start, hello and hi for now.", text)
	}
}
