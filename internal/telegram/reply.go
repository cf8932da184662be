package telegram

import (
	"errors"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// ErrNoChatID is returned when an update carries a message without a chat.
var ErrNoChatID = errors.New("telegram: message has no chat id")

// Reply is one outbound message, addressed to a known chat.
type Reply struct {
	ChatID    int64
	Text      string
	ParseMode string
}

// NewReply builds a Reply using Markdown formatting.
func NewReply(chatID int64, text string) (Reply, error) {
	if chatID == 0 {
		return Reply{}, ErrNoChatID
	}
	return Reply{ChatID: chatID, Text: text, ParseMode: telego.ModeMarkdown}, nil
}

// Params converts the reply into sendMessage parameters.
func (r Reply) Params() *telego.SendMessageParams {
	params := tu.Message(tu.ID(r.ChatID), r.Text)
	params.ParseMode = r.ParseMode
	return params
}
