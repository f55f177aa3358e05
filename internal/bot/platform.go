package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Platform is the subset of the chat platform the verification flow needs.
type Platform interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error
	// ChatMemberStatus reports the user's status in the configured community chat.
	ChatMemberStatus(ctx context.Context, userID int64) (string, error)
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// memberStatuses are the chat member statuses that count as belonging to the community.
var memberStatuses = map[string]bool{
	"creator":       true,
	"administrator": true,
	"member":        true,
	"restricted":    true,
}

func IsMember(status string) bool {
	return memberStatuses[status]
}
