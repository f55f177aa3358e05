package bot

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

type TelegramClient struct {
	api    *tgbotapi.BotAPI
	chatID int64
	// chatUsername is used when the community is configured by @username.
	chatUsername string
}

// NewTelegramClient builds a client without contacting Telegram. The chat may
// be a numeric ID or a public @username.
func NewTelegramClient(token, chat string, timeout time.Duration) *TelegramClient {
	return NewTelegramClientWithEndpoint(token, chat, timeout, tgbotapi.APIEndpoint)
}

// NewTelegramClientWithEndpoint is NewTelegramClient against a custom Bot API
// endpoint format, e.g. a local Bot API server.
func NewTelegramClientWithEndpoint(token, chat string, timeout time.Duration, endpoint string) *TelegramClient {
	api := &tgbotapi.BotAPI{
		Token:  token,
		Client: &http.Client{Timeout: timeout},
		Buffer: 100,
	}
	api.SetAPIEndpoint(endpoint)

	c := &TelegramClient{api: api}

	chat = strings.TrimSpace(chat)
	if id, err := strconv.ParseInt(chat, 10, 64); err == nil {
		c.chatID = id
	} else if chat != "" {
		c.chatUsername = "@" + strings.TrimPrefix(chat, "@")
	}

	return c
}

func (c *TelegramClient) SendMessage(ctx context.Context, chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}

	if _, err := c.api.Send(msg); err != nil {
		return errors.Wrap(err, "sendMessage")
	}
	return nil
}

func (c *TelegramClient) ChatMemberStatus(ctx context.Context, userID int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if c.chatID == 0 && c.chatUsername == "" {
		return "", errors.New("community chat is not configured")
	}

	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID:             c.chatID,
			SuperGroupUsername: c.chatUsername,
			UserID:             userID,
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "getChatMember")
	}
	return member.Status, nil
}

func (c *TelegramClient) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := c.api.Request(tgbotapi.NewCallbackWithAlert(callbackID, text)); err != nil {
		return errors.Wrap(err, "answerCallbackQuery")
	}
	return nil
}

// SetWebhook points Telegram at the public webhook URL.
func (c *TelegramClient) SetWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return errors.Wrap(err, "invalid webhook url")
	}
	if _, err := c.api.Request(wh); err != nil {
		return errors.Wrap(err, "setWebhook")
	}
	return nil
}
