package bot

import (
	"context"
	"strings"
	"sync"

	"airdrop_backend/pkg/logger"
	"go.uber.org/zap"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

const (
	cmdStart  = "/start"
	cmdVerify = "/verify"
	cmdMyID   = "/myid"
	cmdHelp   = "/help"
)

// Dispatcher answers one Telegram update at a time. Apart from the wallet a
// user last sent with /start, it keeps no state between updates.
type Dispatcher struct {
	platform Platform
	messages Messages

	mu      sync.Mutex
	pending map[int64]string
}

func NewDispatcher(platform Platform, messages Messages) *Dispatcher {
	return &Dispatcher{
		platform: platform,
		messages: messages,
		pending:  make(map[int64]string),
	}
}

type caller struct {
	chatID   int64
	userID   int64
	username string
}

func (d *Dispatcher) Handle(ctx context.Context, update tgbotapi.Update) error {
	if msg := update.Message; msg != nil && msg.From != nil && msg.Chat != nil {
		if err := d.handleMessage(ctx, msg); err != nil {
			return err
		}
	}

	if cq := update.CallbackQuery; cq != nil && cq.From != nil {
		return d.handleCallback(ctx, cq)
	}

	return nil
}

func (d *Dispatcher) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	c := caller{
		chatID:   msg.Chat.ID,
		userID:   msg.From.ID,
		username: displayName(msg.From),
	}

	text := msg.Text
	switch {
	case strings.HasPrefix(text, cmdStart):
		return d.start(ctx, c, text)
	case strings.HasPrefix(text, cmdVerify):
		return d.verify(ctx, c)
	case strings.HasPrefix(text, cmdMyID):
		return d.send(ctx, c.chatID, d.messages.MyID(c.userID, msg.From.UserName), nil)
	case strings.HasPrefix(text, cmdHelp):
		return d.send(ctx, c.chatID, d.messages.Help(), nil)
	default:
		return nil
	}
}

func (d *Dispatcher) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) error {
	log := logger.Logger()

	c := caller{
		chatID:   cq.From.ID,
		userID:   cq.From.ID,
		username: displayName(cq.From),
	}
	if cq.Message != nil && cq.Message.Chat != nil {
		c.chatID = cq.Message.Chat.ID
	}

	if err := d.platform.AnswerCallback(ctx, cq.ID, callbackProcessing); err != nil {
		log.Warn("failed to answer callback query",
			zap.String("callback_id", cq.ID),
			zap.Int64("telegram_id", c.userID),
			zap.Error(err))
	}

	if cq.Data == CallbackVerifyMembership {
		return d.verify(ctx, c)
	}
	return nil
}

func (d *Dispatcher) start(ctx context.Context, c caller, text string) error {
	welcome := d.messages.Welcome(c.userID)

	wallet := startArgument(text)
	if wallet == "" {
		return d.send(ctx, c.chatID, welcome, nil)
	}

	d.mu.Lock()
	d.pending[c.userID] = wallet
	d.mu.Unlock()

	keyboard := d.messages.StartKeyboard()
	return d.send(ctx, c.chatID, welcome+d.messages.WalletLinked(wallet), &keyboard)
}

// verify never fails on a membership lookup error; the user gets an error reply instead.
func (d *Dispatcher) verify(ctx context.Context, c caller) error {
	log := logger.Logger()

	status, err := d.platform.ChatMemberStatus(ctx, c.userID)
	if err != nil {
		log.Error("failed to check membership",
			zap.Int64("telegram_id", c.userID),
			zap.Error(err))
		return d.send(ctx, c.chatID, d.messages.VerifyError(err), nil)
	}

	if !IsMember(status) {
		log.Info("membership check failed",
			zap.Int64("telegram_id", c.userID),
			zap.String("status", status))
		return d.send(ctx, c.chatID, d.messages.VerifyFailed(status), nil)
	}

	log.Info("membership verified",
		zap.Int64("telegram_id", c.userID),
		zap.String("status", status))

	keyboard := d.messages.ClaimKeyboard()
	return d.send(ctx, c.chatID, d.messages.VerifySuccess(c.userID, c.username, status, d.PendingWallet(c.userID)), &keyboard)
}

// PendingWallet returns the wallet the user last supplied with /start.
func (d *Dispatcher) PendingWallet(userID int64) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending[userID]
}

func (d *Dispatcher) send(ctx context.Context, chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	if err := d.platform.SendMessage(ctx, chatID, text, keyboard); err != nil {
		return errors.Wrapf(err, "failed to reply to chat %d", chatID)
	}
	return nil
}

func startArgument(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

func displayName(u *tgbotapi.User) string {
	if u.UserName != "" {
		return u.UserName
	}
	return u.FirstName
}
