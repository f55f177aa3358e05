package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type MockPlatform struct {
	mock.Mock
}

func (m *MockPlatform) SendMessage(ctx context.Context, chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	args := m.Called(ctx, chatID, text, keyboard)
	return args.Error(0)
}

func (m *MockPlatform) ChatMemberStatus(ctx context.Context, userID int64) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockPlatform) AnswerCallback(ctx context.Context, callbackID, text string) error {
	args := m.Called(ctx, callbackID, text)
	return args.Error(0)
}

type MockHandler struct {
	mock.Mock
}

func (m *MockHandler) Handle(ctx context.Context, update tgbotapi.Update) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}
