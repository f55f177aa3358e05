package mocks

import (
	"github.com/stretchr/testify/mock"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type MockUpdateQueue struct {
	mock.Mock
}

func (m *MockUpdateQueue) Enqueue(update tgbotapi.Update) bool {
	args := m.Called(update)
	return args.Bool(0)
}
