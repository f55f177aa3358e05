package mocks

import (
	"context"

	"airdrop_backend/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) GetOrCreate(ctx context.Context, wallet string) (*model.UserProgress, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserProgress), args.Error(1)
}

func (m *MockProgressRepository) CompleteTask(ctx context.Context, c model.TaskCompletion) (*model.UserProgress, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserProgress), args.Error(1)
}

func (m *MockProgressRepository) CheckTelegram(ctx context.Context, telegramID model.TelegramID, wallet string) (*model.TelegramAvailability, error) {
	args := m.Called(ctx, telegramID, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TelegramAvailability), args.Error(1)
}

func (m *MockProgressRepository) Leaderboard(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.LeaderboardEntry), args.Error(1)
}

func (m *MockProgressRepository) Stats(ctx context.Context) (*model.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stats), args.Error(1)
}

func (m *MockProgressRepository) Snapshot(ctx context.Context, filter model.ProgressFilter) ([]*model.UserProgress, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.UserProgress), args.Error(1)
}
