package service

import (
	"context"
	"testing"
	"time"

	"airdrop_backend/internal/model"
	"airdrop_backend/internal/repository"
	"airdrop_backend/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func points(n int64) *int64 {
	return &n
}

func TestLedgerService_CompleteTask(t *testing.T) {
	mockRepo := &mocks.MockProgressRepository{}
	service := NewLedgerService(mockRepo)

	tests := []struct {
		name          string
		input         CompleteTaskInput
		setupMocks    func(mockRepo *mocks.MockProgressRepository)
		expectedError error
		check         func(t *testing.T, p *model.UserProgress)
	}{
		{
			name:          "Missing wallet",
			input:         CompleteTaskInput{TaskID: "follow-x", Points: points(5)},
			setupMocks:    func(mockRepo *mocks.MockProgressRepository) {},
			expectedError: ErrMissingFields,
		},
		{
			name:          "Missing task",
			input:         CompleteTaskInput{WalletAddress: "0xabc", Points: points(5)},
			setupMocks:    func(mockRepo *mocks.MockProgressRepository) {},
			expectedError: ErrMissingFields,
		},
		{
			name:          "Missing points",
			input:         CompleteTaskInput{WalletAddress: "0xabc", TaskID: "follow-x"},
			setupMocks:    func(mockRepo *mocks.MockProgressRepository) {},
			expectedError: ErrMissingFields,
		},
		{
			name:          "Negative points",
			input:         CompleteTaskInput{WalletAddress: "0xabc", TaskID: "follow-x", Points: points(-1)},
			setupMocks:    func(mockRepo *mocks.MockProgressRepository) {},
			expectedError: ErrInvalidPoints,
		},
		{
			name:  "Successful completion normalizes the wallet",
			input: CompleteTaskInput{WalletAddress: " 0xABC ", TaskID: "follow-x", Points: points(5)},
			setupMocks: func(mockRepo *mocks.MockProgressRepository) {
				mockRepo.On("CompleteTask", mock.Anything, model.TaskCompletion{
					WalletAddress: "0xabc",
					TaskID:        "follow-x",
					Points:        5,
				}).Return(&model.UserProgress{WalletAddress: "0xabc", Points: 5, CompletedTasks: []string{"follow-x"}}, nil)
			},
			check: func(t *testing.T, p *model.UserProgress) {
				assert.Equal(t, int64(5), p.Points)
			},
		},
		{
			name:  "Duplicate task",
			input: CompleteTaskInput{WalletAddress: "0xabc", TaskID: "follow-x", Points: points(5)},
			setupMocks: func(mockRepo *mocks.MockProgressRepository) {
				mockRepo.On("CompleteTask", mock.Anything, mock.Anything).
					Return(nil, repository.ErrTaskAlreadyCompleted)
			},
			expectedError: ErrTaskAlreadyCompleted,
		},
		{
			name:  "Telegram id required",
			input: CompleteTaskInput{WalletAddress: "0xabc", TaskID: model.TaskJoinTelegram, Points: points(10)},
			setupMocks: func(mockRepo *mocks.MockProgressRepository) {
				mockRepo.On("CompleteTask", mock.Anything, mock.Anything).
					Return(nil, repository.ErrTelegramIDRequired)
			},
			expectedError: ErrTelegramIDRequired,
		},
		{
			name:  "Telegram already linked",
			input: CompleteTaskInput{WalletAddress: "0xabc", TaskID: model.TaskJoinTelegram, Points: points(10), TelegramUserID: "42"},
			setupMocks: func(mockRepo *mocks.MockProgressRepository) {
				mockRepo.On("CompleteTask", mock.Anything, mock.Anything).
					Return(nil, repository.ErrTelegramAlreadyLinked)
			},
			expectedError: ErrTelegramAlreadyLinked,
		},
		{
			name: "Authenticated telegram id fills a missing one",
			input: CompleteTaskInput{
				WalletAddress:           "0xabc",
				TaskID:                  model.TaskJoinTelegram,
				Points:                  points(10),
				AuthenticatedTelegramID: "42",
			},
			setupMocks: func(mockRepo *mocks.MockProgressRepository) {
				mockRepo.On("CompleteTask", mock.Anything, mock.MatchedBy(func(c model.TaskCompletion) bool {
					return c.TelegramUserID == "42"
				})).Return(&model.UserProgress{WalletAddress: "0xabc", Points: 10}, nil)
			},
		},
		{
			name: "Authenticated telegram id mismatch",
			input: CompleteTaskInput{
				WalletAddress:           "0xabc",
				TaskID:                  model.TaskJoinTelegram,
				Points:                  points(10),
				TelegramUserID:          "43",
				AuthenticatedTelegramID: "42",
			},
			setupMocks:    func(mockRepo *mocks.MockProgressRepository) {},
			expectedError: ErrTelegramMismatch,
		},
		{
			name:  "Balance overflow",
			input: CompleteTaskInput{WalletAddress: "0xabc", TaskID: "follow-x", Points: points(1)},
			setupMocks: func(mockRepo *mocks.MockProgressRepository) {
				mockRepo.On("CompleteTask", mock.Anything, mock.Anything).
					Return(nil, repository.ErrPointsOverflow)
			},
			expectedError: ErrInvalidPoints,
		},
		{
			name: "Telegram id is canonicalized",
			input: CompleteTaskInput{
				WalletAddress:           "0xabc",
				TaskID:                  model.TaskJoinTelegram,
				Points:                  points(10),
				TelegramUserID:          "0042",
				AuthenticatedTelegramID: "42",
			},
			setupMocks: func(mockRepo *mocks.MockProgressRepository) {
				mockRepo.On("CompleteTask", mock.Anything, mock.MatchedBy(func(c model.TaskCompletion) bool {
					return c.TelegramUserID == "42"
				})).Return(&model.UserProgress{WalletAddress: "0xabc", Points: 10}, nil)
			},
		},
		{
			name:          "Invalid telegram id",
			input:         CompleteTaskInput{WalletAddress: "0xabc", TaskID: model.TaskJoinTelegram, Points: points(10), TelegramUserID: "abc"},
			setupMocks:    func(mockRepo *mocks.MockProgressRepository) {},
			expectedError: ErrInvalidTelegramID,
		},
		{
			name:  "Unexpected repository error",
			input: CompleteTaskInput{WalletAddress: "0xabc", TaskID: "follow-x", Points: points(5)},
			setupMocks: func(mockRepo *mocks.MockProgressRepository) {
				mockRepo.On("CompleteTask", mock.Anything, mock.Anything).
					Return(nil, assert.AnError)
			},
			expectedError: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.ExpectedCalls = nil
			mockRepo.Calls = nil

			tt.setupMocks(mockRepo)

			p, err := service.CompleteTask(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, p)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, p)
			}

			if tt.check != nil {
				tt.check(t, p)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestLedgerService_GetProgress(t *testing.T) {
	mockRepo := &mocks.MockProgressRepository{}
	service := NewLedgerService(mockRepo)

	_, err := service.GetProgress(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrWalletRequired)

	mockRepo.On("GetOrCreate", mock.Anything, "0xABC").
		Return(&model.UserProgress{WalletAddress: "0xabc"}, nil)

	p, err := service.GetProgress(context.Background(), "0xABC")
	assert.NoError(t, err)
	assert.Equal(t, "0xabc", p.WalletAddress)

	mockRepo.AssertExpectations(t)
}

func TestLedgerService_CheckTelegram(t *testing.T) {
	mockRepo := &mocks.MockProgressRepository{}
	service := NewLedgerService(mockRepo)

	_, err := service.CheckTelegram(context.Background(), "", "0xabc")
	assert.ErrorIs(t, err, ErrTelegramIDRequired)

	_, err = service.CheckTelegram(context.Background(), "abc", "0xabc")
	assert.ErrorIs(t, err, ErrInvalidTelegramID)

	linked := "0xabc"
	mockRepo.On("CheckTelegram", mock.Anything, model.TelegramID("42"), "0xdef").
		Return(&model.TelegramAvailability{Available: false, LinkedWallet: &linked}, nil)

	res, err := service.CheckTelegram(context.Background(), "042", "0xdef")
	assert.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, "0xabc", *res.LinkedWallet)

	mockRepo.AssertExpectations(t)
}

func TestLedgerService_LeaderboardAndStatsErrors(t *testing.T) {
	mockRepo := &mocks.MockProgressRepository{}
	service := NewLedgerService(mockRepo)

	mockRepo.On("Leaderboard", mock.Anything, 10).Return(nil, assert.AnError)
	mockRepo.On("Stats", mock.Anything).Return(nil, assert.AnError)

	_, err := service.GetLeaderboard(context.Background(), 10)
	assert.ErrorIs(t, err, assert.AnError)

	_, err = service.GetStats(context.Background())
	assert.ErrorIs(t, err, assert.AnError)

	mockRepo.AssertExpectations(t)
}

func TestLedgerService_WithMemoryRepository(t *testing.T) {
	service := NewLedgerService(repository.New())
	ctx := context.Background()

	_, err := service.CompleteTask(ctx, CompleteTaskInput{WalletAddress: "0xW1", TaskID: model.TaskJoinTelegram, Points: points(10), TelegramUserID: "7"})
	assert.NoError(t, err)

	_, err = service.CompleteTask(ctx, CompleteTaskInput{WalletAddress: "0xW2", TaskID: model.TaskJoinTelegram, Points: points(10), TelegramUserID: "7"})
	assert.ErrorIs(t, err, ErrTelegramAlreadyLinked)

	_, err = service.CompleteTask(ctx, CompleteTaskInput{WalletAddress: "0xw1", TaskID: model.TaskJoinTelegram, Points: points(10), TelegramUserID: "7"})
	assert.ErrorIs(t, err, ErrTaskAlreadyCompleted)

	p, err := service.GetProgress(ctx, "0XW1")
	assert.NoError(t, err)
	assert.Equal(t, int64(10), p.Points)
	assert.WithinDuration(t, time.Now(), p.LastUpdated, time.Minute)
}
