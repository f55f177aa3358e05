package service

import (
	"context"
	"errors"

	"airdrop_backend/internal/model"
)

var (
	ErrWalletRequired        = errors.New("wallet address required")
	ErrMissingFields         = errors.New("missing required fields: walletAddress, taskId, points")
	ErrInvalidPoints         = errors.New("points must be non-negative and keep the balance in range")
	ErrTaskAlreadyCompleted  = errors.New("task already completed")
	ErrTelegramIDRequired    = errors.New("telegram user id required")
	ErrTelegramAlreadyLinked = errors.New("this telegram account is already linked to another wallet")
	ErrInvalidTelegramID     = errors.New("telegram user id must be a positive integer")
	ErrTelegramMismatch      = errors.New("telegram user id does not match the authenticated telegram account")
)

type LedgerServiceI interface {
	GetProgress(ctx context.Context, wallet string) (*model.UserProgress, error)
	CompleteTask(ctx context.Context, in CompleteTaskInput) (*model.UserProgress, error)
	CheckTelegram(ctx context.Context, telegramID model.TelegramID, wallet string) (*model.TelegramAvailability, error)
	GetLeaderboard(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error)
	GetStats(ctx context.Context) (*model.Stats, error)
	Export(ctx context.Context, format ExportFormat) (*ExportResult, error)
}

// ProgressRepository is the campaign progress store. Implementations must apply
// CompleteTask atomically per wallet.
type ProgressRepository interface {
	GetOrCreate(ctx context.Context, wallet string) (*model.UserProgress, error)
	CompleteTask(ctx context.Context, c model.TaskCompletion) (*model.UserProgress, error)
	CheckTelegram(ctx context.Context, telegramID model.TelegramID, wallet string) (*model.TelegramAvailability, error)
	Leaderboard(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error)
	Stats(ctx context.Context) (*model.Stats, error)
	Snapshot(ctx context.Context, filter model.ProgressFilter) ([]*model.UserProgress, error)
}
