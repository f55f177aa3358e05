package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"airdrop_backend/internal/model"
	"airdrop_backend/internal/repository"
	"airdrop_backend/pkg/logger"

	"go.uber.org/zap"
)

type LedgerService struct {
	repo ProgressRepository
	now  func() time.Time
}

func NewLedgerService(repo ProgressRepository) *LedgerService {
	return &LedgerService{
		repo: repo,
		now:  time.Now,
	}
}

type CompleteTaskInput struct {
	WalletAddress  string
	TaskID         string
	Points         *int64
	TelegramUserID model.TelegramID

	// AuthenticatedTelegramID is the caller's Telegram ID taken from verified
	// mini-app init data. Empty when the request carried none.
	AuthenticatedTelegramID model.TelegramID
}

func (s *LedgerService) GetProgress(ctx context.Context, wallet string) (*model.UserProgress, error) {
	if model.NormalizeWallet(wallet) == "" {
		return nil, ErrWalletRequired
	}

	progress, err := s.repo.GetOrCreate(ctx, wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return progress, nil
}

func (s *LedgerService) CompleteTask(ctx context.Context, in CompleteTaskInput) (*model.UserProgress, error) {
	log := logger.Logger()

	wallet := model.NormalizeWallet(in.WalletAddress)
	taskID := strings.TrimSpace(in.TaskID)
	if wallet == "" || taskID == "" || in.Points == nil {
		return nil, ErrMissingFields
	}
	if *in.Points < 0 {
		return nil, ErrInvalidPoints
	}

	telegramID, err := model.ParseTelegramID(in.TelegramUserID.String())
	if err != nil {
		return nil, ErrInvalidTelegramID
	}
	if taskID == model.TaskJoinTelegram && in.AuthenticatedTelegramID != "" {
		switch {
		case telegramID == "":
			telegramID = in.AuthenticatedTelegramID
		case telegramID != in.AuthenticatedTelegramID:
			return nil, ErrTelegramMismatch
		}
	}

	progress, err := s.repo.CompleteTask(ctx, model.TaskCompletion{
		WalletAddress:  wallet,
		TaskID:         taskID,
		Points:         *in.Points,
		TelegramUserID: telegramID,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTaskAlreadyCompleted):
			return nil, ErrTaskAlreadyCompleted
		case errors.Is(err, repository.ErrPointsOverflow):
			log.Warn("points balance overflow rejected",
				zap.String("wallet", wallet),
				zap.String("task_id", taskID),
				zap.Int64("points", *in.Points))
			return nil, ErrInvalidPoints
		case errors.Is(err, repository.ErrTelegramIDRequired):
			return nil, ErrTelegramIDRequired
		case errors.Is(err, repository.ErrTelegramAlreadyLinked):
			log.Info("telegram account already linked",
				zap.String("wallet", wallet),
				zap.String("telegram_user_id", telegramID.String()))
			return nil, ErrTelegramAlreadyLinked
		default:
			return nil, fmt.Errorf("failed to complete task: %w", err)
		}
	}

	log.Info("task completed",
		zap.String("wallet", wallet),
		zap.String("task_id", taskID),
		zap.Int64("points", *in.Points),
		zap.Int64("total_points", progress.Points))

	return progress, nil
}

func (s *LedgerService) CheckTelegram(ctx context.Context, telegramID model.TelegramID, wallet string) (*model.TelegramAvailability, error) {
	telegramID, err := model.ParseTelegramID(telegramID.String())
	if err != nil {
		return nil, ErrInvalidTelegramID
	}
	if telegramID == "" {
		return nil, ErrTelegramIDRequired
	}

	availability, err := s.repo.CheckTelegram(ctx, telegramID, wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to check telegram link: %w", err)
	}
	return availability, nil
}

func (s *LedgerService) GetLeaderboard(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error) {
	board, err := s.repo.Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return board, nil
}

func (s *LedgerService) GetStats(ctx context.Context) (*model.Stats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return stats, nil
}
