package repository

import (
	"context"
	"math"
	"sort"

	"airdrop_backend/internal/model"
)

const DefaultLeaderboardLimit = 10

func (r *Repository) GetOrCreate(ctx context.Context, wallet string) (*model.UserProgress, error) {
	e := r.entry(model.NormalizeWallet(wallet))

	e.Lock()
	defer e.Unlock()

	return e.progress.Clone(), nil
}

func (r *Repository) CompleteTask(ctx context.Context, c model.TaskCompletion) (*model.UserProgress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e := r.entry(model.NormalizeWallet(c.WalletAddress))

	e.Lock()
	defer e.Unlock()

	p := e.progress
	if p.HasCompleted(c.TaskID) {
		return nil, ErrTaskAlreadyCompleted
	}

	points, ok := model.AddPoints(p.Points, c.Points)
	if !ok {
		return nil, ErrPointsOverflow
	}

	if c.TaskID == model.TaskJoinTelegram {
		if c.TelegramUserID == "" {
			return nil, ErrTelegramIDRequired
		}
		if err := r.link(c.TelegramUserID, p.WalletAddress); err != nil {
			return nil, err
		}
		id := c.TelegramUserID
		p.TelegramUserID = &id
	}

	p.CompletedTasks = append(p.CompletedTasks, c.TaskID)
	p.Points = points
	p.LastUpdated = r.now()

	return p.Clone(), nil
}

// link records telegramID -> wallet unless the ID already belongs to another wallet.
func (r *Repository) link(telegramID model.TelegramID, wallet string) error {
	r.linksMu.Lock()
	defer r.linksMu.Unlock()

	if linked, ok := r.links[telegramID]; ok && linked != wallet {
		return ErrTelegramAlreadyLinked
	}
	r.links[telegramID] = wallet

	return nil
}

func (r *Repository) CheckTelegram(ctx context.Context, telegramID model.TelegramID, wallet string) (*model.TelegramAvailability, error) {
	r.linksMu.RLock()
	linked, ok := r.links[telegramID]
	r.linksMu.RUnlock()

	if !ok {
		return &model.TelegramAvailability{Available: true}, nil
	}

	return &model.TelegramAvailability{
		Available:    wallet != "" && linked == model.NormalizeWallet(wallet),
		LinkedWallet: &linked,
	}, nil
}

func (r *Repository) Leaderboard(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	users := r.snapshot(nil)
	sortByPoints(users)

	if len(users) > limit {
		users = users[:limit]
	}

	board := make([]*model.LeaderboardEntry, len(users))
	for i, u := range users {
		board[i] = &model.LeaderboardEntry{
			Rank:           i + 1,
			Address:        u.WalletAddress,
			Points:         u.Points,
			TasksCompleted: len(u.CompletedTasks),
		}
	}

	return board, nil
}

func (r *Repository) Stats(ctx context.Context) (*model.Stats, error) {
	users := r.snapshot(nil)

	stats := &model.Stats{
		TotalParticipants:    len(users),
		TaskCompletionCounts: make(map[string]int),
	}

	stats.TotalPointsDistributed = model.SumPoints(users)
	for _, u := range users {
		for _, task := range u.CompletedTasks {
			stats.TaskCompletionCounts[task]++
		}
	}

	r.linksMu.RLock()
	stats.TotalTelegramLinks = len(r.links)
	r.linksMu.RUnlock()

	if stats.TotalParticipants > 0 {
		avg := float64(stats.TotalPointsDistributed) / float64(stats.TotalParticipants)
		stats.AveragePointsPerUser = math.Round(avg*100) / 100
	}

	return stats, nil
}

// Snapshot returns copies of the records accepted by filter, ordered like the leaderboard.
func (r *Repository) Snapshot(ctx context.Context, filter model.ProgressFilter) ([]*model.UserProgress, error) {
	users := r.snapshot(filter)
	sortByPoints(users)
	return users, nil
}

// sortByPoints orders by points descending, then insertion order, then address.
func sortByPoints(users []*model.UserProgress) {
	sort.Slice(users, func(i, j int) bool {
		a, b := users[i], users[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Seq != b.Seq {
			return a.Seq < b.Seq
		}
		return a.WalletAddress < b.WalletAddress
	})
}
