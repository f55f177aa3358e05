package repository

import (
	"errors"
	"sync"
	"time"

	"airdrop_backend/internal/model"
)

var (
	ErrTaskAlreadyCompleted  = errors.New("task already completed")
	ErrTelegramIDRequired    = errors.New("telegram user id required")
	ErrTelegramAlreadyLinked = errors.New("telegram account already linked to another wallet")
	ErrPointsOverflow        = errors.New("points balance would overflow")
)

// entry pairs a record with the lock that serializes every mutation of it.
type entry struct {
	sync.Mutex
	progress *model.UserProgress
}

// Repository keeps campaign progress in process memory. It owns two indexes:
// records by wallet and wallets by Telegram ID. Lock order is entry, then links.
type Repository struct {
	mu    sync.RWMutex
	users map[string]*entry
	seq   uint64

	linksMu sync.RWMutex
	links   map[model.TelegramID]string

	now func() time.Time
}

func New() *Repository {
	return &Repository{
		users: make(map[string]*entry),
		links: make(map[model.TelegramID]string),
		now:   time.Now,
	}
}

// entry returns the record for a normalized wallet, creating it on first use.
func (r *Repository) entry(wallet string) *entry {
	r.mu.RLock()
	e, ok := r.users[wallet]
	r.mu.RUnlock()
	if ok {
		return e
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok = r.users[wallet]; ok {
		return e
	}

	now := r.now()
	r.seq++
	e = &entry{
		progress: &model.UserProgress{
			WalletAddress:  wallet,
			CompletedTasks: []string{},
			CreatedAt:      now,
			LastUpdated:    now,
			Seq:            r.seq,
		},
	}
	r.users[wallet] = e

	return e
}

// entries returns every record entry. Callers lock each entry before reading it.
func (r *Repository) entries() []*entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entry, 0, len(r.users))
	for _, e := range r.users {
		out = append(out, e)
	}
	return out
}

func (r *Repository) snapshot(filter model.ProgressFilter) []*model.UserProgress {
	entries := r.entries()

	out := make([]*model.UserProgress, 0, len(entries))
	for _, e := range entries {
		e.Lock()
		p := e.progress.Clone()
		e.Unlock()

		if filter == nil || filter(p) {
			out = append(out, p)
		}
	}
	return out
}
