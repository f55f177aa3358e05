package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// TaskJoinTelegram is the only task that links a Telegram account to a wallet.
const TaskJoinTelegram = "join-telegram"

// NormalizeWallet returns the canonical storage key for a wallet address.
func NormalizeWallet(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// ErrInvalidTelegramID is returned when a Telegram user ID is not a positive integer.
var ErrInvalidTelegramID = errors.New("telegram user id must be a positive integer")

// TelegramID is a Telegram user identifier kept in canonical decimal form, so
// that 42 and "042" name the same user. It decodes from either a JSON number
// or a JSON string.
type TelegramID string

// ParseTelegramID canonicalizes s. An empty string yields an empty ID.
func ParseTelegramID(s string) (TelegramID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTelegramID, s)
	}
	return TelegramID(strconv.FormatInt(id, 10)), nil
}

func (t *TelegramID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*t = ""
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	}

	id, err := ParseTelegramID(raw)
	if err != nil {
		return err
	}
	*t = id
	return nil
}

func (t TelegramID) String() string {
	return string(t)
}

type UserProgress struct {
	WalletAddress  string
	Points         int64
	CompletedTasks []string
	TelegramUserID *TelegramID
	CreatedAt      time.Time
	LastUpdated    time.Time

	// Seq is the insertion order of the record, used to break leaderboard ties.
	Seq uint64
}

func (p *UserProgress) HasCompleted(taskID string) bool {
	for _, t := range p.CompletedTasks {
		if t == taskID {
			return true
		}
	}
	return false
}

func (p *UserProgress) Clone() *UserProgress {
	out := *p
	out.CompletedTasks = append([]string(nil), p.CompletedTasks...)
	if p.TelegramUserID != nil {
		id := *p.TelegramUserID
		out.TelegramUserID = &id
	}
	return &out
}

type userProgressJSON struct {
	WalletAddress  string      `json:"walletAddress"`
	Points         int64       `json:"points"`
	CompletedTasks []string    `json:"completedTasks"`
	TelegramUserID *TelegramID `json:"telegramUserId"`
	CreatedAt      int64       `json:"createdAt"`
	LastUpdated    int64       `json:"lastUpdated"`
}

// MarshalJSON renders timestamps as unix milliseconds, the format the campaign
// frontend already consumes.
func (p UserProgress) MarshalJSON() ([]byte, error) {
	tasks := p.CompletedTasks
	if tasks == nil {
		tasks = []string{}
	}
	return json.Marshal(userProgressJSON{
		WalletAddress:  p.WalletAddress,
		Points:         p.Points,
		CompletedTasks: tasks,
		TelegramUserID: p.TelegramUserID,
		CreatedAt:      p.CreatedAt.UnixMilli(),
		LastUpdated:    p.LastUpdated.UnixMilli(),
	})
}

// AddPoints returns a+b for non-negative balances and reports false when the
// sum does not fit in an int64.
func AddPoints(a, b int64) (int64, bool) {
	if b > math.MaxInt64-a {
		return 0, false
	}
	return a + b, true
}

// SumPoints adds balances, saturating at math.MaxInt64.
func SumPoints(users []*UserProgress) int64 {
	var total int64
	for _, u := range users {
		next, ok := AddPoints(total, u.Points)
		if !ok {
			return math.MaxInt64
		}
		total = next
	}
	return total
}

type TaskCompletion struct {
	WalletAddress  string
	TaskID         string
	Points         int64
	TelegramUserID TelegramID
}

type LeaderboardEntry struct {
	Rank           int
	Address        string
	Points         int64
	TasksCompleted int
}

type TelegramAvailability struct {
	Available    bool
	LinkedWallet *string
}

type Stats struct {
	TotalParticipants      int
	TotalPointsDistributed int64
	TotalTelegramLinks     int
	AveragePointsPerUser   float64
	TaskCompletionCounts   map[string]int
}

// ProgressFilter selects records for a snapshot. A nil filter selects everything.
type ProgressFilter func(*UserProgress) bool

// WithPoints selects participants that earned at least one point.
func WithPoints(p *UserProgress) bool {
	return p.Points > 0
}
