package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"airdrop_backend/internal/model"

	"github.com/goccy/go-json"
)

type ExportFormat string

const (
	ExportJSON    ExportFormat = "json"
	ExportCSV     ExportFormat = "csv"
	ExportPartner ExportFormat = "partner-format"

	// exportPartnerLegacy is the name the partner integration originally used.
	exportPartnerLegacy = "themiracle"

	isoMillis = "2006-01-02T15:04:05.000Z07:00"
)

var csvHeader = []string{"Wallet Address", "Points", "Tasks Completed", "Telegram User ID", "Created At", "Last Updated"}

// ParseExportFormat maps a query value to a format. Unknown values fall back to JSON.
func ParseExportFormat(s string) ExportFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(ExportCSV):
		return ExportCSV
	case string(ExportPartner), exportPartnerLegacy:
		return ExportPartner
	default:
		return ExportJSON
	}
}

type ExportResult struct {
	ContentType string
	// Filename is set when the payload should be served as an attachment.
	Filename string
	Body     []byte
}

type exportEnvelope struct {
	Success           bool   `json:"success"`
	TotalParticipants int    `json:"totalParticipants"`
	TotalPoints       int64  `json:"totalPoints"`
	Data              any    `json:"data"`
	ExportedAt        string `json:"exportedAt"`
}

type partnerRecord struct {
	Address    string          `json:"address"`
	Allocation int64           `json:"allocation"`
	Metadata   partnerMetadata `json:"metadata"`
}

type partnerMetadata struct {
	TasksCompleted   int   `json:"tasksCompleted"`
	TelegramVerified bool  `json:"telegramVerified"`
	Timestamp        int64 `json:"timestamp"`
}

// Export serializes every participant with points, highest first.
func (s *LedgerService) Export(ctx context.Context, format ExportFormat) (*ExportResult, error) {
	users, err := s.repo.Snapshot(ctx, model.WithPoints)
	if err != nil {
		return nil, fmt.Errorf("failed to load export snapshot: %w", err)
	}

	now := s.now()

	switch format {
	case ExportCSV:
		body, err := encodeCSV(users)
		if err != nil {
			return nil, fmt.Errorf("failed to encode csv export: %w", err)
		}
		return &ExportResult{
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("airdrop_data_%d.csv", now.UnixMilli()),
			Body:        body,
		}, nil

	case ExportPartner:
		records := make([]partnerRecord, len(users))
		for i, u := range users {
			records[i] = partnerRecord{
				Address:    u.WalletAddress,
				Allocation: u.Points,
				Metadata: partnerMetadata{
					TasksCompleted:   len(u.CompletedTasks),
					TelegramVerified: u.TelegramUserID != nil,
					Timestamp:        u.LastUpdated.UnixMilli(),
				},
			}
		}
		return encodeEnvelope(records, len(users), model.SumPoints(users), now)

	default:
		return encodeEnvelope(users, len(users), model.SumPoints(users), now)
	}
}

func encodeEnvelope(data any, participants int, points int64, now time.Time) (*ExportResult, error) {
	body, err := json.Marshal(exportEnvelope{
		Success:           true,
		TotalParticipants: participants,
		TotalPoints:       points,
		Data:              data,
		ExportedAt:        now.UTC().Format(isoMillis),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	return &ExportResult{
		ContentType: "application/json; charset=utf-8",
		Body:        body,
	}, nil
}

func encodeCSV(users []*model.UserProgress) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, u := range users {
		telegramID := "N/A"
		if u.TelegramUserID != nil {
			telegramID = u.TelegramUserID.String()
		}

		row := []string{
			u.WalletAddress,
			strconv.FormatInt(u.Points, 10),
			strconv.Itoa(len(u.CompletedTasks)),
			telegramID,
			u.CreatedAt.UTC().Format(isoMillis),
			u.LastUpdated.UTC().Format(isoMillis),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
