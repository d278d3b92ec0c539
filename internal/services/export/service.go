package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/citygame/checkin/internal/services/scoring"
)

// csvHeader matches the column order of the admin export
var csvHeader = []string{"timestamp", "team", "team_name", "post", "presence", "game", "total"}

// Service writes read-only projections of the check-in history.
// It consumes the scoring service and never touches storage directly.
type Service struct {
	scoring *scoring.Service
}

// New creates a new export Service
func New(scoring *scoring.Service) *Service {
	return &Service{
		scoring: scoring,
	}
}

// WriteHistoryCSV writes the full check-in history to w as CSV,
// most recent first
func (s *Service) WriteHistoryCSV(ctx context.Context, w io.Writer) error {
	entries, err := s.scoring.History(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, e := range entries {
		record := []string{
			e.Checkin.CreatedAt.UTC().Format(time.RFC3339),
			e.TeamUsername,
			e.TeamDisplayName,
			strconv.Itoa(int(e.Checkin.PostID)),
			strconv.Itoa(e.Checkin.PresencePoints),
			strconv.Itoa(e.Checkin.GamePoints),
			strconv.Itoa(e.Checkin.TotalPoints),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
