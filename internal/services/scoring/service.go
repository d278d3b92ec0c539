package scoring

import (
	"context"
	"log/slog"
	"sort"

	"github.com/citygame/checkin/internal/model"
	"github.com/citygame/checkin/internal/storage"
)

// Service derives scores, rankings and history from the check-in ledger.
// It performs no writes; every method is a pure projection over storage.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new scoring Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// ScoreForTeam returns the sum of total points over the team's check-ins,
// 0 if the team has none
func (s *Service) ScoreForTeam(ctx context.Context, teamID model.IdentityID) (int, error) {
	checkins, err := s.storage.ListCheckinsForTeam(ctx, teamID)
	if err != nil {
		return 0, err
	}

	score := 0
	for _, c := range checkins {
		score += c.TotalPoints
	}
	return score, nil
}

// CheckinsForTeam returns the team's check-ins in ledger order
func (s *Service) CheckinsForTeam(ctx context.Context, teamID model.IdentityID) ([]*model.Checkin, error) {
	return s.storage.ListCheckinsForTeam(ctx, teamID)
}

// Ranking returns every team ordered by score descending, ties broken by
// username ascending. Teams with no check-ins appear with score 0, so the
// ordering is a deterministic total order and repeated calls against
// unchanged data produce identical output.
func (s *Service) Ranking(ctx context.Context) ([]model.TeamScore, error) {
	teams, err := s.storage.ListTeams(ctx)
	if err != nil {
		return nil, err
	}

	checkins, err := s.storage.ListCheckins(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[model.IdentityID]int, len(teams))
	for _, c := range checkins {
		totals[c.TeamID] += c.TotalPoints
	}

	ranking := make([]model.TeamScore, 0, len(teams))
	for _, team := range teams {
		ranking = append(ranking, model.TeamScore{
			TeamID:      team.ID,
			Username:    team.Username,
			DisplayName: team.DisplayName,
			Score:       totals[team.ID],
		})
	}

	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Score != ranking[j].Score {
			return ranking[i].Score > ranking[j].Score
		}
		return ranking[i].Username < ranking[j].Username
	})

	return ranking, nil
}

// History returns every check-in joined with its team identity, most recent
// first. Check-ins with equal timestamps fall back to ledger sequence.
func (s *Service) History(ctx context.Context) ([]model.HistoryEntry, error) {
	checkins, err := s.storage.ListCheckins(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[model.IdentityID]*model.Identity)
	entries := make([]model.HistoryEntry, 0, len(checkins))
	for _, c := range checkins {
		team, ok := names[c.TeamID]
		if !ok {
			team, err = s.storage.GetIdentity(ctx, c.TeamID)
			if err != nil {
				return nil, err
			}
			names[c.TeamID] = team
		}
		entries = append(entries, model.HistoryEntry{
			Checkin:         *c,
			TeamUsername:    team.Username,
			TeamDisplayName: team.DisplayName,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].Checkin, entries[j].Checkin
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.Seq > b.Seq
	})

	return entries, nil
}
