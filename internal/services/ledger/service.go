package ledger

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/citygame/checkin/internal/dependencies/clock"
	"github.com/citygame/checkin/internal/model"
	"github.com/citygame/checkin/internal/services/registry"
	"github.com/citygame/checkin/internal/storage"
)

// Service is the sole writer of check-in records
type Service struct {
	storage  storage.Storage
	registry *registry.Service
	clock    clock.Clock
	logger   *slog.Logger
}

// New creates a new ledger Service
func New(storage storage.Storage, registry *registry.Service, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		registry: registry,
		clock:    clock,
		logger:   logger,
	}
}

// RecordCheckin validates and records a team's check-in at a post.
//
// Validation runs entirely before the write: game points, post existence,
// then PIN. The insert itself is the uniqueness point - the storage layer
// rejects a second check-in for the same (team, post) pair atomically, so
// concurrent submissions cannot both succeed. On any failure nothing is
// written.
func (s *Service) RecordCheckin(ctx context.Context, teamID model.IdentityID, postID model.PostID, pin string, gamePoints int) (*model.Checkin, error) {
	if !model.ValidGamePoints(gamePoints) {
		return nil, model.ErrInvalidGamePoints
	}

	exists, err := s.registry.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrPostNotFound
	}

	ok, err := s.registry.VerifyPin(ctx, postID, pin)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.ErrInvalidPin
	}

	checkin := &model.Checkin{
		ID:             uuid.NewString(),
		TeamID:         teamID,
		PostID:         postID,
		PresencePoints: model.PresencePoints,
		GamePoints:     gamePoints,
		TotalPoints:    model.PresencePoints + gamePoints,
		CreatedAt:      s.clock.Now(),
	}

	if err := s.storage.CreateCheckin(ctx, checkin); err != nil {
		return nil, err
	}

	s.logger.Info("check-in recorded",
		slog.String("team_id", string(teamID)),
		slog.Int("post_id", int(postID)),
		slog.Int("total_points", checkin.TotalPoints),
	)

	return checkin, nil
}
