package registry

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/citygame/checkin/internal/model"
	"github.com/citygame/checkin/internal/storage"
)

// Service provides read access to the fixed set of posts
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new registry Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// ListPosts returns all posts, id ascending
func (s *Service) ListPosts(ctx context.Context) ([]*model.Post, error) {
	return s.storage.ListPosts(ctx)
}

// Exists reports whether a post with the given id is registered
func (s *Service) Exists(ctx context.Context, id model.PostID) (bool, error) {
	_, err := s.storage.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// VerifyPin checks the supplied PIN against the post's secret PIN.
// The supplied value is whitespace-trimmed before the exact comparison.
// Returns model.ErrPostNotFound if the post does not exist.
func (s *Service) VerifyPin(ctx context.Context, id model.PostID, supplied string) (bool, error) {
	post, err := s.storage.GetPost(ctx, id)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(supplied) == post.PIN, nil
}
