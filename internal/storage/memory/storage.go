package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/citygame/checkin/internal/model"
	"github.com/citygame/checkin/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	identities    map[model.IdentityID]*model.Identity
	usernameIndex map[string]model.IdentityID
	posts         map[model.PostID]*model.Post
	checkins      []*model.Checkin
	checkinIndex  map[checkinKey]struct{}
	nextSeq       int64
}

type checkinKey struct {
	teamID model.IdentityID
	postID model.PostID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		identities:    make(map[model.IdentityID]*model.Identity),
		usernameIndex: make(map[string]model.IdentityID),
		posts:         make(map[model.PostID]*model.Post),
		checkinIndex:  make(map[checkinKey]struct{}),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Identity operations

func (s *Storage) SaveIdentity(ctx context.Context, identity *model.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identities[identity.ID] = identity
	s.usernameIndex[identity.Username] = identity.ID
	return nil
}

func (s *Storage) GetIdentity(ctx context.Context, id model.IdentityID) (*model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	identity, ok := s.identities[id]
	if !ok {
		return nil, model.ErrIdentityNotFound
	}
	return identity, nil
}

func (s *Storage) GetIdentityByUsername(ctx context.Context, username string) (*model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrIdentityNotFound
	}
	identity, ok := s.identities[id]
	if !ok {
		return nil, model.ErrIdentityNotFound
	}
	return identity, nil
}

func (s *Storage) ListTeams(ctx context.Context) ([]*model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	teams := make([]*model.Identity, 0)
	for _, identity := range s.identities {
		if identity.Role == model.RoleTeam {
			teams = append(teams, identity)
		}
	}
	sort.Slice(teams, func(i, j int) bool {
		return teams[i].Username < teams[j].Username
	})
	return teams, nil
}

// Post operations

func (s *Storage) SavePost(ctx context.Context, post *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[post.ID] = post
	return nil
}

func (s *Storage) GetPost(ctx context.Context, id model.PostID) (*model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	post, ok := s.posts[id]
	if !ok {
		return nil, model.ErrPostNotFound
	}
	return post, nil
}

func (s *Storage) ListPosts(ctx context.Context) ([]*model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	posts := make([]*model.Post, 0, len(s.posts))
	for _, post := range s.posts {
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].ID < posts[j].ID
	})
	return posts, nil
}

// Check-in operations

func (s *Storage) CreateCheckin(ctx context.Context, checkin *model.Checkin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Check and insert under the same write lock so concurrent calls for the
	// same (team, post) pair cannot both succeed
	key := checkinKey{teamID: checkin.TeamID, postID: checkin.PostID}
	if _, exists := s.checkinIndex[key]; exists {
		return model.ErrDuplicateCheckin
	}

	s.nextSeq++
	checkin.Seq = s.nextSeq
	s.checkinIndex[key] = struct{}{}
	s.checkins = append(s.checkins, checkin)
	return nil
}

func (s *Storage) ListCheckins(ctx context.Context) ([]*model.Checkin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.Checkin, len(s.checkins))
	copy(result, s.checkins)
	return result, nil
}

func (s *Storage) ListCheckinsForTeam(ctx context.Context, teamID model.IdentityID) ([]*model.Checkin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*model.Checkin
	for _, c := range s.checkins {
		if c.TeamID == teamID {
			result = append(result, c)
		}
	}
	return result, nil
}
