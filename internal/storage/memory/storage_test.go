package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/citygame/checkin/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Identity tests

func (s *StorageSuite) TestSaveAndGetIdentity() {
	identity := &model.Identity{
		ID:           "id_red",
		Username:     "red",
		PasswordHash: "hash123",
		Role:         model.RoleTeam,
		DisplayName:  "Red Team",
		CreatedAt:    time.Now(),
	}

	err := s.storage.SaveIdentity(s.ctx, identity)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetIdentity(s.ctx, "id_red")
	s.Require().NoError(err)
	s.Equal(identity.Username, retrieved.Username)
	s.Equal(identity.Role, retrieved.Role)
}

func (s *StorageSuite) TestGetIdentityNotFound() {
	_, err := s.storage.GetIdentity(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrIdentityNotFound)
}

func (s *StorageSuite) TestGetIdentityByUsername() {
	identity := &model.Identity{
		ID:       "id_red",
		Username: "red",
		Role:     model.RoleTeam,
	}
	_ = s.storage.SaveIdentity(s.ctx, identity)

	retrieved, err := s.storage.GetIdentityByUsername(s.ctx, "red")
	s.Require().NoError(err)
	s.Equal("id_red", string(retrieved.ID))
}

func (s *StorageSuite) TestGetIdentityByUsernameNotFound() {
	_, err := s.storage.GetIdentityByUsername(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrIdentityNotFound)
}

func (s *StorageSuite) TestListTeamsExcludesAdmins() {
	_ = s.storage.SaveIdentity(s.ctx, &model.Identity{ID: "id_zeta", Username: "zeta", Role: model.RoleTeam})
	_ = s.storage.SaveIdentity(s.ctx, &model.Identity{ID: "id_admin", Username: "admin", Role: model.RoleAdmin})
	_ = s.storage.SaveIdentity(s.ctx, &model.Identity{ID: "id_alpha", Username: "alpha", Role: model.RoleTeam})

	teams, err := s.storage.ListTeams(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(teams, 2)
	s.Equal("alpha", teams[0].Username)
	s.Equal("zeta", teams[1].Username)
}

// Post tests

func (s *StorageSuite) TestSaveAndGetPost() {
	post := &model.Post{ID: 1, PIN: "1234", CreatedAt: time.Now()}

	err := s.storage.SavePost(s.ctx, post)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPost(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(post.PIN, retrieved.PIN)
}

func (s *StorageSuite) TestGetPostNotFound() {
	_, err := s.storage.GetPost(s.ctx, 99)
	s.ErrorIs(err, model.ErrPostNotFound)
}

func (s *StorageSuite) TestListPostsOrdered() {
	_ = s.storage.SavePost(s.ctx, &model.Post{ID: 3, PIN: "3333"})
	_ = s.storage.SavePost(s.ctx, &model.Post{ID: 1, PIN: "1111"})
	_ = s.storage.SavePost(s.ctx, &model.Post{ID: 2, PIN: "2222"})

	posts, err := s.storage.ListPosts(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(posts, 3)
	s.Equal(model.PostID(1), posts[0].ID)
	s.Equal(model.PostID(2), posts[1].ID)
	s.Equal(model.PostID(3), posts[2].ID)
}

// Check-in tests

func (s *StorageSuite) checkin(team model.IdentityID, post model.PostID) *model.Checkin {
	return &model.Checkin{
		ID:             string(team) + "-" + string(rune('0'+int(post))),
		TeamID:         team,
		PostID:         post,
		PresencePoints: model.PresencePoints,
		GamePoints:     0,
		TotalPoints:    model.PresencePoints,
		CreatedAt:      time.Now(),
	}
}

func (s *StorageSuite) TestCreateCheckinAssignsSequence() {
	c1 := s.checkin("team-1", 1)
	c2 := s.checkin("team-1", 2)

	s.Require().NoError(s.storage.CreateCheckin(s.ctx, c1))
	s.Require().NoError(s.storage.CreateCheckin(s.ctx, c2))

	s.Equal(int64(1), c1.Seq)
	s.Equal(int64(2), c2.Seq)
}

func (s *StorageSuite) TestCreateCheckinDuplicate() {
	s.Require().NoError(s.storage.CreateCheckin(s.ctx, s.checkin("team-1", 1)))

	err := s.storage.CreateCheckin(s.ctx, s.checkin("team-1", 1))
	s.ErrorIs(err, model.ErrDuplicateCheckin)

	checkins, err := s.storage.ListCheckins(s.ctx)
	s.Require().NoError(err)
	s.Len(checkins, 1)
}

func (s *StorageSuite) TestSamePostDifferentTeams() {
	s.Require().NoError(s.storage.CreateCheckin(s.ctx, s.checkin("team-1", 1)))
	s.Require().NoError(s.storage.CreateCheckin(s.ctx, s.checkin("team-2", 1)))

	checkins, err := s.storage.ListCheckins(s.ctx)
	s.Require().NoError(err)
	s.Len(checkins, 2)
}

func (s *StorageSuite) TestConcurrentDuplicateCheckins() {
	const attempts = 50

	var wg sync.WaitGroup
	errCh := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errCh <- s.storage.CreateCheckin(s.ctx, s.checkin("team-1", 1))
		}()
	}
	wg.Wait()
	close(errCh)

	successes := 0
	duplicates := 0
	for err := range errCh {
		if err == nil {
			successes++
		} else {
			s.ErrorIs(err, model.ErrDuplicateCheckin)
			duplicates++
		}
	}

	s.Equal(1, successes)
	s.Equal(attempts-1, duplicates)
}

func (s *StorageSuite) TestListCheckinsForTeam() {
	_ = s.storage.CreateCheckin(s.ctx, s.checkin("team-1", 1))
	_ = s.storage.CreateCheckin(s.ctx, s.checkin("team-2", 1))
	_ = s.storage.CreateCheckin(s.ctx, s.checkin("team-1", 2))

	checkins, err := s.storage.ListCheckinsForTeam(s.ctx, "team-1")
	s.Require().NoError(err)
	s.Require().Len(checkins, 2)
	s.Equal(model.PostID(1), checkins[0].PostID)
	s.Equal(model.PostID(2), checkins[1].PostID)
}
