package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/citygame/checkin/internal/model"
	"github.com/citygame/checkin/internal/storage/memory"
	"github.com/citygame/checkin/internal/testutil"
)

type RegistrySuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, testutil.NopLogger())
	s.ctx = context.Background()

	now := time.Date(2026, 5, 16, 9, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SavePost(s.ctx, &model.Post{ID: 1, PIN: "1234", CreatedAt: now}))
	s.Require().NoError(s.storage.SavePost(s.ctx, &model.Post{ID: 2, PIN: "5678", CreatedAt: now}))
}

func (s *RegistrySuite) TestListPosts() {
	posts, err := s.service.ListPosts(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(posts, 2)
	s.Equal(model.PostID(1), posts[0].ID)
	s.Equal(model.PostID(2), posts[1].ID)
}

func (s *RegistrySuite) TestExists() {
	exists, err := s.service.Exists(s.ctx, 1)
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.service.Exists(s.ctx, 99)
	s.Require().NoError(err)
	s.False(exists)
}

func (s *RegistrySuite) TestVerifyPin() {
	ok, err := s.service.VerifyPin(s.ctx, 1, "1234")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.service.VerifyPin(s.ctx, 1, "0000")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RegistrySuite) TestVerifyPinTrimsWhitespace() {
	ok, err := s.service.VerifyPin(s.ctx, 1, "  1234\n")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *RegistrySuite) TestVerifyPinCaseSensitive() {
	s.Require().NoError(s.storage.SavePost(s.ctx, &model.Post{ID: 3, PIN: "abCD"}))

	ok, err := s.service.VerifyPin(s.ctx, 3, "abcd")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RegistrySuite) TestVerifyPinUnknownPost() {
	_, err := s.service.VerifyPin(s.ctx, 99, "1234")
	s.ErrorIs(err, model.ErrPostNotFound)
}
