package storage

import (
	"context"

	"github.com/citygame/checkin/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Identity operations
	SaveIdentity(ctx context.Context, identity *model.Identity) error
	GetIdentity(ctx context.Context, id model.IdentityID) (*model.Identity, error)
	GetIdentityByUsername(ctx context.Context, username string) (*model.Identity, error)
	// ListTeams returns all identities with the team role, username ascending
	ListTeams(ctx context.Context) ([]*model.Identity, error)

	// Post operations
	SavePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id model.PostID) (*model.Post, error)
	// ListPosts returns all posts, id ascending
	ListPosts(ctx context.Context) ([]*model.Post, error)

	// Check-in operations.
	// CreateCheckin assigns the record's Seq and inserts it atomically: if a
	// check-in already exists for (TeamID, PostID) it returns
	// model.ErrDuplicateCheckin and writes nothing. Two concurrent calls for
	// the same pair must not both succeed.
	CreateCheckin(ctx context.Context, checkin *model.Checkin) error
	// ListCheckins returns every check-in in ledger order (Seq ascending)
	ListCheckins(ctx context.Context) ([]*model.Checkin, error)
	ListCheckinsForTeam(ctx context.Context, teamID model.IdentityID) ([]*model.Checkin, error)
}
