package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/citygame/checkin/internal/model"
	"github.com/citygame/checkin/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Identity operations

func (s *Storage) SaveIdentity(ctx context.Context, identity *model.Identity) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return err
	}

	// Pipeline for atomic save + index updates
	pipe := s.client.Pipeline()
	pipe.Set(ctx, identityKey(identity.ID), data, 0)
	pipe.Set(ctx, usernameIndexKey(identity.Username), string(identity.ID), 0)
	if identity.Role == model.RoleTeam {
		pipe.SAdd(ctx, teamsIndexKey(), string(identity.ID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetIdentity(ctx context.Context, id model.IdentityID) (*model.Identity, error) {
	data, err := s.client.Get(ctx, identityKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrIdentityNotFound
		}
		return nil, err
	}

	var identity model.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (s *Storage) GetIdentityByUsername(ctx context.Context, username string) (*model.Identity, error) {
	idStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrIdentityNotFound
		}
		return nil, err
	}

	return s.GetIdentity(ctx, model.IdentityID(idStr))
}

func (s *Storage) ListTeams(ctx context.Context) ([]*model.Identity, error) {
	ids, err := s.client.SMembers(ctx, teamsIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	teams := make([]*model.Identity, 0, len(ids))
	for _, id := range ids {
		identity, err := s.GetIdentity(ctx, model.IdentityID(id))
		if err != nil {
			if errors.Is(err, model.ErrIdentityNotFound) {
				continue
			}
			return nil, err
		}
		teams = append(teams, identity)
	}

	sort.Slice(teams, func(i, j int) bool {
		return teams[i].Username < teams[j].Username
	})
	return teams, nil
}

// Post operations

func (s *Storage) SavePost(ctx context.Context, post *model.Post) error {
	data, err := json.Marshal(post)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, postKey(post.ID), data, 0)
	pipe.SAdd(ctx, postsIndexKey(), strconv.Itoa(int(post.ID)))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPost(ctx context.Context, id model.PostID) (*model.Post, error) {
	data, err := s.client.Get(ctx, postKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPostNotFound
		}
		return nil, err
	}

	var post model.Post
	if err := json.Unmarshal(data, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Storage) ListPosts(ctx context.Context) ([]*model.Post, error) {
	ids, err := s.client.SMembers(ctx, postsIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	posts := make([]*model.Post, 0, len(ids))
	for _, idStr := range ids {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			continue
		}
		post, err := s.GetPost(ctx, model.PostID(id))
		if err != nil {
			if errors.Is(err, model.ErrPostNotFound) {
				continue
			}
			return nil, err
		}
		posts = append(posts, post)
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].ID < posts[j].ID
	})
	return posts, nil
}

// Check-in operations

// createCheckinScript claims the (team, post) slot and appends it to the
// ledger index in one atomic step. Claiming the slot without indexing it
// would make the record permanently invisible to the ledger while still
// blocking retries, so the two writes must not be separable.
var createCheckinScript = redis.NewScript(`
if redis.call("SETNX", KEYS[1], ARGV[1]) == 1 then
	redis.call("RPUSH", KEYS[2], KEYS[1])
	return 1
end
return 0
`)

func (s *Storage) CreateCheckin(ctx context.Context, checkin *model.Checkin) error {
	seq, err := s.client.Incr(ctx, checkinSeqKey()).Result()
	if err != nil {
		return err
	}
	checkin.Seq = seq

	data, err := json.Marshal(checkin)
	if err != nil {
		return err
	}

	key := checkinKey(checkin.TeamID, checkin.PostID)

	// The script is the atomicity point: only the first writer for a given
	// (team, post) pair gets to set the slot, and a set slot is always indexed
	claimed, err := createCheckinScript.Run(ctx, s.client,
		[]string{key, ledgerIndexKey()}, string(data)).Int()
	if err != nil {
		return err
	}
	if claimed == 0 {
		return model.ErrDuplicateCheckin
	}
	return nil
}

func (s *Storage) ListCheckins(ctx context.Context) ([]*model.Checkin, error) {
	keys, err := s.client.LRange(ctx, ledgerIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []*model.Checkin{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	checkins := make([]*model.Checkin, 0, len(values))
	for i, val := range values {
		// A missing or unreadable record means the ledger is damaged; a
		// silently shortened ledger would corrupt every score derived from it
		if val == nil {
			return nil, fmt.Errorf("ledger entry %s missing: %w", keys[i], model.ErrStorageFailure)
		}
		var c model.Checkin
		if err := json.Unmarshal([]byte(val.(string)), &c); err != nil {
			return nil, fmt.Errorf("ledger entry %s corrupt: %w", keys[i], model.ErrStorageFailure)
		}
		checkins = append(checkins, &c)
	}

	return checkins, nil
}

func (s *Storage) ListCheckinsForTeam(ctx context.Context, teamID model.IdentityID) ([]*model.Checkin, error) {
	all, err := s.ListCheckins(ctx)
	if err != nil {
		return nil, err
	}

	var result []*model.Checkin
	for _, c := range all {
		if c.TeamID == teamID {
			result = append(result, c)
		}
	}
	return result, nil
}
