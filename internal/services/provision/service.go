package provision

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/citygame/checkin/internal/dependencies/clock"
	"github.com/citygame/checkin/internal/model"
	"github.com/citygame/checkin/internal/storage"
)

// Seed is the on-disk provisioning format: the identities and posts created
// at event setup
type Seed struct {
	Identities []SeedIdentity `json:"identities"`
	Posts      []SeedPost     `json:"posts"`
}

// SeedIdentity describes one account to provision. Password may be plaintext
// (hashed before persisting) or an existing bcrypt hash (stored as-is).
type SeedIdentity struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
}

// SeedPost describes one post to provision
type SeedPost struct {
	ID  int    `json:"id"`
	PIN string `json:"pin"`
}

// Service provisions identities and posts from a seed file
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new provision Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// LoadFile reads and validates a seed file
func LoadFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}

	if err := seed.Validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

// Validate checks the seed for provisioning errors before anything is written
func (s *Seed) Validate() error {
	usernames := make(map[string]struct{}, len(s.Identities))
	for i, identity := range s.Identities {
		if identity.Username == "" {
			return fmt.Errorf("identity %d: username is required", i)
		}
		if identity.Password == "" {
			return fmt.Errorf("identity %q: password is required", identity.Username)
		}
		if !model.Role(identity.Role).Valid() {
			return fmt.Errorf("identity %q: unknown role %q", identity.Username, identity.Role)
		}
		if _, dup := usernames[identity.Username]; dup {
			return fmt.Errorf("duplicate username %q", identity.Username)
		}
		usernames[identity.Username] = struct{}{}
	}

	postIDs := make(map[int]struct{}, len(s.Posts))
	for _, post := range s.Posts {
		if post.ID <= 0 {
			return fmt.Errorf("post id must be positive, got %d", post.ID)
		}
		if post.PIN == "" {
			return fmt.Errorf("post %d: pin is required", post.ID)
		}
		if _, dup := postIDs[post.ID]; dup {
			return fmt.Errorf("duplicate post id %d", post.ID)
		}
		postIDs[post.ID] = struct{}{}
	}

	return nil
}

// Apply persists the seed's identities and posts. Plaintext passwords are
// bcrypt-hashed here so credentials are always hashed at rest.
func (s *Service) Apply(ctx context.Context, seed *Seed) error {
	now := s.clock.Now()

	for _, si := range seed.Identities {
		hash, err := credentialHash(si.Password)
		if err != nil {
			return fmt.Errorf("identity %q: %w", si.Username, err)
		}

		identity := &model.Identity{
			ID:           model.IdentityID("id_" + si.Username),
			Username:     si.Username,
			PasswordHash: hash,
			Role:         model.Role(si.Role),
			DisplayName:  si.DisplayName,
			CreatedAt:    now,
		}
		if err := s.storage.SaveIdentity(ctx, identity); err != nil {
			return fmt.Errorf("identity %q: %w", si.Username, err)
		}
	}

	for _, sp := range seed.Posts {
		post := &model.Post{
			ID:        model.PostID(sp.ID),
			PIN:       sp.PIN,
			CreatedAt: now,
		}
		if err := s.storage.SavePost(ctx, post); err != nil {
			return fmt.Errorf("post %d: %w", sp.ID, err)
		}
	}

	s.logger.Info("seed applied",
		slog.Int("identities", len(seed.Identities)),
		slog.Int("posts", len(seed.Posts)),
	)
	return nil
}

// credentialHash returns a bcrypt hash for the credential. Values already in
// bcrypt format are passed through, everything else is treated as a plaintext
// password to hash.
func credentialHash(password string) (string, error) {
	if strings.HasPrefix(password, "$2") {
		return password, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
