package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/citygame/checkin/internal/model"
	"github.com/citygame/checkin/internal/storage"
)

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// New opens (or creates) the database at path and applies the schema.
// Use ":memory:" for an ephemeral database.
func New(path string) (*Storage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// modernc's driver serializes writes per connection; a single connection
	// avoids SQLITE_BUSY under concurrent inserts
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Identity operations

func (s *Storage) SaveIdentity(ctx context.Context, identity *model.Identity) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO identities (id, username, password_hash, role, display_name, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     username = excluded.username,
		     password_hash = excluded.password_hash,
		     role = excluded.role,
		     display_name = excluded.display_name`,
		string(identity.ID), identity.Username, identity.PasswordHash,
		string(identity.Role), identity.DisplayName, formatTime(identity.CreatedAt))
	return err
}

func (s *Storage) GetIdentity(ctx context.Context, id model.IdentityID) (*model.Identity, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, display_name, created_at
		 FROM identities WHERE id = ?`, string(id))
	return scanIdentity(row)
}

func (s *Storage) GetIdentityByUsername(ctx context.Context, username string) (*model.Identity, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, display_name, created_at
		 FROM identities WHERE username = ?`, username)
	return scanIdentity(row)
}

func (s *Storage) ListTeams(ctx context.Context) ([]*model.Identity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, password_hash, role, display_name, created_at
		 FROM identities WHERE role = ? ORDER BY username ASC`, string(model.RoleTeam))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var teams []*model.Identity
	for rows.Next() {
		identity, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, identity)
	}
	return teams, rows.Err()
}

// Post operations

func (s *Storage) SavePost(ctx context.Context, post *model.Post) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (id, pin, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET pin = excluded.pin`,
		int(post.ID), post.PIN, formatTime(post.CreatedAt))
	return err
}

func (s *Storage) GetPost(ctx context.Context, id model.PostID) (*model.Post, error) {
	var (
		post      model.Post
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, pin, created_at FROM posts WHERE id = ?`, int(id)).
		Scan(&post.ID, &post.PIN, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrPostNotFound
		}
		return nil, err
	}
	if post.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Storage) ListPosts(ctx context.Context) ([]*model.Post, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, pin, created_at FROM posts ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var posts []*model.Post
	for rows.Next() {
		var (
			post      model.Post
			createdAt string
		)
		if err := rows.Scan(&post.ID, &post.PIN, &createdAt); err != nil {
			return nil, err
		}
		if post.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		posts = append(posts, &post)
	}
	return posts, rows.Err()
}

// Check-in operations

func (s *Storage) CreateCheckin(ctx context.Context, checkin *model.Checkin) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO checkins (id, team_id, post_id, presence_points, game_points, total_points, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 RETURNING seq`,
		checkin.ID, string(checkin.TeamID), int(checkin.PostID),
		checkin.PresencePoints, checkin.GamePoints, checkin.TotalPoints,
		formatTime(checkin.CreatedAt)).
		Scan(&checkin.Seq)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrDuplicateCheckin
		}
		return err
	}
	return nil
}

func (s *Storage) ListCheckins(ctx context.Context) ([]*model.Checkin, error) {
	return s.queryCheckins(ctx,
		`SELECT seq, id, team_id, post_id, presence_points, game_points, total_points, created_at
		 FROM checkins ORDER BY seq ASC`)
}

func (s *Storage) ListCheckinsForTeam(ctx context.Context, teamID model.IdentityID) ([]*model.Checkin, error) {
	return s.queryCheckins(ctx,
		`SELECT seq, id, team_id, post_id, presence_points, game_points, total_points, created_at
		 FROM checkins WHERE team_id = ? ORDER BY seq ASC`, string(teamID))
}

func (s *Storage) queryCheckins(ctx context.Context, query string, args ...any) ([]*model.Checkin, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var checkins []*model.Checkin
	for rows.Next() {
		var (
			c         model.Checkin
			createdAt string
		)
		if err := rows.Scan(&c.Seq, &c.ID, &c.TeamID, &c.PostID,
			&c.PresencePoints, &c.GamePoints, &c.TotalPoints, &createdAt); err != nil {
			return nil, err
		}
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		checkins = append(checkins, &c)
	}
	return checkins, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row scanner) (*model.Identity, error) {
	var (
		identity  model.Identity
		createdAt string
	)
	err := row.Scan(&identity.ID, &identity.Username, &identity.PasswordHash,
		&identity.Role, &identity.DisplayName, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrIdentityNotFound
		}
		return nil, err
	}
	if identity.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &identity, nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed created_at %q: %w", s, err)
	}
	return t, nil
}
