package sqlite

// Schema for the tracker database. Safe to apply multiple times.
//
// The UNIQUE(team_id, post_id) constraint on checkins is the storage-level
// enforcement of the one-check-in-per-pair invariant: concurrent inserts for
// the same pair serialize on it and at most one succeeds.
const schema = `
CREATE TABLE IF NOT EXISTS identities (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL,
    display_name TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS posts (
    id INTEGER PRIMARY KEY,
    pin TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS checkins (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL,
    team_id TEXT NOT NULL REFERENCES identities(id),
    post_id INTEGER NOT NULL REFERENCES posts(id),
    presence_points INTEGER NOT NULL,
    game_points INTEGER NOT NULL,
    total_points INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    UNIQUE (team_id, post_id)
);

CREATE INDEX IF NOT EXISTS idx_checkins_team ON checkins(team_id);
`
