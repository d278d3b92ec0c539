package model

import "time"

// Point values for a check-in
const (
	// PresencePoints is the fixed award for any valid check-in
	PresencePoints = 50
	// GamePointsWin is the bonus for winning the on-site mini-game
	GamePointsWin = 100
)

// ValidGamePoints reports whether the supplied game points value is allowed
func ValidGamePoints(points int) bool {
	return points == 0 || points == GamePointsWin
}

// Checkin is a team's single recorded visit to a post.
// At most one Checkin exists per (TeamID, PostID) pair; the storage layer
// enforces this at the point of insertion.
type Checkin struct {
	ID             string // assigned by the ledger (uuid)
	Seq            int64  // monotonic ledger sequence, assigned by storage
	TeamID         IdentityID
	PostID         PostID
	PresencePoints int
	GamePoints     int
	TotalPoints    int
	CreatedAt      time.Time
}

// HistoryEntry is a Checkin joined with its team's identity, the shape a
// check-in record takes when crossing the presentation/export boundary.
type HistoryEntry struct {
	Checkin         Checkin
	TeamUsername    string
	TeamDisplayName string
}

// TeamScore is one row of the ranking
type TeamScore struct {
	TeamID      IdentityID
	Username    string
	DisplayName string
	Score       int
}
