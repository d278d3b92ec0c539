package response

import (
	"time"

	"github.com/citygame/checkin/internal/model"
	"github.com/citygame/checkin/internal/services/auth"
)

// Identity represents an authenticated identity in API responses.
// The credential hash never crosses this boundary.
type Identity struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
}

// IdentityFromModel converts a model.Identity to a response Identity
func IdentityFromModel(i *model.Identity) Identity {
	return Identity{
		ID:          string(i.ID),
		Username:    i.Username,
		Role:        string(i.Role),
		DisplayName: i.DisplayName,
	}
}

// AuthResponse is the response for the login endpoint
type AuthResponse struct {
	User         Identity `json:"user"`
	SessionToken string   `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		User:         IdentityFromModel(&s.Identity),
		SessionToken: s.Token,
	}
}

// SessionResponse is the response for the session probe endpoint
type SessionResponse struct {
	User *Identity `json:"user"`
}

// DashboardPost is one post as shown on the team dashboard.
// The PIN never crosses this boundary.
type DashboardPost struct {
	ID      int  `json:"id"`
	Visited bool `json:"visited"`
}

// TeamDashboard is the response for the team dashboard endpoint
type TeamDashboard struct {
	Team  Identity        `json:"team"`
	Score int             `json:"score"`
	Posts []DashboardPost `json:"posts"`
}

// Checkin represents a created check-in record
type Checkin struct {
	ID             string    `json:"id"`
	PostID         int       `json:"post_id"`
	PresencePoints int       `json:"presence_points"`
	GamePoints     int       `json:"game_points"`
	TotalPoints    int       `json:"total_points"`
	CreatedAt      time.Time `json:"created_at"`
}

// CheckinFromModel converts a model.Checkin
func CheckinFromModel(c *model.Checkin) Checkin {
	return Checkin{
		ID:             c.ID,
		PostID:         int(c.PostID),
		PresencePoints: c.PresencePoints,
		GamePoints:     c.GamePoints,
		TotalPoints:    c.TotalPoints,
		CreatedAt:      c.CreatedAt,
	}
}

// RankingEntry is one row of the admin ranking
type RankingEntry struct {
	Username    string `json:"username"`
	DisplayName string `json:"name"`
	Score       int    `json:"score"`
}

// RankingEntryFromModel converts a model.TeamScore
func RankingEntryFromModel(t model.TeamScore) RankingEntry {
	return RankingEntry{
		Username:    t.Username,
		DisplayName: t.DisplayName,
		Score:       t.Score,
	}
}

// HistoryEntry is one row of the admin check-in history
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	TeamName  string    `json:"team_name"`
	PostID    int       `json:"post_id"`
	Presence  int       `json:"presence"`
	Game      int       `json:"game"`
	Total     int       `json:"total"`
}

// HistoryEntryFromModel converts a model.HistoryEntry
func HistoryEntryFromModel(e model.HistoryEntry) HistoryEntry {
	return HistoryEntry{
		Timestamp: e.Checkin.CreatedAt,
		TeamName:  e.TeamDisplayName,
		PostID:    int(e.Checkin.PostID),
		Presence:  e.Checkin.PresencePoints,
		Game:      e.Checkin.GamePoints,
		Total:     e.Checkin.TotalPoints,
	}
}

// AdminDashboard is the response for the admin dashboard endpoint
type AdminDashboard struct {
	Ranking      []RankingEntry `json:"ranking"`
	History      []HistoryEntry `json:"history"`
	TotalRecords int            `json:"total_records"`
}
