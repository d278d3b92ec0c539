package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Identity:
		o.printIdentity(v)
	case AuthResult:
		o.printAuthResult(v)
	case SessionResult:
		o.printSessionResult(v)
	case TeamDashboard:
		o.printTeamDashboard(v)
	case CheckinResult:
		o.printCheckinResult(v)
	case AdminDashboard:
		o.printAdminDashboard(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Identity response type (matches API)
type Identity struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
}

// AuthResult combines the identity and session token
type AuthResult struct {
	User         Identity `json:"user"`
	SessionToken string   `json:"session_token"`
}

// SessionResult is the session probe response
type SessionResult struct {
	User *Identity `json:"user"`
}

// DashboardPost response type
type DashboardPost struct {
	ID      int  `json:"id"`
	Visited bool `json:"visited"`
}

// TeamDashboard response type
type TeamDashboard struct {
	Team  Identity        `json:"team"`
	Score int             `json:"score"`
	Posts []DashboardPost `json:"posts"`
}

// CheckinResult response type
type CheckinResult struct {
	ID             string    `json:"id"`
	PostID         int       `json:"post_id"`
	PresencePoints int       `json:"presence_points"`
	GamePoints     int       `json:"game_points"`
	TotalPoints    int       `json:"total_points"`
	CreatedAt      time.Time `json:"created_at"`
}

// RankingEntry response type
type RankingEntry struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

// HistoryEntry response type
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	TeamName  string    `json:"team_name"`
	PostID    int       `json:"post_id"`
	Presence  int       `json:"presence"`
	Game      int       `json:"game"`
	Total     int       `json:"total"`
}

// AdminDashboard response type
type AdminDashboard struct {
	Ranking      []RankingEntry `json:"ranking"`
	History      []HistoryEntry `json:"history"`
	TotalRecords int            `json:"total_records"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printIdentity(i Identity) {
	fmt.Printf("User: %s (%s)\n", i.DisplayName, i.Username)
	fmt.Printf("Role: %s\n", i.Role)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printIdentity(a.User)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printSessionResult(s SessionResult) {
	if s.User == nil {
		fmt.Println("Not logged in")
		return
	}
	o.printIdentity(*s.User)
}

func (o *Output) printTeamDashboard(d TeamDashboard) {
	fmt.Printf("Team: %s\n", d.Team.DisplayName)
	fmt.Printf("Score: %d\n", d.Score)
	fmt.Printf("Posts (%d):\n", len(d.Posts))
	for _, p := range d.Posts {
		mark := " "
		if p.Visited {
			mark = "x"
		}
		fmt.Printf("  [%s] Post %d\n", mark, p.ID)
	}
}

func (o *Output) printCheckinResult(c CheckinResult) {
	fmt.Printf("Checked in at post %d\n", c.PostID)
	fmt.Printf("Presence: %d\n", c.PresencePoints)
	fmt.Printf("Game: %d\n", c.GamePoints)
	fmt.Printf("Total: %d\n", c.TotalPoints)
}

func (o *Output) printAdminDashboard(d AdminDashboard) {
	fmt.Printf("Ranking (%d teams):\n", len(d.Ranking))
	for i, entry := range d.Ranking {
		fmt.Printf("  %d. %s - %d points\n", i+1, entry.Name, entry.Score)
	}

	fmt.Printf("\nHistory (%d records):\n", d.TotalRecords)
	for _, h := range d.History {
		fmt.Printf("  %s  %s  post %d  +%d\n",
			h.Timestamp.Format(time.RFC3339), h.TeamName, h.PostID, h.Total)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
