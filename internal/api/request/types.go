package request

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CheckinRequest is the request body for submitting a check-in
type CheckinRequest struct {
	PostID     int    `json:"post_id"`
	Pin        string `json:"pin"`
	GamePoints int    `json:"game_points"`
}
