package model

import "time"

// PostID identifies a physical checkpoint
type PostID int

// Post is a physical checkpoint with a secret PIN.
// The set of posts is fixed at setup and never mutated by normal operation.
type Post struct {
	ID        PostID
	PIN       string
	CreatedAt time.Time
}
