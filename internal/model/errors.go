package model

import "errors"

// Common errors used across the application
var (
	// Identity errors
	ErrIdentityNotFound = errors.New("identity not found")

	// Post errors
	ErrPostNotFound = errors.New("post not found")
	ErrInvalidPin   = errors.New("invalid pin for this post")

	// Check-in errors
	ErrInvalidGamePoints = errors.New("game points must be 0 or 100")
	ErrDuplicateCheckin  = errors.New("team has already checked in at this post")

	// Storage errors
	ErrStorageFailure = errors.New("storage failure")
)
