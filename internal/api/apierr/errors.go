package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/citygame/checkin/internal/model"
	"github.com/citygame/checkin/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodePostNotFound       = "POST_NOT_FOUND"
	CodeInvalidPin         = "INVALID_PIN"
	CodeInvalidGamePoints  = "INVALID_GAME_POINTS"
	CodeDuplicateCheckin   = "DUPLICATE_CHECKIN"
	CodeStorageFailure     = "STORAGE_FAILURE"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Map model errors
	case errors.Is(err, model.ErrPostNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePostNotFound, "Post not found"}}
	case errors.Is(err, model.ErrInvalidPin):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPin, "Invalid PIN for this post"}}
	case errors.Is(err, model.ErrInvalidGamePoints):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidGamePoints, "Game points must be 0 or 100"}}
	case errors.Is(err, model.ErrDuplicateCheckin):
		return &httpError{http.StatusConflict, APIError{CodeDuplicateCheckin, "This post has already been registered by the team"}}
	case errors.Is(err, model.ErrStorageFailure):
		return &httpError{http.StatusInternalServerError, APIError{CodeStorageFailure, "Storage failure"}}

	// Map auth errors. Unknown user and wrong password share one message.
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid credentials"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewForbiddenError creates a forbidden error for role/scope violations
func NewForbiddenError(message string) error {
	return &httpError{http.StatusForbidden, APIError{CodeForbidden, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
