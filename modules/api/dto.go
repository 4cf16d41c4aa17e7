package api

import (
	"github.com/example/todo-api/modules/activity"
)

// Error codes returned in ErrorResponse.Error.
const (
	errCodeInvalidRequest = "invalid_request"
	errCodeNotFound       = "not_found"
	errCodeServerError    = "server_error"
)

// ErrorResponse is the HTTP response for errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is the HTTP response for health check.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// ActivityResponse is the HTTP response for the activity feed.
type ActivityResponse struct {
	Entries []activity.Entry `json:"entries"`
	Total   int              `json:"total"`
}
