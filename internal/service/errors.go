package service

import "errors"

// Common service errors - sentinel errors used across service
// implementations. Callers check these with errors.Is; the API layer maps
// them to HTTP status codes.
var (
	// ErrEmptyUpdate indicates a task update that carries no recognized
	// fields. Empty updates are rejected rather than treated as a no-op,
	// so a client bug that drops the payload surfaces immediately.
	ErrEmptyUpdate = errors.New("update contains no fields")
)
