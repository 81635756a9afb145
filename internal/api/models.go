package api

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/taskvault/internal/domain"
	"github.com/phrazzld/taskvault/internal/service"
	"github.com/phrazzld/taskvault/internal/store"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name"     validate:"omitempty,max=100"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// Email is the registered address, normalized to lower case
	Email string `json:"email"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// VerifyResponse is returned by the token verification endpoint.
type VerifyResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Valid  bool      `json:"valid"`
}

// CreateTaskRequest defines the payload for creating a task. The due date,
// when present, must be RFC 3339.
type CreateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,max=200"`
	Description string     `json:"description" validate:"omitempty,max=2000"`
	Priority    string     `json:"priority"    validate:"omitempty"`
	DueDate     *time.Time `json:"dueDate"`
}

// ToInput converts the request into the service-layer input, resolving the
// priority string. An empty priority defers to the domain default.
func (req *CreateTaskRequest) ToInput() (service.CreateTaskInput, error) {
	input := service.CreateTaskInput{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		DueDate:     req.DueDate,
	}

	if req.Priority != "" {
		priority, err := domain.ParsePriority(req.Priority)
		if err != nil {
			return service.CreateTaskInput{}, domain.NewValidationError(
				"priority", "must be one of LOW, MEDIUM, HIGH", domain.ErrInvalidPriority)
		}
		input.Priority = priority
	}

	return input, nil
}

// UpdateTaskRequest defines the payload for partially updating a task.
// All fields are optional; at least one must be present. A dueDate of
// JSON null clears the stored due date, which is why presence of the key
// is tracked separately from its value.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"       validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Completed   *bool      `json:"completed"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`

	dueDatePresent bool
}

// UnmarshalJSON decodes the patch and records whether the dueDate key was
// present, so null can be distinguished from absent.
func (req *UpdateTaskRequest) UnmarshalJSON(data []byte) error {
	type alias UpdateTaskRequest
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, a.dueDatePresent = keys["dueDate"]

	*req = UpdateTaskRequest(a)
	return nil
}

// ToPatch converts the request into a store-layer patch, resolving the
// priority string.
func (req *UpdateTaskRequest) ToPatch() (store.TaskPatch, error) {
	patch := store.TaskPatch{
		Completed: req.Completed,
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		patch.Title = &title
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		patch.Description = &description
	}
	if req.Priority != nil {
		priority, err := domain.ParsePriority(*req.Priority)
		if err != nil {
			return store.TaskPatch{}, domain.NewValidationError(
				"priority", "must be one of LOW, MEDIUM, HIGH", domain.ErrInvalidPriority)
		}
		patch.Priority = &priority
	}
	if req.dueDatePresent {
		dueDate := req.DueDate
		patch.DueDate = &dueDate
	}

	return patch, nil
}
