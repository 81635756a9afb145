package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common task validation errors. Each wraps ErrValidation so callers can
// classify them with a single errors.Is check.
var (
	ErrEmptyTaskID        = fmt.Errorf("%w: task ID cannot be empty", ErrValidation)
	ErrEmptyTaskOwner     = fmt.Errorf("%w: task owner ID cannot be empty", ErrValidation)
	ErrEmptyTitle         = fmt.Errorf("%w: title cannot be empty", ErrValidation)
	ErrTitleTooLong       = fmt.Errorf("%w: title must be at most 200 characters long", ErrValidation)
	ErrDescriptionTooLong = fmt.Errorf("%w: description must be at most 2000 characters long", ErrValidation)
)

// Task field bounds.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

// TaskPriority is the importance level of a task.
type TaskPriority string

// Known priority levels, ordered LOW < MEDIUM < HIGH.
const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

// DefaultPriority is assigned when a task is created without an explicit
// priority.
const DefaultPriority = PriorityMedium

// ParsePriority converts a string into a TaskPriority, accepting any casing.
// Returns ErrInvalidPriority for unknown values.
func ParsePriority(s string) (TaskPriority, error) {
	switch TaskPriority(strings.ToUpper(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityHigh:
		return PriorityHigh, nil
	default:
		return "", ErrInvalidPriority
	}
}

// Valid reports whether p is one of the known priority levels.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents a single tracked item owned by exactly one user.
// UserID is set at creation and never changes afterwards.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Completed   bool         `json:"completed"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewTask creates a task owned by userID. A zero priority resolves to
// DefaultPriority and the completion flag starts false. Returns an error
// if validation fails.
func NewTask(
	userID uuid.UUID,
	title, description string,
	priority TaskPriority,
	dueDate *time.Time,
) (*Task, error) {
	if priority == "" {
		priority = DefaultPriority
	}

	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Completed:   false,
		Priority:    priority,
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.UserID == uuid.Nil {
		return ErrEmptyTaskOwner
	}

	if t.Title == "" {
		return ErrEmptyTitle
	}

	if len(t.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}

	if len(t.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}

	if !t.Priority.Valid() {
		return ErrInvalidPriority
	}

	return nil
}

// Overdue reports whether the task is incomplete and past its due date.
// Tasks without a due date are never overdue.
func (t *Task) Overdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}
