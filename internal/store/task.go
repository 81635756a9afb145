package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskvault/internal/domain"
)

// Pagination bounds applied to every task listing.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Sort directions accepted by TaskQuery.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// sortColumns is the allow-list of sortable fields, mapping the external
// field name to its database column. Anything outside this map falls back
// to the default ordering rather than reaching the query builder.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"priority":  "priority",
	"title":     "title",
}

// SortColumn resolves an external sort field name to its database column.
// Returns ("", false) for fields outside the allow-list.
func SortColumn(field string) (string, bool) {
	col, ok := sortColumns[field]
	return col, ok
}

// TaskQuery describes one owner-scoped task listing: optional filters,
// an optional search term, sorting and pagination. The owner is supplied
// separately by the caller and is always applied.
type TaskQuery struct {
	Completed *bool
	Priority  *domain.TaskPriority
	Search    string

	// DueBefore keeps only tasks whose due date is set and earlier than
	// this instant. Combined with Completed=false it selects overdue tasks.
	DueBefore *time.Time

	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// Normalize clamps pagination into valid bounds and discards sort input
// that is not usable: an unknown SortBy or SortOrder reverts to the
// default ordering (incomplete first, newest first).
func (q *TaskQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}

	if _, ok := sortColumns[q.SortBy]; !ok {
		q.SortBy = ""
	}
	if q.SortOrder != SortAsc && q.SortOrder != SortDesc {
		q.SortOrder = ""
	}
}

// Offset returns the row offset for the current page. Call Normalize first.
func (q *TaskQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Page is a bounded slice of a larger result set together with the
// pagination bookkeeping the API envelope exposes.
type Page[T any] struct {
	Items       []T  `json:"items"`
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// NewPage assembles a Page from one page of items and the total match count.
func NewPage[T any](items []T, page, limit, total int) Page[T] {
	if items == nil {
		items = []T{}
	}

	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Page[T]{
		Items:       items,
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// TaskStats summarizes one owner's tasks.
type TaskStats struct {
	Total      int                         `json:"total"`
	Completed  int                         `json:"completed"`
	Pending    int                         `json:"pending"`
	Overdue    int                         `json:"overdue"`
	ByPriority map[domain.TaskPriority]int `json:"byPriority"`
}

// TaskPatch carries a partial task update. Nil fields are left untouched.
// DueDate distinguishes "not supplied" (DueDate == nil) from "clear the
// due date" (DueDate set, Time == nil).
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *domain.TaskPriority
	DueDate     **time.Time
}

// IsEmpty reports whether the patch carries no recognized fields.
func (p *TaskPatch) IsEmpty() bool {
	return p.Title == nil &&
		p.Description == nil &&
		p.Completed == nil &&
		p.Priority == nil &&
		p.DueDate == nil
}

// TaskStore defines the interface for task data persistence.
// Every method is owner-scoped: a task that exists but belongs to a
// different owner behaves exactly as if it did not exist.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by ID for the given owner.
	// Returns ErrTaskNotFound if no such task exists for that owner.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)

	// List returns one page of the owner's tasks matching the query,
	// together with the total match count.
	List(ctx context.Context, ownerID uuid.UUID, query TaskQuery) (Page[*domain.Task], error)

	// Update persists the given task. The task's ID and UserID select the
	// row; UserID is never modified.
	// Returns ErrTaskNotFound if no such task exists for that owner.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes the owner's task by ID.
	// Returns ErrTaskNotFound if no such task exists for that owner.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// ToggleCompletion atomically flips the completion flag of the owner's
	// task in a single conditional update and returns the updated task.
	// Returns ErrTaskNotFound if no such task exists for that owner.
	ToggleCompletion(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)

	// Stats aggregates counts over the owner's tasks.
	Stats(ctx context.Context, ownerID uuid.UUID) (*TaskStats, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) TaskStore
}
