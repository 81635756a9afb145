package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskvault/internal/domain"
	"github.com/phrazzld/taskvault/internal/store"
)

// CreateTaskInput carries the fields accepted when creating a task.
// Priority may be empty, in which case the domain default applies.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    domain.TaskPriority
	DueDate     *time.Time
}

// TaskService owns the task lifecycle. Every operation is scoped to the
// requesting owner: the store reports tasks of other owners as not found,
// and this layer never widens that.
type TaskService interface {
	// Create persists a new task for the owner. An empty priority
	// defaults to MEDIUM.
	Create(ctx context.Context, ownerID uuid.UUID, input CreateTaskInput) (*domain.Task, error)

	// Get retrieves one of the owner's tasks.
	// Returns store.ErrTaskNotFound for absent or foreign tasks alike.
	Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)

	// List returns one page of the owner's tasks matching the query.
	List(ctx context.Context, ownerID uuid.UUID, query store.TaskQuery) (store.Page[*domain.Task], error)

	// Update applies a partial update to one of the owner's tasks and
	// returns the updated task. A patch with no recognized fields is
	// rejected with ErrEmptyUpdate.
	Update(ctx context.Context, ownerID, id uuid.UUID, patch store.TaskPatch) (*domain.Task, error)

	// Delete removes one of the owner's tasks.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// ToggleCompletion atomically flips the completion flag of one of the
	// owner's tasks and returns the updated task.
	ToggleCompletion(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)

	// Stats aggregates counts over the owner's tasks.
	Stats(ctx context.Context, ownerID uuid.UUID) (*store.TaskStats, error)

	// Search lists the owner's tasks whose title or description contains
	// the term, case-insensitively.
	Search(ctx context.Context, ownerID uuid.UUID, term string, page, limit int) (store.Page[*domain.Task], error)

	// ListByPriority lists the owner's tasks with the given priority.
	ListByPriority(ctx context.Context, ownerID uuid.UUID, priority domain.TaskPriority, page, limit int) (store.Page[*domain.Task], error)

	// ListOverdue lists the owner's incomplete tasks whose due date has
	// passed, most urgent first.
	ListOverdue(ctx context.Context, ownerID uuid.UUID, page, limit int) (store.Page[*domain.Task], error)
}

// TaskServiceImpl implements the TaskService interface
type TaskServiceImpl struct {
	taskStore store.TaskStore
	logger    *slog.Logger
	timeFunc  func() time.Time // Injectable for testing
}

// Ensure TaskServiceImpl implements TaskService interface
var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) *TaskServiceImpl {
	return &TaskServiceImpl{
		taskStore: taskStore,
		logger:    logger.With("component", "task_service"),
		timeFunc:  time.Now,
	}
}

// Create persists a new task owned by ownerID.
func (s *TaskServiceImpl) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	input CreateTaskInput,
) (*domain.Task, error) {
	task, err := domain.NewTask(ownerID, input.Title, input.Description, input.Priority, input.DueDate)
	if err != nil {
		s.logger.Debug("rejected invalid task payload",
			"error", err,
			"user_id", ownerID)
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		s.logger.Error("failed to create task",
			"error", err,
			"user_id", ownerID)
		return nil, err
	}

	s.logger.Debug("task created",
		"task_id", task.ID,
		"user_id", ownerID)
	return task, nil
}

// Get retrieves one of the owner's tasks.
func (s *TaskServiceImpl) Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	return s.taskStore.GetByID(ctx, ownerID, id)
}

// List returns one page of the owner's tasks matching the query.
func (s *TaskServiceImpl) List(
	ctx context.Context,
	ownerID uuid.UUID,
	query store.TaskQuery,
) (store.Page[*domain.Task], error) {
	return s.taskStore.List(ctx, ownerID, query)
}

// Update merges the patch into the stored task and persists the result.
// The initial owner-scoped fetch doubles as the ownership check: a task
// belonging to someone else is already reported as not found there.
func (s *TaskServiceImpl) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	patch store.TaskPatch,
) (*domain.Task, error) {
	if patch.IsEmpty() {
		return nil, domain.NewValidationError("update", "must include at least one field", ErrEmptyUpdate)
	}

	task, err := s.taskStore.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		// *patch.DueDate == nil clears the due date.
		task.DueDate = *patch.DueDate
	}
	task.UpdatedAt = s.timeFunc().UTC()

	if err := s.taskStore.Update(ctx, task); err != nil {
		s.logger.Error("failed to update task",
			"error", err,
			"task_id", id,
			"user_id", ownerID)
		return nil, err
	}

	return task, nil
}

// Delete removes one of the owner's tasks.
func (s *TaskServiceImpl) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.taskStore.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	s.logger.Debug("task deleted",
		"task_id", id,
		"user_id", ownerID)
	return nil
}

// ToggleCompletion flips the completion flag in a single conditional
// update at the store.
func (s *TaskServiceImpl) ToggleCompletion(
	ctx context.Context,
	ownerID, id uuid.UUID,
) (*domain.Task, error) {
	return s.taskStore.ToggleCompletion(ctx, ownerID, id)
}

// Stats aggregates counts over the owner's tasks.
func (s *TaskServiceImpl) Stats(ctx context.Context, ownerID uuid.UUID) (*store.TaskStats, error) {
	return s.taskStore.Stats(ctx, ownerID)
}

// Search lists the owner's tasks matching the term.
func (s *TaskServiceImpl) Search(
	ctx context.Context,
	ownerID uuid.UUID,
	term string,
	page, limit int,
) (store.Page[*domain.Task], error) {
	return s.taskStore.List(ctx, ownerID, store.TaskQuery{
		Search: term,
		Page:   page,
		Limit:  limit,
	})
}

// ListByPriority lists the owner's tasks with the given priority.
func (s *TaskServiceImpl) ListByPriority(
	ctx context.Context,
	ownerID uuid.UUID,
	priority domain.TaskPriority,
	page, limit int,
) (store.Page[*domain.Task], error) {
	if !priority.Valid() {
		return store.Page[*domain.Task]{}, domain.ErrInvalidPriority
	}

	return s.taskStore.List(ctx, ownerID, store.TaskQuery{
		Priority: &priority,
		Page:     page,
		Limit:    limit,
	})
}

// ListOverdue lists the owner's incomplete tasks past their due date,
// earliest due date first.
func (s *TaskServiceImpl) ListOverdue(
	ctx context.Context,
	ownerID uuid.UUID,
	page, limit int,
) (store.Page[*domain.Task], error) {
	now := s.timeFunc().UTC()
	notCompleted := false

	return s.taskStore.List(ctx, ownerID, store.TaskQuery{
		Completed: &notCompleted,
		DueBefore: &now,
		SortBy:    "dueDate",
		SortOrder: store.SortAsc,
		Page:      page,
		Limit:     limit,
	})
}
