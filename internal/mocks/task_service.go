package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/phrazzld/taskvault/internal/domain"
	"github.com/phrazzld/taskvault/internal/service"
	"github.com/phrazzld/taskvault/internal/store"
)

// MockTaskService implements service.TaskService for testing
type MockTaskService struct {
	CreateFn           func(ctx context.Context, ownerID uuid.UUID, input service.CreateTaskInput) (*domain.Task, error)
	GetFn              func(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)
	ListFn             func(ctx context.Context, ownerID uuid.UUID, query store.TaskQuery) (store.Page[*domain.Task], error)
	UpdateFn           func(ctx context.Context, ownerID, id uuid.UUID, patch store.TaskPatch) (*domain.Task, error)
	DeleteFn           func(ctx context.Context, ownerID, id uuid.UUID) error
	ToggleCompletionFn func(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)
	StatsFn            func(ctx context.Context, ownerID uuid.UUID) (*store.TaskStats, error)
	SearchFn           func(ctx context.Context, ownerID uuid.UUID, term string, page, limit int) (store.Page[*domain.Task], error)
	ListByPriorityFn   func(ctx context.Context, ownerID uuid.UUID, priority domain.TaskPriority, page, limit int) (store.Page[*domain.Task], error)
	ListOverdueFn      func(ctx context.Context, ownerID uuid.UUID, page, limit int) (store.Page[*domain.Task], error)
}

var _ service.TaskService = (*MockTaskService)(nil)

func (m *MockTaskService) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	input service.CreateTaskInput,
) (*domain.Task, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, ownerID, input)
	}
	return nil, nil
}

func (m *MockTaskService) Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, ownerID, id)
	}
	return nil, store.ErrTaskNotFound
}

func (m *MockTaskService) List(
	ctx context.Context,
	ownerID uuid.UUID,
	query store.TaskQuery,
) (store.Page[*domain.Task], error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, ownerID, query)
	}
	return store.NewPage([]*domain.Task{}, 1, store.DefaultPageLimit, 0), nil
}

func (m *MockTaskService) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	patch store.TaskPatch,
) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, ownerID, id, patch)
	}
	return nil, store.ErrTaskNotFound
}

func (m *MockTaskService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, ownerID, id)
	}
	return store.ErrTaskNotFound
}

func (m *MockTaskService) ToggleCompletion(
	ctx context.Context,
	ownerID, id uuid.UUID,
) (*domain.Task, error) {
	if m.ToggleCompletionFn != nil {
		return m.ToggleCompletionFn(ctx, ownerID, id)
	}
	return nil, store.ErrTaskNotFound
}

func (m *MockTaskService) Stats(ctx context.Context, ownerID uuid.UUID) (*store.TaskStats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx, ownerID)
	}
	return &store.TaskStats{ByPriority: map[domain.TaskPriority]int{}}, nil
}

func (m *MockTaskService) Search(
	ctx context.Context,
	ownerID uuid.UUID,
	term string,
	page, limit int,
) (store.Page[*domain.Task], error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, ownerID, term, page, limit)
	}
	return store.NewPage([]*domain.Task{}, 1, store.DefaultPageLimit, 0), nil
}

func (m *MockTaskService) ListByPriority(
	ctx context.Context,
	ownerID uuid.UUID,
	priority domain.TaskPriority,
	page, limit int,
) (store.Page[*domain.Task], error) {
	if m.ListByPriorityFn != nil {
		return m.ListByPriorityFn(ctx, ownerID, priority, page, limit)
	}
	return store.NewPage([]*domain.Task{}, 1, store.DefaultPageLimit, 0), nil
}

func (m *MockTaskService) ListOverdue(
	ctx context.Context,
	ownerID uuid.UUID,
	page, limit int,
) (store.Page[*domain.Task], error) {
	if m.ListOverdueFn != nil {
		return m.ListOverdueFn(ctx, ownerID, page, limit)
	}
	return store.NewPage([]*domain.Task{}, 1, store.DefaultPageLimit, 0), nil
}
