package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/taskvault/internal/domain"
	"github.com/phrazzld/taskvault/internal/store"
)

// mockTaskStore is a hand-rolled store.TaskStore double. Each method
// delegates to an optional function field, so tests configure only what
// they exercise.
type mockTaskStore struct {
	createFn func(ctx context.Context, task *domain.Task) error
	getFn    func(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)
	listFn   func(ctx context.Context, ownerID uuid.UUID, query store.TaskQuery) (store.Page[*domain.Task], error)
	updateFn func(ctx context.Context, task *domain.Task) error
	deleteFn func(ctx context.Context, ownerID, id uuid.UUID) error
	toggleFn func(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)
	statsFn  func(ctx context.Context, ownerID uuid.UUID) (*store.TaskStats, error)
}

var _ store.TaskStore = (*mockTaskStore)(nil)

func (m *mockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, task)
}

func (m *mockTaskStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	if m.getFn == nil {
		return nil, store.ErrTaskNotFound
	}
	return m.getFn(ctx, ownerID, id)
}

func (m *mockTaskStore) List(
	ctx context.Context,
	ownerID uuid.UUID,
	query store.TaskQuery,
) (store.Page[*domain.Task], error) {
	if m.listFn == nil {
		return store.NewPage[*domain.Task](nil, 1, store.DefaultPageLimit, 0), nil
	}
	return m.listFn(ctx, ownerID, query)
}

func (m *mockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.updateFn == nil {
		return nil
	}
	return m.updateFn(ctx, task)
}

func (m *mockTaskStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, ownerID, id)
}

func (m *mockTaskStore) ToggleCompletion(
	ctx context.Context,
	ownerID, id uuid.UUID,
) (*domain.Task, error) {
	if m.toggleFn == nil {
		return nil, store.ErrTaskNotFound
	}
	return m.toggleFn(ctx, ownerID, id)
}

func (m *mockTaskStore) Stats(ctx context.Context, ownerID uuid.UUID) (*store.TaskStats, error) {
	if m.statsFn == nil {
		return &store.TaskStats{ByPriority: map[domain.TaskPriority]int{}}, nil
	}
	return m.statsFn(ctx, ownerID)
}

func (m *mockTaskStore) WithTx(tx *sql.Tx) store.TaskStore { return m }

// mockUserStore is a hand-rolled store.UserStore double.
type mockUserStore struct {
	createFn     func(ctx context.Context, user *domain.User) error
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
}

var _ store.UserStore = (*mockUserStore)(nil)

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, user)
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getByIDFn == nil {
		return nil, store.ErrUserNotFound
	}
	return m.getByIDFn(ctx, id)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn == nil {
		return nil, store.ErrUserNotFound
	}
	return m.getByEmailFn(ctx, email)
}

func (m *mockUserStore) WithTx(tx *sql.Tx) store.UserStore { return m }

// passthroughTx replaces store.RunInTransaction in tests: it invokes the
// function directly with a nil transaction, which the mock stores ignore.
func passthroughTx(ctx context.Context, db *sql.DB, fn store.TxFn) error {
	return fn(ctx, nil)
}
