package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskvault/internal/domain"
	"github.com/phrazzld/taskvault/internal/platform/logger"
	"github.com/phrazzld/taskvault/internal/store"
)

// taskColumns is the column list shared by every task SELECT.
const taskColumns = "id, user_id, title, description, completed, priority, due_date, created_at, updated_at"

// priorityRank orders the priority enum LOW < MEDIUM < HIGH when sorting.
// Stored values are text, so a bare ORDER BY would sort alphabetically.
const priorityRank = "CASE priority WHEN 'LOW' THEN 1 WHEN 'MEDIUM' THEN 2 WHEN 'HIGH' THEN 3 END"

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
//
// Every query it issues carries a user_id predicate; ownership isolation
// lives here, not in the callers.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, log *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: log.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return NewPostgresTaskStore(tx, s.logger)
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO tasks (id, user_id, title, description, completed, priority, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Completed,
		task.Priority,
		nullTime(task.DueDate),
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("user_id", task.UserID.String()))
		return MapError(err)
	}

	return nil
}

// GetByID implements store.TaskStore.GetByID
// Absence and foreign ownership both return store.ErrTaskNotFound.
func (s *PostgresTaskStore) GetByID(
	ctx context.Context,
	ownerID, id uuid.UUID,
) (*domain.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1 AND user_id = $2`, taskColumns)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrTaskNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	return task, nil
}

// List implements store.TaskStore.List
// It builds one predicate used by both the count and the page query, so
// total always reflects the full match set regardless of page.
func (s *PostgresTaskStore) List(
	ctx context.Context,
	ownerID uuid.UUID,
	query store.TaskQuery,
) (store.Page[*domain.Task], error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	query.Normalize()

	where, args := buildTaskPredicate(ownerID, query)

	var total int
	countSQL := "SELECT COUNT(*) FROM tasks WHERE " + where
	if err := s.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		log.Error("failed to count tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return store.Page[*domain.Task]{}, MapError(err)
	}

	pageSQL := fmt.Sprintf(
		"SELECT %s FROM tasks WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		taskColumns,
		where,
		orderClause(query),
		len(args)+1,
		len(args)+2,
	)
	args = append(args, query.Limit, query.Offset())

	rows, err := s.db.QueryContext(ctx, pageSQL, args...)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return store.Page[*domain.Task]{}, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row",
				slog.String("error", err.Error()))
			return store.Page[*domain.Task]{}, MapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return store.Page[*domain.Task]{}, MapError(err)
	}

	return store.NewPage(tasks, query.Page, query.Limit, total), nil
}

// Update implements store.TaskStore.Update
// The WHERE clause matches on both id and user_id, so a task owned by a
// different user updates zero rows and reports not found.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, completed = $3, priority = $4, due_date = $5, updated_at = $6
		WHERE id = $7 AND user_id = $8
	`

	result, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.Completed,
		task.Priority,
		nullTime(task.DueDate),
		task.UpdatedAt,
		task.ID,
		task.UserID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// ToggleCompletion implements store.TaskStore.ToggleCompletion
// The flip happens in a single conditional update, so two concurrent
// toggles on the same task serialize at the row and both take effect.
func (s *PostgresTaskStore) ToggleCompletion(
	ctx context.Context,
	ownerID, id uuid.UUID,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`
		UPDATE tasks
		SET completed = NOT completed, updated_at = $1
		WHERE id = $2 AND user_id = $3
		RETURNING %s
	`, taskColumns)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, time.Now().UTC(), id, ownerID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to toggle task completion",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	return task, nil
}

// Stats implements store.TaskStore.Stats
// A single aggregate query produces every counter so the numbers are
// consistent with each other.
func (s *PostgresTaskStore) Stats(
	ctx context.Context,
	ownerID uuid.UUID,
) (*store.TaskStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE completed),
			COUNT(*) FILTER (WHERE NOT completed),
			COUNT(*) FILTER (WHERE NOT completed AND due_date IS NOT NULL AND due_date < $2),
			COUNT(*) FILTER (WHERE priority = 'LOW'),
			COUNT(*) FILTER (WHERE priority = 'MEDIUM'),
			COUNT(*) FILTER (WHERE priority = 'HIGH')
		FROM tasks
		WHERE user_id = $1
	`

	stats := &store.TaskStats{
		ByPriority: make(map[domain.TaskPriority]int, 3),
	}
	var low, medium, high int

	err := s.db.QueryRowContext(ctx, query, ownerID, time.Now().UTC()).Scan(
		&stats.Total,
		&stats.Completed,
		&stats.Pending,
		&stats.Overdue,
		&low,
		&medium,
		&high,
	)
	if err != nil {
		log.Error("failed to aggregate task stats",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return nil, MapError(err)
	}

	stats.ByPriority[domain.PriorityLow] = low
	stats.ByPriority[domain.PriorityMedium] = medium
	stats.ByPriority[domain.PriorityHigh] = high

	return stats, nil
}

// buildTaskPredicate assembles the WHERE clause for a normalized query.
// The owner predicate is unconditional; everything else is additive.
func buildTaskPredicate(ownerID uuid.UUID, q store.TaskQuery) (string, []any) {
	clauses := []string{"user_id = $1"}
	args := []any{ownerID}

	if q.Completed != nil {
		args = append(args, *q.Completed)
		clauses = append(clauses, fmt.Sprintf("completed = $%d", len(args)))
	}

	if q.Priority != nil {
		args = append(args, *q.Priority)
		clauses = append(clauses, fmt.Sprintf("priority = $%d", len(args)))
	}

	if q.DueBefore != nil {
		args = append(args, *q.DueBefore)
		clauses = append(clauses, fmt.Sprintf("due_date IS NOT NULL AND due_date < $%d", len(args)))
	}

	if q.Search != "" {
		args = append(args, "%"+escapeLike(q.Search)+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			`(title ILIKE $%d ESCAPE '\' OR description ILIKE $%d ESCAPE '\')`, n, n))
	}

	return strings.Join(clauses, " AND "), args
}

// orderClause returns the ORDER BY expression for a normalized query.
// Normalize has already discarded sort fields outside the allow-list, so
// only known column names reach this point.
func orderClause(q store.TaskQuery) string {
	if q.SortBy != "" {
		col, ok := store.SortColumn(q.SortBy)
		if ok {
			if col == "priority" {
				col = priorityRank
			}
			dir := "DESC"
			if q.SortOrder == store.SortAsc {
				dir = "ASC"
			}
			// Stable tiebreak keeps pagination deterministic.
			return fmt.Sprintf("%s %s, created_at DESC", col, dir)
		}
	}

	// Default order: incomplete tasks first, then newest first.
	return "completed ASC, created_at DESC"
}

// escapeLike escapes the LIKE metacharacters in a user-supplied search term.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask maps one task row into a domain.Task.
func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var dueDate sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.Priority,
		&dueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if dueDate.Valid {
		t := dueDate.Time
		task.DueDate = &t
	}

	return &task, nil
}

// nullTime converts a *time.Time into a SQL NULL-able value.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
