package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskvault/internal/api/shared"
	"github.com/phrazzld/taskvault/internal/domain"
	"github.com/phrazzld/taskvault/internal/service"
)

// TaskHandler handles task lifecycle API requests. Every operation is
// scoped to the authenticated identity; a task belonging to someone else
// is indistinguishable from one that does not exist.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With("component", "task_handler"),
	}
}

// List handles GET /tasks. Filters, search, sorting and pagination all
// come from the query string.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentityFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	query, err := taskQueryFromRequest(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	page, err := h.taskService.List(r.Context(), identity.ID, query)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithPage(w, r, http.StatusOK, page)
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentityFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, CodeValidationError, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		HandleValidationError(w, r, err)
		return
	}

	input, err := req.ToInput()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.Create(r.Context(), identity.ID, input)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, task)
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, taskID, ok := handleIdentityAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	task, err := h.taskService.Get(r.Context(), identity.ID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, task)
}

// Update handles PUT /tasks/{id}. The body is a partial update; fields
// left out keep their stored values, and a JSON-null dueDate clears it.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, taskID, ok := handleIdentityAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, CodeValidationError, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		HandleValidationError(w, r, err)
		return
	}

	patch, err := req.ToPatch()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.Update(r.Context(), identity.ID, taskID, patch)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, task)
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, taskID, ok := handleIdentityAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), identity.ID, taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, nil, "Task deleted successfully")
}

// Toggle handles PATCH /tasks/{id}/toggle. The flip happens in a single
// statement so concurrent toggles cannot lose an update.
func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	identity, taskID, ok := handleIdentityAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	task, err := h.taskService.ToggleCompletion(r.Context(), identity.ID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to toggle task")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, task)
}

// ByPriority handles GET /tasks/priority/{priority}.
func (h *TaskHandler) ByPriority(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentityFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	priority, err := domain.ParsePriority(chi.URLParam(r, "priority"))
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError(
			"priority", "must be one of LOW, MEDIUM, HIGH", domain.ErrInvalidPriority), "")
		return
	}

	page, limit, err := pageLimitFromRequest(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.taskService.ListByPriority(r.Context(), identity.ID, priority, page, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks by priority")
		return
	}

	shared.RespondWithPage(w, r, http.StatusOK, result)
}

// Overdue handles GET /tasks/overdue: incomplete tasks whose due date has
// passed, most urgent first.
func (h *TaskHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentityFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	page, limit, err := pageLimitFromRequest(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.taskService.ListOverdue(r.Context(), identity.ID, page, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list overdue tasks")
		return
	}

	shared.RespondWithPage(w, r, http.StatusOK, result)
}

// Search handles GET /tasks/search/{term}. The term is matched
// case-insensitively against titles and descriptions.
func (h *TaskHandler) Search(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentityFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	term := chi.URLParam(r, "term")
	if decoded, err := url.PathUnescape(term); err == nil {
		term = decoded
	}
	term = strings.TrimSpace(term)
	if term == "" {
		HandleAPIError(w, r, domain.NewValidationError(
			"term", "is required", domain.ErrValidation), "")
		return
	}

	page, limit, err := pageLimitFromRequest(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.taskService.Search(r.Context(), identity.ID, term, page, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to search tasks")
		return
	}

	shared.RespondWithPage(w, r, http.StatusOK, result)
}

// Stats handles GET /tasks/stats.
func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentityFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	stats, err := h.taskService.Stats(r.Context(), identity.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task statistics")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, stats)
}
