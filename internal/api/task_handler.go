package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/service"
)

// TaskDeletedMessage is the body of a successful delete.
const TaskDeletedMessage = "Task deleted successfully"

// TaskHandler handles the /api/users/{user_id}/tasks routes. Ownership is
// decided by the task service; the handler only extracts the caller and path.
type TaskHandler struct {
	tasks     service.TaskService
	validator *validator.Validate
	logger    *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(tasks service.TaskService, logger *slog.Logger) *TaskHandler {
	if tasks == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("tasks cannot be nil for TaskHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		tasks:     tasks,
		validator: newValidator(),
		logger:    logger.With(slog.String("component", "task_handler")),
	}
}

// ListTasks handles GET /api/users/{user_id}/tasks?completed=
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, ids, ok := callerAndPath(w, r, log, userIDParam)
	if !ok {
		return
	}

	completed, err := parseCompletedFilter(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	tasks, err := h.tasks.ListTasks(r.Context(), caller, ids[0], completed)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// CreateTask handles POST /api/users/{user_id}/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, ids, ok := callerAndPath(w, r, log, userIDParam)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("failed to decode create task request", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	input := service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Priority != nil {
		input.Priority = *req.Priority
	}

	task, err := h.tasks.CreateTask(r.Context(), caller, ids[0], input)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// GetTask handles GET /api/users/{user_id}/tasks/{task_id}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, ids, ok := callerAndPath(w, r, log, userIDParam, taskIDParam)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(r.Context(), caller, ids[0], ids[1])
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTask handles PUT /api/users/{user_id}/tasks/{task_id}. Only the
// fields present in the body change.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, ids, ok := callerAndPath(w, r, log, userIDParam, taskIDParam)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("failed to decode update task request", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.tasks.UpdateTask(r.Context(), caller, ids[0], ids[1], req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /api/users/{user_id}/tasks/{task_id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, ids, ok := callerAndPath(w, r, log, userIDParam, taskIDParam)
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), caller, ids[0], ids[1]); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{Message: TaskDeletedMessage})
}

// ToggleTask handles PATCH /api/users/{user_id}/tasks/{task_id}/complete
func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, ids, ok := callerAndPath(w, r, log, userIDParam, taskIDParam)
	if !ok {
		return
	}

	task, err := h.tasks.ToggleTask(r.Context(), caller, ids[0], ids[1])
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}
