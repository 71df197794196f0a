package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/talhabinhussain/fullstack-todo-app/internal/application/ports"
	"github.com/talhabinhussain/fullstack-todo-app/internal/domain"
	domerrors "github.com/talhabinhussain/fullstack-todo-app/internal/domain/errors"
)

// TasksHandler serves the task CRUD under /api/{user_id}/tasks. Routes are
// mounted behind Authenticator and RequireOwner; the repository filters by
// owner on top of that, so a task id belonging to another account answers
// 404 rather than leaking data.
type TasksHandler struct {
	tasks    ports.TaskRepository
	validate *validator.Validate
	log      zerolog.Logger
}

func NewTasksHandler(tasks ports.TaskRepository, log zerolog.Logger) *TasksHandler {
	return &TasksHandler{tasks: tasks, validate: validator.New(), log: log}
}

type taskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	IsCompleted bool      `json:"is_completed"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
		UserID:      t.UserID.String(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// owner resolves the {user_id} path parameter. RequireOwner has already
// matched it against the token subject, which is a valid UUID, so a parse
// failure here means a malformed path.
func (h *TasksHandler) owner(w http.ResponseWriter, r *http.Request) (domain.UserID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "user_id"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid user ID format")
		return domain.UserID{}, false
	}
	return domain.NewUserID(id), true
}

func (h *TasksHandler) taskID(w http.ResponseWriter, r *http.Request) (domain.TaskID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid task ID format")
		return domain.TaskID{}, false
	}
	return domain.NewTaskID(id), true
}

func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	tasks, err := h.tasks.ListByOwner(r.Context(), ownerID)
	if err != nil {
		h.log.Error().Err(err).Msg("list tasks failed")
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	items := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, newTaskResponse(t))
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	var body struct {
		Title       string  `json:"title" validate:"required,min=1,max=100"`
		Description *string `json:"description" validate:"omitempty,max=500"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			writeValidationErr(w, verrs)
			return
		}
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	now := time.Now()
	task := &domain.Task{
		ID:          domain.NewTaskID(uuid.New()),
		UserID:      ownerID,
		Title:       body.Title,
		Description: body.Description,
		IsCompleted: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.tasks.Create(r.Context(), task); err != nil {
		h.log.Error().Err(err).Msg("create task failed")
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, newTaskResponse(task))
}

func (h *TasksHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	taskID, ok := h.taskID(w, r)
	if !ok {
		return
	}
	task, err := h.tasks.GetByIDAndOwner(r.Context(), taskID, ownerID)
	if err != nil {
		h.log.Error().Err(err).Msg("get task failed")
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	if task == nil {
		writeErr(w, http.StatusNotFound, domerrors.ErrTaskNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, newTaskResponse(task))
}

func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	taskID, ok := h.taskID(w, r)
	if !ok {
		return
	}
	var body struct {
		Title       *string `json:"title" validate:"omitempty,min=1,max=100"`
		Description *string `json:"description" validate:"omitempty,max=500"`
		IsCompleted *bool   `json:"is_completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			writeValidationErr(w, verrs)
			return
		}
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	task, err := h.tasks.GetByIDAndOwner(r.Context(), taskID, ownerID)
	if err != nil {
		h.log.Error().Err(err).Msg("update task failed")
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	if task == nil {
		writeErr(w, http.StatusNotFound, domerrors.ErrTaskNotFound.Error())
		return
	}
	// Only fields present in the body change; id, user_id and created_at
	// are immutable.
	if body.Title != nil {
		task.Title = *body.Title
	}
	if body.Description != nil {
		task.Description = body.Description
	}
	if body.IsCompleted != nil {
		task.IsCompleted = *body.IsCompleted
	}
	task.UpdatedAt = time.Now()
	if err := h.tasks.Update(r.Context(), task); err != nil {
		if errors.Is(err, domerrors.ErrTaskNotFound) {
			writeErr(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("update task failed")
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, newTaskResponse(task))
}

func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	taskID, ok := h.taskID(w, r)
	if !ok {
		return
	}
	deleted, err := h.tasks.DeleteByIDAndOwner(r.Context(), taskID, ownerID)
	if err != nil {
		h.log.Error().Err(err).Msg("delete task failed")
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !deleted {
		writeErr(w, http.StatusNotFound, domerrors.ErrTaskNotFound.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TasksHandler) ToggleComplete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	taskID, ok := h.taskID(w, r)
	if !ok {
		return
	}
	task, err := h.tasks.GetByIDAndOwner(r.Context(), taskID, ownerID)
	if err != nil {
		h.log.Error().Err(err).Msg("toggle task failed")
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	if task == nil {
		writeErr(w, http.StatusNotFound, domerrors.ErrTaskNotFound.Error())
		return
	}
	task.IsCompleted = !task.IsCompleted
	task.UpdatedAt = time.Now()
	if err := h.tasks.Update(r.Context(), task); err != nil {
		if errors.Is(err, domerrors.ErrTaskNotFound) {
			writeErr(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("toggle task failed")
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, newTaskResponse(task))
}
