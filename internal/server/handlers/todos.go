package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/syncpad/internal/models"
	"github.com/iudanet/syncpad/internal/server/storage"
	syncer "github.com/iudanet/syncpad/internal/sync"
	"github.com/iudanet/syncpad/internal/validation"
	"github.com/iudanet/syncpad/pkg/api"
)

// TodosHandler обрабатывает CRUD и синхронизацию задач
type TodosHandler struct {
	logger     *slog.Logger
	todos      storage.TodoStore
	reconciler *syncer.Reconciler[*api.TodoDelta, *models.Todo]
	feed       *syncer.Feed[*models.Todo]
}

// NewTodosHandler создает новый handler для задач
func NewTodosHandler(logger *slog.Logger, todos storage.TodoStore, users storage.UserStore) *TodosHandler {
	return &TodosHandler{
		logger:     logger,
		todos:      todos,
		reconciler: syncer.NewTodoReconciler(logger, todos, users),
		feed:       syncer.NewTodoFeed(logger, todos, users),
	}
}

// List обрабатывает GET /api/todos?completed=&dueDate=
func (h *TodosHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "not authorized", http.StatusUnauthorized)
		return
	}

	var filter storage.TodoFilter
	switch r.URL.Query().Get("completed") {
	case "true":
		v := true
		filter.Completed = &v
	case "false":
		v := false
		filter.Completed = &v
	}
	if raw := r.URL.Query().Get("dueDate"); raw != "" {
		t, err := parseTimeParam(raw)
		if err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		filter.DueOn = &t
	}

	todos, err := h.todos.ListByOwner(ctx, userID, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list todos", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}
	if todos == nil {
		todos = []*models.Todo{}
	}

	sendList(h.logger, w, len(todos), todos)
}

// Get обрабатывает GET /api/todos/{id}
func (h *TodosHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "not authorized", http.StatusUnauthorized)
		return
	}

	todo, err := h.todos.GetOwned(ctx, userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			sendError(h.logger, w, "todo not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get todo", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendData(h.logger, w, todo, http.StatusOK)
}

// Create обрабатывает POST /api/todos
func (h *TodosHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "not authorized", http.StatusUnauthorized)
		return
	}

	var req api.CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateTodo(req.Title); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now().UTC()
	todo := &models.Todo{
		ID:          uuid.New().String(),
		OwnerID:     userID, // владелец всегда из принципала запроса
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	todo.SetCompleted(req.Completed, now)

	if err := h.todos.Insert(ctx, todo); err != nil {
		h.logger.ErrorContext(ctx, "failed to insert todo", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendData(h.logger, w, todo, http.StatusCreated)
}

// Update обрабатывает PUT /api/todos/{id}
func (h *TodosHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "not authorized", http.StatusUnauthorized)
		return
	}

	var delta api.TodoDelta
	if err := json.NewDecoder(r.Body).Decode(&delta); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	todo, err := h.todos.GetOwned(ctx, userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			sendError(h.logger, w, "todo not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get todo", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	syncer.MergeTodo(todo, &delta, time.Now().UTC())
	if err := validation.ValidateTodo(todo.Title); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.todos.Update(ctx, todo); err != nil {
		h.logger.ErrorContext(ctx, "failed to update todo", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendData(h.logger, w, todo, http.StatusOK)
}

// Toggle обрабатывает PUT /api/todos/{id}/toggle.
// Переключает флаг выполнения; completedAt ведется как побочный эффект
// мутации флага.
func (h *TodosHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "not authorized", http.StatusUnauthorized)
		return
	}

	todo, err := h.todos.GetOwned(ctx, userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			sendError(h.logger, w, "todo not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get todo", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	now := time.Now().UTC()
	todo.SetCompleted(!todo.Completed, now)
	todo.UpdatedAt = now

	if err := h.todos.Update(ctx, todo); err != nil {
		h.logger.ErrorContext(ctx, "failed to update todo", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendData(h.logger, w, todo, http.StatusOK)
}

// Due обрабатывает GET /api/todos/due?start=&end=
func (h *TodosHandler) Due(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "not authorized", http.StatusUnauthorized)
		return
	}

	startRaw := r.URL.Query().Get("start")
	endRaw := r.URL.Query().Get("end")
	if startRaw == "" || endRaw == "" {
		sendError(h.logger, w, "please provide start and end dates", http.StatusBadRequest)
		return
	}

	start, err := parseTimeParam(startRaw)
	if err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	end, err := parseTimeParam(endRaw)
	if err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	todos, err := h.todos.DueBetween(ctx, userID, startOfDay(start), endOfDay(end))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to query due todos", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}
	if todos == nil {
		todos = []*models.Todo{}
	}

	sendList(h.logger, w, len(todos), todos)
}

// Sync обрабатывает POST /api/todos/sync
func (h *TodosHandler) Sync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "not authorized", http.StatusUnauthorized)
		return
	}

	var req api.SyncTodosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Todos == nil {
		sendError(h.logger, w, "please provide todos array", http.StatusBadRequest)
		return
	}

	outcome := h.reconciler.Reconcile(ctx, userID, req.Todos, time.Now().UTC())

	sendData(h.logger, w, outcome, http.StatusOK)
}

// Updates обрабатывает GET /api/todos/updates?since=<RFC3339>
func (h *TodosHandler) Updates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "not authorized", http.StatusUnauthorized)
		return
	}

	var since *time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		t, err := parseTimeParam(raw)
		if err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		since = &t
	}

	now := time.Now().UTC()

	todos, err := h.feed.Changes(ctx, userID, since)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read change feed", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, pullResponse{
		Success:  true,
		Count:    len(todos),
		Data:     todos,
		LastSync: now,
	}, http.StatusOK)
}
