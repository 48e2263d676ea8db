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

// NotesHandler обрабатывает CRUD и синхронизацию заметок
type NotesHandler struct {
	logger     *slog.Logger
	notes      storage.NoteStore
	reconciler *syncer.Reconciler[*api.NoteDelta, *models.Note]
	feed       *syncer.Feed[*models.Note]
}

// NewNotesHandler создает новый handler для заметок
func NewNotesHandler(logger *slog.Logger, notes storage.NoteStore, users storage.UserStore) *NotesHandler {
	return &NotesHandler{
		logger:     logger,
		notes:      notes,
		reconciler: syncer.NewNoteReconciler(logger, notes, users),
		feed:       syncer.NewNoteFeed(logger, notes, users),
	}
}

// List обрабатывает GET /api/notes
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "not authorized", http.StatusUnauthorized)
		return
	}

	notes, err := h.notes.ListByOwner(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list notes", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}
	if notes == nil {
		notes = []*models.Note{}
	}

	sendList(h.logger, w, len(notes), notes)
}

// Get обрабатывает GET /api/notes/{id}
func (h *NotesHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "not authorized", http.StatusUnauthorized)
		return
	}

	note, err := h.notes.GetOwned(ctx, userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			sendError(h.logger, w, "note not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get note", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendData(h.logger, w, note, http.StatusOK)
}

// Create обрабатывает POST /api/notes
func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "not authorized", http.StatusUnauthorized)
		return
	}

	var req api.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateNote(req.Title, req.Content); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now().UTC()
	note := &models.Note{
		ID:        uuid.New().String(),
		OwnerID:   userID, // владелец всегда из принципала запроса
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.notes.Insert(ctx, note); err != nil {
		h.logger.ErrorContext(ctx, "failed to insert note", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendData(h.logger, w, note, http.StatusCreated)
}

// Update обрабатывает PUT /api/notes/{id}
func (h *NotesHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "not authorized", http.StatusUnauthorized)
		return
	}

	var delta api.NoteDelta
	if err := json.NewDecoder(r.Body).Decode(&delta); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	note, err := h.notes.GetOwned(ctx, userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			sendError(h.logger, w, "note not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get note", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	syncer.MergeNote(note, &delta, time.Now().UTC())
	if err := validation.ValidateNote(note.Title, note.Content); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.notes.Update(ctx, note); err != nil {
		h.logger.ErrorContext(ctx, "failed to update note", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendData(h.logger, w, note, http.StatusOK)
}

// Delete обрабатывает DELETE /api/notes/{id} (soft delete)
func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "not authorized", http.StatusUnauthorized)
		return
	}

	// tombstoned записи для primary-операций не существуют
	if _, err := h.notes.GetOwned(ctx, userID, r.PathValue("id")); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			sendError(h.logger, w, "note not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get note", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.notes.SoftDelete(ctx, userID, r.PathValue("id"), time.Now().UTC()); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete note", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendData(h.logger, w, struct{}{}, http.StatusOK)
}

// Sync обрабатывает POST /api/notes/sync
func (h *NotesHandler) Sync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "not authorized", http.StatusUnauthorized)
		return
	}

	var req api.SyncNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Notes == nil {
		sendError(h.logger, w, "please provide notes array", http.StatusBadRequest)
		return
	}

	outcome := h.reconciler.Reconcile(ctx, userID, req.Notes, time.Now().UTC())

	sendData(h.logger, w, outcome, http.StatusOK)
}

// Updates обрабатывает GET /api/notes/updates?since=<RFC3339>
func (h *NotesHandler) Updates(w http.ResponseWriter, r *http.Request) {
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

	// lastSync фиксируется до чтения, чтобы клиент не потерял записи,
	// измененные во время обработки запроса
	now := time.Now().UTC()

	notes, err := h.feed.Changes(ctx, userID, since)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read change feed", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, pullResponse{
		Success:  true,
		Count:    len(notes),
		Data:     notes,
		LastSync: now,
	}, http.StatusOK)
}
