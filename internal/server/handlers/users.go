package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/syncpad/internal/server/storage"
	"github.com/iudanet/syncpad/internal/validation"
	"github.com/iudanet/syncpad/pkg/api"
)

// UsersHandler обрабатывает запросы профиля пользователя
type UsersHandler struct {
	logger *slog.Logger
	users  storage.UserStore
}

// NewUsersHandler создает новый handler для профиля
func NewUsersHandler(logger *slog.Logger, users storage.UserStore) *UsersHandler {
	return &UsersHandler{
		logger: logger,
		users:  users,
	}
}

// UpdateProfile обрабатывает PUT /api/users/profile
func (h *UsersHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "not authorized", http.StatusUnauthorized)
		return
	}

	var req api.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email != "" {
		if err := validation.ValidateEmail(req.Email); err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	user, err := h.users.UpdateProfile(ctx, userID, req.Name, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			sendError(h.logger, w, "email already exists", http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update profile", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendData(h.logger, w, user, http.StatusOK)
}

// UpdateLastSynced обрабатывает PUT /api/users/sync.
// Явное продвижение watermark пользователя к текущему моменту.
func (h *UsersHandler) UpdateLastSynced(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "not authorized", http.StatusUnauthorized)
		return
	}

	now := time.Now().UTC()
	if err := h.users.UpdateLastSynced(ctx, userID, now); err != nil {
		h.logger.ErrorContext(ctx, "failed to update last synced", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendData(h.logger, w, map[string]time.Time{"lastSynced": now}, http.StatusOK)
}
