package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/syncpad/internal/models"
	"github.com/iudanet/syncpad/internal/server/storage"
	"github.com/iudanet/syncpad/internal/validation"
	"github.com/iudanet/syncpad/pkg/api"
)

// AuthHandler обрабатывает запросы регистрации и аутентификации
type AuthHandler struct {
	logger    *slog.Logger
	users     storage.UserStore
	jwtConfig JWTConfig
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, users storage.UserStore, jwtConfig JWTConfig) *AuthHandler {
	return &AuthHandler{
		logger:    logger,
		users:     users,
		jwtConfig: jwtConfig,
	}
}

// Register обрабатывает POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateUser(req.Name, req.Email, req.Password); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		LastSynced:   now,
		CreatedAt:    now,
	}

	if err := h.users.CreateUser(ctx, user); err != nil {
		// Конфликт уникальности выявляется до какой-либо мутации
		if errors.Is(err, storage.ErrEmailTaken) {
			sendError(h.logger, w, "email already exists", http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID))

	h.sendToken(w, user, http.StatusCreated)
}

// Login обрабатывает POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		sendError(h.logger, w, "please provide email and password", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		sendError(h.logger, w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	h.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID))

	h.sendToken(w, user, http.StatusOK)
}

// Me обрабатывает GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "not authorized", http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "user not found", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendData(h.logger, w, user, http.StatusOK)
}

// Logout обрабатывает GET /api/auth/logout.
// Токены stateless, сервер ничего не инвалидирует: клиент просто
// выбрасывает свой токен.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sendData(h.logger, w, map[string]string{"message": "logged out successfully"}, http.StatusOK)
}

// sendToken подписывает JWT и возвращает его вместе с публичной частью
// профиля
func (h *AuthHandler) sendToken(w http.ResponseWriter, user *models.User, status int) {
	token, err := GenerateAccessToken(h.jwtConfig, user.ID)
	if err != nil {
		h.logger.Error("failed to generate access token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.AuthResponse{
		Success: true,
		Token:   token,
		User: api.UserSummary{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
	}

	sendJSON(h.logger, w, resp, status)
}
