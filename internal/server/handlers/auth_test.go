package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/syncpad/internal/models"
	"github.com/iudanet/syncpad/internal/server/storage"
	"github.com/iudanet/syncpad/pkg/api"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors in tests
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

func testJWTConfig() JWTConfig {
	return JWTConfig{
		Secret:   []byte("test-secret"),
		TokenTTL: time.Hour,
	}
}

// mockUserStore is a mock implementation of storage.UserStore for testing
type mockUserStore struct {
	users           map[string]*models.User // email -> User
	createError     error
	getUserError    error
	lastSyncedCalls []time.Time
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[string]*models.User)}
}

func (m *mockUserStore) CreateUser(ctx context.Context, user *models.User) error {
	if m.createError != nil {
		return m.createError
	}
	if _, exists := m.users[user.Email]; exists {
		return storage.ErrEmailTaken
	}
	clone := *user
	m.users[user.Email] = &clone
	return nil
}

func (m *mockUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getUserError != nil {
		return nil, m.getUserError
	}
	user, ok := m.users[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *mockUserStore) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	if m.getUserError != nil {
		return nil, m.getUserError
	}
	for _, user := range m.users {
		if user.ID == userID {
			clone := *user
			return &clone, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStore) UpdateProfile(ctx context.Context, userID, name, email string) (*models.User, error) {
	for oldEmail, user := range m.users {
		if user.ID != userID {
			continue
		}
		if email != "" && email != oldEmail {
			if _, taken := m.users[email]; taken {
				return nil, storage.ErrEmailTaken
			}
			delete(m.users, oldEmail)
			user.Email = email
			m.users[email] = user
		}
		if name != "" {
			user.Name = name
		}
		clone := *user
		return &clone, nil
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStore) UpdateLastSynced(ctx context.Context, userID string, t time.Time) error {
	for _, user := range m.users {
		if user.ID == userID {
			if t.After(user.LastSynced) {
				user.LastSynced = t
			}
			m.lastSyncedCalls = append(m.lastSyncedCalls, t)
			return nil
		}
	}
	return storage.ErrUserNotFound
}

func (m *mockUserStore) addUser(t *testing.T, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		ID:           uuid.New().String(),
		Name:         "Existing User",
		Email:        email,
		PasswordHash: string(hash),
		LastSynced:   time.Now().UTC(),
		CreatedAt:    time.Now().UTC(),
	}
	m.users[email] = user
	return user
}

// ctxWithUser простановка принципала так, как это делает AuthMiddleware
func ctxWithUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), UserIDKey, userID))
}

func TestAuthHandler_Register_Success(t *testing.T) {
	users := newMockUserStore()
	handler := NewAuthHandler(setupTestLogger(), users, testJWTConfig())

	reqBody := api.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret123",
	}
	body, err := json.Marshal(reqBody)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.Register(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp api.AuthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.User.ID)
	assert.Equal(t, "Alice", resp.User.Name)
	assert.Equal(t, "alice@example.com", resp.User.Email)

	// токен подписан для созданного пользователя
	claims, err := ValidateAccessToken(testJWTConfig(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	// пароль хранится только в виде bcrypt-хеша
	stored, err := users.GetUserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))
}

func TestAuthHandler_Register_InvalidJSON(t *testing.T) {
	handler := NewAuthHandler(setupTestLogger(), newMockUserStore(), testJWTConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()
	handler.Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	handler := NewAuthHandler(setupTestLogger(), newMockUserStore(), testJWTConfig())

	tests := []struct {
		name string
		req  api.RegisterRequest
	}{
		{"empty name", api.RegisterRequest{Email: "a@example.com", Password: "secret123"}},
		{"bad email", api.RegisterRequest{Name: "A", Email: "not-an-email", Password: "secret123"}},
		{"short password", api.RegisterRequest{Name: "A", Email: "a@example.com", Password: "12345"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(tt.req)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
			w := httptest.NewRecorder()
			handler.Register(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp map[string]any
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, false, resp["success"])
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	users := newMockUserStore()
	users.addUser(t, "taken@example.com", "password1")
	handler := NewAuthHandler(setupTestLogger(), users, testJWTConfig())

	body, err := json.Marshal(api.RegisterRequest{
		Name:     "Dup",
		Email:    "taken@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "email already exists", resp["error"])
}

func TestAuthHandler_Login_Success(t *testing.T) {
	users := newMockUserStore()
	user := users.addUser(t, "bob@example.com", "hunter22")
	handler := NewAuthHandler(setupTestLogger(), users, testJWTConfig())

	body, err := json.Marshal(api.LoginRequest{Email: "bob@example.com", Password: "hunter22"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.Login(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp api.AuthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Token)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	users := newMockUserStore()
	users.addUser(t, "bob@example.com", "hunter22")
	handler := NewAuthHandler(setupTestLogger(), users, testJWTConfig())

	tests := []struct {
		name string
		req  api.LoginRequest
	}{
		{"wrong password", api.LoginRequest{Email: "bob@example.com", Password: "wrong"}},
		{"unknown email", api.LoginRequest{Email: "ghost@example.com", Password: "hunter22"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(tt.req)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
			w := httptest.NewRecorder()
			handler.Login(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)

			var resp map[string]any
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			// несуществующий email неотличим от неверного пароля
			assert.Equal(t, "invalid credentials", resp["error"])
		})
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	handler := NewAuthHandler(setupTestLogger(), newMockUserStore(), testJWTConfig())

	body, err := json.Marshal(api.LoginRequest{Email: "bob@example.com"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.Login(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	users := newMockUserStore()
	user := users.addUser(t, "me@example.com", "secret123")
	handler := NewAuthHandler(setupTestLogger(), users, testJWTConfig())

	req := ctxWithUser(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), user.ID)
	w := httptest.NewRecorder()
	handler.Me(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(resp.Data, &fields))
	assert.Equal(t, user.ID, fields["id"])
	assert.Equal(t, "me@example.com", fields["email"])
	// хеш пароля не попадает в ответ
	assert.NotContains(t, fields, "passwordHash")
}

func TestAuthHandler_Me_NoPrincipal(t *testing.T) {
	handler := NewAuthHandler(setupTestLogger(), newMockUserStore(), testJWTConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()
	handler.Me(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	handler := NewAuthHandler(setupTestLogger(), newMockUserStore(), testJWTConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/logout", nil)
	w := httptest.NewRecorder()
	handler.Logout(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
