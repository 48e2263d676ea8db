package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/syncpad/internal/models"
)

func setupTestStorage(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	// Используем in-memory database для тестов
	storage, err := New(ctx, ":memory:")
	require.NoError(t, err)

	cleanup := func() {
		_ = storage.Close()
	}

	return storage, cleanup
}

func createTestUser(t *testing.T, ctx context.Context, s *Storage) string {
	userID := uuid.New().String()
	now := time.Now().UTC()
	user := &models.User{
		ID:           userID,
		Name:         "Test User",
		Email:        userID[:8] + "@example.com",
		PasswordHash: "$2a$10$hash",
		LastSynced:   now,
		CreatedAt:    now,
	}

	err := s.Users().CreateUser(ctx, user)
	require.NoError(t, err)

	return userID
}

func timePtr(t time.Time) *time.Time {
	return &t
}

// msEqual сравнивает моменты с точностью хранения (миллисекунды)
func msEqual(t *testing.T, expected, actual time.Time) {
	t.Helper()
	require.Equal(t, expected.UnixMilli(), actual.UnixMilli())
}
