package sync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/syncpad/internal/models"
	"github.com/iudanet/syncpad/internal/server/storage"
	"github.com/iudanet/syncpad/pkg/api"
)

// mockUserLookup serves a single user's sync watermark
type mockUserLookup struct {
	user     *models.User
	getError error
}

func (m *mockUserLookup) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	if m.user == nil || m.user.ID != userID {
		return nil, storage.ErrUserNotFound
	}
	return m.user, nil
}

func TestFeed_ExplicitSince(t *testing.T) {
	ctx := context.Background()
	store := newMockNoteStore()
	feed := NewNoteFeed(setupTestLogger(), store, &mockUserLookup{})

	base := time.Now().UTC().Add(-time.Hour)
	old := &models.Note{ID: "old", OwnerID: "user1", Title: "old", Content: "c", UpdatedAt: base}
	fresh := &models.Note{ID: "fresh", OwnerID: "user1", Title: "fresh", Content: "c", UpdatedAt: base.Add(30 * time.Minute)}
	require.NoError(t, store.Insert(ctx, old))
	require.NoError(t, store.Insert(ctx, fresh))

	since := base.Add(time.Minute)
	items, err := feed.Changes(ctx, "user1", &since)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "fresh", items[0].ID)
}

func TestFeed_SinceIsStrict(t *testing.T) {
	ctx := context.Background()
	store := newMockNoteStore()
	feed := NewNoteFeed(setupTestLogger(), store, &mockUserLookup{})

	ts := time.Now().UTC()
	require.NoError(t, store.Insert(ctx, &models.Note{
		ID: "exact", OwnerID: "user1", Title: "t", Content: "c", UpdatedAt: ts,
	}))

	// запись с updatedAt == since не входит в ленту
	items, err := feed.Changes(ctx, "user1", &ts)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFeed_DefaultsToUserWatermark(t *testing.T) {
	ctx := context.Background()
	store := newMockNoteStore()

	watermark := time.Now().UTC().Add(-10 * time.Minute)
	users := &mockUserLookup{user: &models.User{ID: "user1", LastSynced: watermark}}
	feed := NewNoteFeed(setupTestLogger(), store, users)

	require.NoError(t, store.Insert(ctx, &models.Note{
		ID: "before", OwnerID: "user1", Title: "t", Content: "c",
		UpdatedAt: watermark.Add(-time.Minute),
	}))
	require.NoError(t, store.Insert(ctx, &models.Note{
		ID: "after", OwnerID: "user1", Title: "t", Content: "c",
		UpdatedAt: watermark.Add(time.Minute),
	}))

	items, err := feed.Changes(ctx, "user1", nil)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "after", items[0].ID)
}

func TestFeed_IncludesTombstones(t *testing.T) {
	ctx := context.Background()
	store := newMockNoteStore()
	feed := NewNoteFeed(setupTestLogger(), store, &mockUserLookup{})

	base := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, store.Insert(ctx, &models.Note{
		ID: "gone", OwnerID: "user1", Title: "t", Content: "c", UpdatedAt: base,
	}))
	require.NoError(t, store.SoftDelete(ctx, "user1", "gone", base.Add(time.Minute)))

	items, err := feed.Changes(ctx, "user1", &base)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.True(t, items[0].IsDeleted)
}

func TestFeed_EmptyResultIsEmptySlice(t *testing.T) {
	ctx := context.Background()
	store := newMockNoteStore()
	feed := NewNoteFeed(setupTestLogger(), store, &mockUserLookup{})

	since := time.Now().UTC()
	items, err := feed.Changes(ctx, "user1", &since)
	require.NoError(t, err)

	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestFeed_AfterReconciledBatch(t *testing.T) {
	ctx := context.Background()
	store := newMockNoteStore()
	cursor := &mockCursor{}
	r := NewNoteReconciler(setupTestLogger(), store, cursor)
	feed := NewNoteFeed(setupTestLogger(), store, &mockUserLookup{})

	t0 := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, store.Insert(ctx, &models.Note{
		ID: "existing-1", OwnerID: "U", Title: "keep", Content: "c",
		CreatedAt: t0, UpdatedAt: t0,
	}))

	now := time.Now().UTC()
	out := r.Reconcile(ctx, "U", []*api.NoteDelta{
		{LocalID: "L1", Title: strPtr("A"), Content: strPtr("x")},
		{ID: "existing-1", IsDeleted: boolPtr(true)},
		{ID: "missing-9", Title: strPtr("y")},
	}, now)

	require.Len(t, out.Created, 1)
	assert.Equal(t, "L1", out.Created[0].LocalID)
	assert.Equal(t, []string{"existing-1"}, out.Deleted)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "not found or not owned", out.Errors[0].Reason)
	assert.Len(t, cursor.calls, 1)

	// pull с нижней границей до батча видит новую запись и tombstone
	items, err := feed.Changes(ctx, "U", &t0)
	require.NoError(t, err)
	require.Len(t, items, 2)

	seen := map[string]bool{}
	for _, n := range items {
		seen[n.ID] = n.IsDeleted
	}
	assert.Contains(t, seen, out.Created[0].ID)
	deleted, ok := seen["existing-1"]
	require.True(t, ok)
	assert.True(t, deleted)
	assert.NotContains(t, seen, "missing-9")
}

func TestFeed_UnknownUserWithoutSince(t *testing.T) {
	ctx := context.Background()
	store := newMockNoteStore()
	feed := NewNoteFeed(setupTestLogger(), store, &mockUserLookup{})

	_, err := feed.Changes(ctx, "ghost", nil)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}
