package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/syncpad/internal/models"
)

// FeedSource отдает записи пользователя, измененные строго после since.
// Tombstones включаются: лента изменений — единственный способ для
// офлайн-клиента узнать об удалении.
type FeedSource[R any] interface {
	UpdatedSince(ctx context.Context, ownerID string, since time.Time) ([]R, error)
}

// UserLookup отдает пользователя для чтения его sync watermark
type UserLookup interface {
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

// Feed отвечает на инкрементальные pull-запросы одного типа ресурса
type Feed[R any] struct {
	logger *slog.Logger
	source FeedSource[R]
	users  UserLookup
}

// NewFeed creates a change feed over a record source
func NewFeed[R any](logger *slog.Logger, source FeedSource[R], users UserLookup) *Feed[R] {
	return &Feed[R]{logger: logger, source: source, users: users}
}

// Changes возвращает записи пользователя с updatedAt > since.
// Если since == nil, нижней границей служит сохраненный watermark
// пользователя. Чтение никогда не продвигает watermark: pull — это
// read-only операция, курсор двигает только реконсиляция.
//
// Пустой результат — это пустой срез, не ошибка.
func (f *Feed[R]) Changes(ctx context.Context, ownerID string, since *time.Time) ([]R, error) {
	lower := time.Time{}
	if since != nil {
		lower = *since
	} else {
		user, err := f.users.GetUserByID(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve sync cursor: %w", err)
		}
		lower = user.LastSynced
	}

	items, err := f.source.UpdatedSince(ctx, ownerID, lower)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []R{}
	}

	f.logger.DebugContext(ctx, "change feed read",
		slog.String("user_id", ownerID),
		slog.Time("since", lower),
		slog.Int("count", len(items)))

	return items, nil
}
