// Package sync implements the server side of offline-first
// synchronization: the reconciler that merges a batch of client deltas
// into authoritative state, and the change feed that answers
// "what changed since T" queries for incremental pulls.
package sync

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/iudanet/syncpad/internal/server/storage"
)

// Delta представляет одно клиентское изменение внутри sync-батча
type Delta interface {
	// TargetID возвращает серверный ID записи; пустая строка означает,
	// что запись серверу еще не известна
	TargetID() string
	// CorrelationID возвращает клиентский localId для новых записей
	CorrelationID() string
	// Tombstone сообщает, что delta запрашивает soft delete
	Tombstone() bool
}

// RecordStore адаптирует один тип ресурса (заметки, задачи) к
// реконсайлеру. Реализации валидируют payload: ошибка валидации из
// Create или Apply становится item-local ошибкой батча.
type RecordStore[D Delta, R any] interface {
	// Lookup retrieves an owned record including tombstoned ones.
	// Returns storage.ErrNotFound for missing or foreign records.
	Lookup(ctx context.Context, ownerID, id string) (R, error)

	// Create validates the delta payload and stores a brand new record
	// with a fresh server ID, echoing the client's localId.
	Create(ctx context.Context, ownerID string, d D, now time.Time) (R, error)

	// Apply merges the delta's whitelisted fields into an existing
	// record, validates the result and stores it.
	Apply(ctx context.Context, ownerID string, existing R, d D, now time.Time) (R, error)

	// Tombstone marks an owned record as deleted.
	Tombstone(ctx context.Context, ownerID, id string, now time.Time) error
}

// Cursor хранит per-user watermark последней синхронизации
type Cursor interface {
	UpdateLastSynced(ctx context.Context, userID string, t time.Time) error
}

// ItemError описывает отклоненный элемент батча вместе с исходной delta,
// чтобы клиент мог повторить именно его
type ItemError[D Delta] struct {
	Input  D      `json:"input"`
	Reason string `json:"reason"`
}

// Outcome агрегирует результат реконсиляции батча. Каждая входная delta
// попадает ровно в одну из четырех секций.
type Outcome[D Delta, R any] struct {
	Created []R            `json:"created"`
	Updated []R            `json:"updated"`
	Deleted []string       `json:"deleted"`
	Errors  []ItemError[D] `json:"errors"`
}

// Len возвращает суммарное число диспозиций
func (o *Outcome[D, R]) Len() int {
	return len(o.Created) + len(o.Updated) + len(o.Deleted) + len(o.Errors)
}

const (
	reasonNotFound  = "not found or not owned"
	reasonMissingID = "missing id or localId"
)

// Reconciler применяет батчи клиентских deltas к хранилищу
type Reconciler[D Delta, R any] struct {
	logger *slog.Logger
	store  RecordStore[D, R]
	cursor Cursor
}

// NewReconciler creates a reconciler for one resource type
func NewReconciler[D Delta, R any](logger *slog.Logger, store RecordStore[D, R], cursor Cursor) *Reconciler[D, R] {
	return &Reconciler[D, R]{
		logger: logger,
		store:  store,
		cursor: cursor,
	}
}

// Reconcile применяет deltas к хранилищу в порядке, присланном клиентом.
// Ошибки локальны для элемента: отказ по элементу k не мешает обработке
// k+1, батч не атомарен. Если батч содержит несколько deltas на один ID,
// побеждает последняя, так как каждая применяется последовательно.
//
// Watermark пользователя продвигается к now после обработки всего батча
// независимо от частичных отказов: клиент повторяет отклоненные элементы
// явно, следующим батчем.
func (r *Reconciler[D, R]) Reconcile(ctx context.Context, ownerID string, deltas []D, now time.Time) *Outcome[D, R] {
	out := &Outcome[D, R]{
		Created: []R{},
		Updated: []R{},
		Deleted: []string{},
		Errors:  []ItemError[D]{},
	}

	for _, d := range deltas {
		switch {
		case d.TargetID() != "":
			r.applyExisting(ctx, ownerID, d, now, out)
		case d.CorrelationID() != "":
			rec, err := r.store.Create(ctx, ownerID, d, now)
			if err != nil {
				out.Errors = append(out.Errors, ItemError[D]{Input: d, Reason: err.Error()})
				continue
			}
			out.Created = append(out.Created, rec)
		default:
			out.Errors = append(out.Errors, ItemError[D]{Input: d, Reason: reasonMissingID})
		}
	}

	// Продвигаем watermark безусловно, по границе батча. Отказ здесь не
	// критичен: клиент получит те же записи повторно при следующем pull.
	if err := r.cursor.UpdateLastSynced(ctx, ownerID, now); err != nil {
		r.logger.WarnContext(ctx, "failed to advance sync cursor",
			slog.String("user_id", ownerID), slog.Any("error", err))
	}

	r.logger.InfoContext(ctx, "batch reconciled",
		slog.String("user_id", ownerID),
		slog.Int("created", len(out.Created)),
		slog.Int("updated", len(out.Updated)),
		slog.Int("deleted", len(out.Deleted)),
		slog.Int("errors", len(out.Errors)))

	return out
}

// applyExisting обрабатывает delta с серверным ID: tombstone или update
func (r *Reconciler[D, R]) applyExisting(ctx context.Context, ownerID string, d D, now time.Time, out *Outcome[D, R]) {
	existing, err := r.store.Lookup(ctx, ownerID, d.TargetID())
	if err != nil {
		reason := err.Error()
		if errors.Is(err, storage.ErrNotFound) {
			reason = reasonNotFound
		}
		out.Errors = append(out.Errors, ItemError[D]{Input: d, Reason: reason})
		return
	}

	if d.Tombstone() {
		if err := r.store.Tombstone(ctx, ownerID, d.TargetID(), now); err != nil {
			out.Errors = append(out.Errors, ItemError[D]{Input: d, Reason: err.Error()})
			return
		}
		out.Deleted = append(out.Deleted, d.TargetID())
		return
	}

	rec, err := r.store.Apply(ctx, ownerID, existing, d, now)
	if err != nil {
		out.Errors = append(out.Errors, ItemError[D]{Input: d, Reason: err.Error()})
		return
	}
	out.Updated = append(out.Updated, rec)
}
