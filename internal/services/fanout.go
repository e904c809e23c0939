package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ai-mall/backend/internal/model"
	"github.com/ai-mall/backend/internal/store"
)

// DefaultBroadcastChunkSize bounds a single bulk notification insert.
const DefaultBroadcastChunkSize = 100

// Fanout creates notification records in response to workflow events.
// Delivery is best-effort: callers log failures and move on, they never
// fail a request because a notification insert failed.
type Fanout struct {
	store     store.Store
	chunkSize int
	log       zerolog.Logger
}

func NewFanout(s store.Store, chunkSize int, log zerolog.Logger) *Fanout {
	if chunkSize <= 0 {
		chunkSize = DefaultBroadcastChunkSize
	}
	return &Fanout{store: s, chunkSize: chunkSize, log: log}
}

// Notify creates a single-recipient notification.
func (f *Fanout) Notify(ctx context.Context, n *model.Notification) error {
	if _, err := f.store.Notifications().Create(ctx, n); err != nil {
		return fmt.Errorf("notify user %s: %w", n.UserID, err)
	}
	return nil
}

// NotifyMany fans a notification template out to the given recipients,
// inserting in fixed-size chunks to bound single-operation cost.
func (f *Fanout) NotifyMany(ctx context.Context, userIDs []string, message, typ, role, targetID string) error {
	ns := make([]*model.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		ns = append(ns, &model.Notification{
			UserID:   id,
			Message:  message,
			Type:     typ,
			Role:     role,
			TargetID: targetID,
		})
	}
	for start := 0; start < len(ns); start += f.chunkSize {
		end := start + f.chunkSize
		if end > len(ns) {
			end = len(ns)
		}
		if err := f.store.Notifications().CreateBatch(ctx, ns[start:end]); err != nil {
			return fmt.Errorf("notification batch [%d:%d]: %w", start, end, err)
		}
	}
	return nil
}

// Broadcast fans a notification out to every user in the system.
func (f *Fanout) Broadcast(ctx context.Context, message, typ, role, targetID string) error {
	ids, err := f.store.Users().ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("list broadcast recipients: %w", err)
	}
	if err := f.NotifyMany(ctx, ids, message, typ, role, targetID); err != nil {
		return err
	}
	f.log.Debug().Int("recipients", len(ids)).Str("role", role).Msg("broadcast fan-out complete")
	return nil
}
