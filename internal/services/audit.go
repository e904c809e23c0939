package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ai-mall/backend/internal/model"
	"github.com/ai-mall/backend/internal/store"
)

// Auditor appends entries to the privileged-action trail. The write is
// attempted for every admin mutation but its failure is non-fatal to the
// operation's reported result: it is logged and swallowed.
type Auditor struct {
	store store.Store
	log   zerolog.Logger
}

func NewAuditor(s store.Store, log zerolog.Logger) *Auditor {
	return &Auditor{store: s, log: log}
}

// Record appends one audit entry.
func (a *Auditor) Record(ctx context.Context, adminID, action, targetID, targetType, details, ip string) {
	_, err := a.store.AuditLogs().Append(ctx, &model.AuditLogEntry{
		AdminID:    adminID,
		Action:     action,
		TargetID:   targetID,
		TargetType: targetType,
		Details:    details,
		IPAddress:  ip,
	})
	if err != nil {
		a.log.Error().Err(err).
			Str("action", action).
			Str("target_id", targetID).
			Msg("audit log write failed")
	}
}

// Recent returns the newest entries, up to limit.
func (a *Auditor) Recent(ctx context.Context, limit int) ([]*model.AuditLogEntry, error) {
	return a.store.AuditLogs().List(ctx, limit)
}

// ForTarget returns the trail touching one entity.
func (a *Auditor) ForTarget(ctx context.Context, targetID string) ([]*model.AuditLogEntry, error) {
	return a.store.AuditLogs().ListByTarget(ctx, targetID)
}
