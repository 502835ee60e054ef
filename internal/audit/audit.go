// Package audit records activity-log entries after mutations succeed.
package audit

import (
	"context"
	"log/slog"

	"splitbook/internal/core"
)

// ActivityStore persists activity entries.
type ActivityStore interface {
	InsertActivity(ctx context.Context, e core.ActivityEntry) error
}

// Recorder is an explicit post-commit hook: services call Record after
// the underlying write has been applied.
type Recorder struct {
	store ActivityStore
}

func NewRecorder(store ActivityStore) *Recorder {
	return &Recorder{store: store}
}

// Record persists one audit entry. Contract: recording is best-effort
// and must never fail the mutation that triggered it, so the storage
// error is logged and discarded here.
func (r *Recorder) Record(ctx context.Context, action, description string, actor *core.Profile) {
	entry := core.ActivityEntry{
		Action:      action,
		Description: description,
		UserEmail:   actor.Email,
		GroupID:     actor.GroupID,
	}
	if err := r.store.InsertActivity(ctx, entry); err != nil {
		slog.WarnContext(ctx, "Failed to record activity",
			"action", action,
			"actor", actor.Email,
			"error", err)
	}
}
