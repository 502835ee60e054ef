package storage

import (
	"context"
	"fmt"
	"time"

	"splitbook/internal/core"
)

func (r *SQLiteRepository) InsertActivity(ctx context.Context, e core.ActivityEntry) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_log (action, description, user_email, group_id, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.Action, e.Description, e.UserEmail, e.GroupID, now.Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListActivityByGroup(ctx context.Context, groupID string, limit int) ([]core.ActivityEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, action, description, user_email, group_id, created_at
		FROM activity_log
		WHERE group_id = ?
		ORDER BY id DESC
		LIMIT ?`, groupID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	var entries []core.ActivityEntry
	for rows.Next() {
		var (
			e         core.ActivityEntry
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.Action, &e.Description, &e.UserEmail, &e.GroupID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if ts, err := time.Parse(timeFormat, createdAt); err == nil {
			e.CreatedAt = ts
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
