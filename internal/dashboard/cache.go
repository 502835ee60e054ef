package dashboard

import (
	"context"
	"log/slog"
	"strconv"

	"splitbook/internal/cache"
)

// Service memoizes the Builder's result per user. Mutating operations
// call Evict with the full effective member set after their write is
// durably applied, so every member's next read recomputes.
type Service struct {
	builder   *Builder
	snapshots cache.Cache[*Snapshot]
}

func NewService(builder *Builder, snapshots cache.Cache[*Snapshot]) *Service {
	return &Service{builder: builder, snapshots: snapshots}
}

// Get returns the cached snapshot for the user, building and storing a
// fresh one on miss.
func (s *Service) Get(ctx context.Context, userID int64) (*Snapshot, error) {
	key := snapshotKey(userID)
	if snap, ok := s.snapshots.Get(key); ok {
		slog.DebugContext(ctx, "dashboard cache hit", "profile_id", userID)
		return snap, nil
	}

	snap, err := s.builder.Build(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.snapshots.Set(key, snap)
	slog.DebugContext(ctx, "dashboard snapshot rebuilt", "profile_id", userID)
	return snap, nil
}

// Evict removes the cached snapshot of every given member. Concurrent
// evictions for overlapping id sets are safe to interleave.
func (s *Service) Evict(memberIDs []int64) {
	for _, id := range memberIDs {
		s.snapshots.Delete(snapshotKey(id))
	}
}

func snapshotKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
