package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splitbook/internal/core"
)

type fakeActivityStore struct {
	entries []core.ActivityEntry
	err     error
}

func (s *fakeActivityStore) InsertActivity(_ context.Context, e core.ActivityEntry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, e)
	return nil
}

func TestRecord_PersistsEntry(t *testing.T) {
	store := &fakeActivityStore{}
	rec := NewRecorder(store)
	actor := &core.Profile{Email: "alice@example.com", GroupID: "G1"}

	rec.Record(context.Background(), "EXPENSE_ADDED", "Alice added expense 'Dinner'", actor)

	require.Len(t, store.entries, 1)
	entry := store.entries[0]
	assert.Equal(t, "EXPENSE_ADDED", entry.Action)
	assert.Equal(t, "Alice added expense 'Dinner'", entry.Description)
	assert.Equal(t, "alice@example.com", entry.UserEmail)
	assert.Equal(t, "G1", entry.GroupID)
}

func TestRecord_StorageFailureSwallowed(t *testing.T) {
	store := &fakeActivityStore{err: assert.AnError}
	rec := NewRecorder(store)
	actor := &core.Profile{Email: "alice@example.com"}

	// Must not panic or surface the error to the caller.
	rec.Record(context.Background(), "EXPENSE_ADDED", "something", actor)

	assert.Empty(t, store.entries)
}
