package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splitbook/internal/cache"
	"splitbook/internal/core"
)

func newTestService(source *fakeSource, ids ...int64) *Service {
	builder := NewBuilder(&fakeMembers{ids: ids}, source)
	return NewService(builder, cache.NewLRU[*Snapshot](100, time.Minute))
}

func TestService_CachesSnapshot(t *testing.T) {
	source := &fakeSource{sums: map[core.TransactionKind]decimal.Decimal{
		core.KindIncome: dec("100.00"),
	}}
	svc := newTestService(source, 1)

	first, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	second, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)

	assert.Same(t, first, second)
	// One build means two sum queries (income + expense), not four.
	assert.Equal(t, 2, source.sumCalls)
}

func TestService_EvictForcesRebuild(t *testing.T) {
	source := &fakeSource{sums: map[core.TransactionKind]decimal.Decimal{
		core.KindIncome: dec("100.00"),
	}}
	svc := newTestService(source, 1)

	_, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)

	// A mutation lands: the next read must see it.
	source.sums[core.KindIncome] = dec("250.00")
	svc.Evict([]int64{1})

	snap, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, snap.TotalIncome.Equal(dec("250.00")), "income = %s", snap.TotalIncome)
	assert.Equal(t, 4, source.sumCalls)
}

func TestService_EvictFansOutToAllMembers(t *testing.T) {
	source := &fakeSource{sums: map[core.TransactionKind]decimal.Decimal{}}
	svc := newTestService(source, 1, 2, 3)

	for _, id := range []int64{1, 2, 3} {
		_, err := svc.Get(context.Background(), id)
		require.NoError(t, err)
	}
	require.Equal(t, 6, source.sumCalls)

	svc.Evict([]int64{1, 2, 3})

	for _, id := range []int64{1, 2, 3} {
		_, err := svc.Get(context.Background(), id)
		require.NoError(t, err)
	}
	assert.Equal(t, 12, source.sumCalls, "every member's snapshot must rebuild after eviction")
}

func TestService_PerUserKeys(t *testing.T) {
	source := &fakeSource{sums: map[core.TransactionKind]decimal.Decimal{}}
	svc := newTestService(source, 1, 2)

	_, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	_, err = svc.Get(context.Background(), 2)
	require.NoError(t, err)

	// Evicting one user leaves the other's snapshot cached.
	svc.Evict([]int64{1})

	_, err = svc.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 4, source.sumCalls)
}

func TestService_BuildErrorNotCached(t *testing.T) {
	source := &fakeSource{listErr: assert.AnError, sums: map[core.TransactionKind]decimal.Decimal{}}
	svc := newTestService(source, 1)

	_, err := svc.Get(context.Background(), 1)
	require.Error(t, err)

	source.listErr = nil
	_, err = svc.Get(context.Background(), 1)
	assert.NoError(t, err)
}
