// Package dashboard computes the per-user financial summary and keeps a
// memoized copy of it coherent with the ledger through explicit
// invalidation.
package dashboard

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"splitbook/internal/core"
)

const recentPerKind = 5

// Snapshot is the derived read model behind the dashboard: overall
// totals plus the most recent activity of the caller's effective member
// set. Settlement transfers are excluded throughout; they move debt, not
// income or spend.
type Snapshot struct {
	TotalBalance       decimal.Decimal
	TotalIncome        decimal.Decimal
	TotalExpense       decimal.Decimal
	Recent5Incomes     []core.Transaction
	Recent5Expenses    []core.Transaction
	RecentTransactions []core.Transaction
}

// MemberResolver supplies the ids of the caller's effective member set.
type MemberResolver interface {
	EffectiveMemberIDs(ctx context.Context, callerID int64) ([]int64, error)
}

// TransactionSource is the read surface the builder needs. Both methods
// exclude settlement rows.
type TransactionSource interface {
	ListRecentByProfiles(ctx context.Context, profileIDs []int64, kind core.TransactionKind, limit int) ([]core.Transaction, error)
	SumByProfiles(ctx context.Context, profileIDs []int64, kind core.TransactionKind) (decimal.Decimal, error)
}

// Builder assembles a Snapshot on demand. It never mutates the store.
type Builder struct {
	members MemberResolver
	store   TransactionSource
}

func NewBuilder(members MemberResolver, store TransactionSource) *Builder {
	return &Builder{members: members, store: store}
}

// Build computes a fresh snapshot for the user. Missing data degrades to
// zero totals and empty lists rather than an error.
func (b *Builder) Build(ctx context.Context, userID int64) (*Snapshot, error) {
	ids, err := b.members.EffectiveMemberIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve members: %w", err)
	}

	totalIncome, err := b.store.SumByProfiles(ctx, ids, core.KindIncome)
	if err != nil {
		return nil, fmt.Errorf("total income: %w", err)
	}
	totalExpense, err := b.store.SumByProfiles(ctx, ids, core.KindExpense)
	if err != nil {
		return nil, fmt.Errorf("total expense: %w", err)
	}

	incomes, err := b.store.ListRecentByProfiles(ctx, ids, core.KindIncome, recentPerKind)
	if err != nil {
		return nil, fmt.Errorf("recent incomes: %w", err)
	}
	expenses, err := b.store.ListRecentByProfiles(ctx, ids, core.KindExpense, recentPerKind)
	if err != nil {
		return nil, fmt.Errorf("recent expenses: %w", err)
	}

	return &Snapshot{
		TotalBalance:       totalIncome.Sub(totalExpense),
		TotalIncome:        totalIncome,
		TotalExpense:       totalExpense,
		Recent5Incomes:     incomes,
		Recent5Expenses:    expenses,
		RecentTransactions: mergeRecent(incomes, expenses),
	}, nil
}

// mergeRecent combines the two latest-5 lists into one activity feed
// sorted by transaction date descending, ties broken by creation
// timestamp descending. A missing creation timestamp never participates
// in the tiebreak; the date-only ordering stands.
func mergeRecent(incomes, expenses []core.Transaction) []core.Transaction {
	merged := make([]core.Transaction, 0, len(incomes)+len(expenses))
	merged = append(merged, incomes...)
	merged = append(merged, expenses...)

	sort.SliceStable(merged, func(i, j int) bool {
		if !merged[i].Date.Equal(merged[j].Date) {
			return merged[i].Date.After(merged[j].Date)
		}
		if merged[i].CreatedAt != nil && merged[j].CreatedAt != nil {
			return merged[i].CreatedAt.After(*merged[j].CreatedAt)
		}
		return false
	})
	return merged
}
