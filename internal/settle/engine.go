package settle

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"splitbook/internal/core"
)

// RosterResolver supplies the caller's effective member set: a self-only
// list for groupless members, the whole group otherwise.
type RosterResolver interface {
	Roster(ctx context.Context, callerID int64) ([]core.Profile, error)
}

// ExpenseSource supplies every expense-kind transaction for the given
// profiles, including non-splittable ones and settlements. Filtering is
// the accumulator's job.
type ExpenseSource interface {
	ListExpensesByProfiles(ctx context.Context, profileIDs []int64) ([]core.Transaction, error)
}

// Engine composes the balance accumulator and the matcher into the
// public "simplify group debts" operation. Results are always computed
// fresh so recorded settlements take effect immediately; nothing here
// touches the snapshot cache.
type Engine struct {
	roster    RosterResolver
	store     ExpenseSource
	tolerance decimal.Decimal
}

// NewEngine creates an Engine with the default settled tolerance.
func NewEngine(roster RosterResolver, store ExpenseSource) *Engine {
	return &Engine{roster: roster, store: store, tolerance: DefaultTolerance}
}

// WithTolerance overrides the settled tolerance band.
func (e *Engine) WithTolerance(t decimal.Decimal) *Engine {
	e.tolerance = t
	return e
}

// SimplifyGroupDebts returns the minimal payment plan for the caller's
// group. A solitary member, an empty group or a group with no valid
// transactions yields an empty plan, not an error.
func (e *Engine) SimplifyGroupDebts(ctx context.Context, callerID int64) ([]core.SettlementInstruction, error) {
	members, err := e.roster.Roster(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("resolve roster: %w", err)
	}
	if len(members) <= 1 {
		return []core.SettlementInstruction{}, nil
	}

	ids := make([]int64, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	txs, err := e.store.ListExpensesByProfiles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load group transactions: %w", err)
	}

	hasValid := false
	for i := range txs {
		if txs[i].CountsForBalance() {
			hasValid = true
			break
		}
	}
	if !hasValid {
		return []core.SettlementInstruction{}, nil
	}

	balances, names := ComputeBalances(txs, members)
	return MatchWithTolerance(balances, names, e.tolerance), nil
}
