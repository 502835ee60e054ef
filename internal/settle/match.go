package settle

import (
	"sort"

	"github.com/shopspring/decimal"

	"splitbook/internal/core"
)

// DefaultTolerance is the band within which a balance counts as settled.
// It absorbs the rounding drift accumulated by repeated half-up share
// divisions. Changing it changes the instruction-count bound, so it is
// a named value rather than an inline literal.
var DefaultTolerance = decimal.New(10, -2) // 0.10

// Match reduces net balances to a list of payments using greedy
// largest-first matching with the default tolerance.
func Match(balances map[int64]decimal.Decimal, names map[int64]string) []core.SettlementInstruction {
	return MatchWithTolerance(balances, names, DefaultTolerance)
}

// MatchWithTolerance pairs the largest outstanding debtor against the
// largest outstanding creditor until one side is exhausted. Members
// whose balance is within the tolerance band are dropped up front.
// The result holds at most debtors+creditors-1 instructions.
func MatchWithTolerance(balances map[int64]decimal.Decimal, names map[int64]string, tolerance decimal.Decimal) []core.SettlementInstruction {
	var debtors, creditors []int64
	for id, b := range balances {
		if b.Abs().Cmp(tolerance) <= 0 {
			continue
		}
		if b.Sign() < 0 {
			debtors = append(debtors, id)
		} else {
			creditors = append(creditors, id)
		}
	}

	// Most negative first / most positive first. The id tiebreak only
	// fixes iteration order for equal balances so runs are repeatable.
	sort.Slice(debtors, func(i, j int) bool {
		if c := balances[debtors[i]].Cmp(balances[debtors[j]]); c != 0 {
			return c < 0
		}
		return debtors[i] < debtors[j]
	})
	sort.Slice(creditors, func(i, j int) bool {
		if c := balances[creditors[i]].Cmp(balances[creditors[j]]); c != 0 {
			return c > 0
		}
		return creditors[i] < creditors[j]
	})

	working := make(map[int64]decimal.Decimal, len(balances))
	for id, b := range balances {
		working[id] = b
	}

	instructions := make([]core.SettlementInstruction, 0)
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := debtors[i], creditors[j]
		amount := decimal.Min(working[debtor].Abs(), working[creditor]).Round(2)

		instructions = append(instructions, core.SettlementInstruction{
			FromID:   debtor,
			FromName: names[debtor],
			ToID:     creditor,
			ToName:   names[creditor],
			Amount:   amount,
		})

		working[debtor] = working[debtor].Add(amount)
		working[creditor] = working[creditor].Sub(amount)

		// Advance each side independently; both advance when the
		// amounts matched exactly.
		if working[debtor].Abs().Cmp(tolerance) < 0 {
			i++
		}
		if working[creditor].Abs().Cmp(tolerance) < 0 {
			j++
		}
	}
	return instructions
}
