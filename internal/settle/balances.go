// Package settle derives net balances from a group's transactions and
// reduces them to a minimal set of pairwise payments.
package settle

import (
	"github.com/shopspring/decimal"

	"splitbook/internal/core"
)

// ComputeBalances folds transactions into one net balance per roster
// member. Positive means the group owes the member, negative means the
// member owes the group.
//
// Only splittable expenses and settlements participate; personal
// not-to-split costs are skipped entirely. Every roster member starts at
// zero so inactive members come back as settled rather than missing.
// A settlement credits the payer and debits the receiver by the full
// amount. A split expense credits the payer by the full amount and
// debits every current member (payer included) by amount/len(members),
// rounded half-up to 2 decimals at the division step only.
//
// Transactions are processed in input order; that order is what makes
// rounding drift reproducible. Inputs are not mutated.
func ComputeBalances(txs []core.Transaction, members []core.Profile) (map[int64]decimal.Decimal, map[int64]string) {
	balances := make(map[int64]decimal.Decimal, len(members))
	names := make(map[int64]string, len(members))
	for _, m := range members {
		balances[m.ID] = decimal.Zero
		names[m.ID] = m.FullName
	}
	if len(members) == 0 {
		return balances, names
	}

	memberCount := decimal.NewFromInt(int64(len(members)))
	for i := range txs {
		tx := &txs[i]
		if !tx.CountsForBalance() {
			continue
		}
		if tx.IsSettlement && tx.SettledToID != nil {
			// A transfer to someone outside the roster is not part of
			// this group's ledger; skip it rather than invent an entry.
			if _, ok := balances[*tx.SettledToID]; !ok {
				continue
			}
			balances[tx.ProfileID] = balances[tx.ProfileID].Add(tx.Amount)
			balances[*tx.SettledToID] = balances[*tx.SettledToID].Sub(tx.Amount)
			continue
		}
		// Split across the current roster, not a point-in-time snapshot:
		// members who joined after the expense date still share it.
		share := tx.Amount.DivRound(memberCount, 2)
		balances[tx.ProfileID] = balances[tx.ProfileID].Add(tx.Amount)
		for _, m := range members {
			balances[m.ID] = balances[m.ID].Sub(share)
		}
	}
	return balances, names
}
