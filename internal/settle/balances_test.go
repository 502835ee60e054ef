package settle

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splitbook/internal/core"
)

func member(id int64, name string) core.Profile {
	return core.Profile{ID: id, FullName: name}
}

func splitExpense(payer int64, amount string) core.Transaction {
	return core.Transaction{
		Kind:       core.KindExpense,
		Amount:     dec(amount),
		Date:       time.Now(),
		Splittable: true,
		ProfileID:  payer,
	}
}

func personalExpense(payer int64, amount string) core.Transaction {
	return core.Transaction{
		Kind:      core.KindExpense,
		Amount:    dec(amount),
		Date:      time.Now(),
		ProfileID: payer,
	}
}

func settlement(payer, receiver int64, amount string) core.Transaction {
	return core.Transaction{
		Kind:         core.KindExpense,
		Amount:       dec(amount),
		Date:         time.Now(),
		IsSettlement: true,
		SettledToID:  &receiver,
		ProfileID:    payer,
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeBalances_SplitExpense(t *testing.T) {
	members := []core.Profile{member(1, "Alice"), member(2, "Bob"), member(3, "Carol")}
	txs := []core.Transaction{splitExpense(1, "90.00")}

	balances, names := ComputeBalances(txs, members)

	assert.True(t, balances[1].Equal(dec("60")), "payer balance = %s", balances[1])
	assert.True(t, balances[2].Equal(dec("-30")), "member balance = %s", balances[2])
	assert.True(t, balances[3].Equal(dec("-30")), "member balance = %s", balances[3])
	assert.Equal(t, "Alice", names[1])
}

func TestComputeBalances_Settlement(t *testing.T) {
	members := []core.Profile{member(1, "Alice"), member(2, "Bob")}
	txs := []core.Transaction{settlement(1, 2, "30.00")}

	balances, _ := ComputeBalances(txs, members)

	assert.True(t, balances[1].Equal(dec("30")))
	assert.True(t, balances[2].Equal(dec("-30")))
}

func TestComputeBalances_SettlementCancelsDebt(t *testing.T) {
	members := []core.Profile{member(1, "Alice"), member(2, "Bob")}
	txs := []core.Transaction{
		splitExpense(1, "100.00"), // Bob owes Alice 50
		settlement(2, 1, "50.00"), // Bob pays it back
	}

	balances, _ := ComputeBalances(txs, members)

	assert.True(t, balances[1].IsZero(), "creditor balance = %s", balances[1])
	assert.True(t, balances[2].IsZero(), "debtor balance = %s", balances[2])
}

func TestComputeBalances_SettlementToNonMemberSkipped(t *testing.T) {
	members := []core.Profile{member(1, "Alice"), member(2, "Bob")}
	txs := []core.Transaction{settlement(1, 99, "30.00")}

	balances, names := ComputeBalances(txs, members)

	require.Len(t, balances, 2, "no entry may appear for a non-member receiver")
	assert.True(t, balances[1].IsZero(), "payer balance = %s", balances[1])
	assert.True(t, balances[2].IsZero())
	_, ok := names[99]
	assert.False(t, ok)
}

func TestComputeBalances_PersonalExpenseExcluded(t *testing.T) {
	members := []core.Profile{member(1, "Alice"), member(2, "Bob")}
	txs := []core.Transaction{personalExpense(1, "40.00")}

	balances, _ := ComputeBalances(txs, members)

	assert.True(t, balances[1].IsZero())
	assert.True(t, balances[2].IsZero())
}

func TestComputeBalances_InactiveMemberStartsAtZero(t *testing.T) {
	members := []core.Profile{member(1, "Alice"), member(2, "Bob"), member(3, "Carol")}
	txs := []core.Transaction{settlement(1, 2, "10.00")}

	balances, _ := ComputeBalances(txs, members)

	got, ok := balances[3]
	require.True(t, ok, "roster member without transactions must be present")
	assert.True(t, got.IsZero())
}

func TestComputeBalances_RoundingDrift(t *testing.T) {
	members := []core.Profile{member(1, "Alice"), member(2, "Bob"), member(3, "Carol")}
	txs := []core.Transaction{splitExpense(1, "100.00")}

	balances, _ := ComputeBalances(txs, members)

	// 100/3 rounds half-up to 33.33 per head; the payer keeps the
	// 0.01 remainder.
	assert.True(t, balances[1].Equal(dec("66.67")), "payer balance = %s", balances[1])
	assert.True(t, balances[2].Equal(dec("-33.33")))
	assert.True(t, balances[3].Equal(dec("-33.33")))

	sum := decimal.Zero
	for _, b := range balances {
		sum = sum.Add(b)
	}
	assert.True(t, sum.Abs().LessThanOrEqual(dec("0.02")), "drift = %s", sum)
}

func TestComputeBalances_InputsNotMutated(t *testing.T) {
	members := []core.Profile{member(1, "Alice"), member(2, "Bob")}
	txs := []core.Transaction{splitExpense(1, "10.00")}
	before := txs[0].Amount

	ComputeBalances(txs, members)

	assert.True(t, txs[0].Amount.Equal(before))
}
