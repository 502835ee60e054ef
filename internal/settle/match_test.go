package settle

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splitbook/internal/core"
)

func TestMatch_TwoMembersExact(t *testing.T) {
	balances := map[int64]decimal.Decimal{
		1: dec("50.00"),
		2: dec("-50.00"),
	}
	names := map[int64]string{1: "Alice", 2: "Bob"}

	plan := Match(balances, names)

	require.Len(t, plan, 1)
	assert.Equal(t, int64(2), plan[0].FromID)
	assert.Equal(t, "Bob", plan[0].FromName)
	assert.Equal(t, int64(1), plan[0].ToID)
	assert.Equal(t, "Alice", plan[0].ToName)
	assert.True(t, plan[0].Amount.Equal(dec("50.00")))
}

func TestMatch_OneCreditorTwoDebtors(t *testing.T) {
	balances := map[int64]decimal.Decimal{
		1: dec("60.00"),
		2: dec("-30.00"),
		3: dec("-30.00"),
	}
	names := map[int64]string{1: "Alice", 2: "Bob", 3: "Carol"}

	plan := Match(balances, names)

	require.Len(t, plan, 2)
	paid := map[int64]decimal.Decimal{}
	for _, in := range plan {
		assert.Equal(t, int64(1), in.ToID)
		paid[in.FromID] = in.Amount
	}
	assert.True(t, paid[2].Equal(dec("30.00")))
	assert.True(t, paid[3].Equal(dec("30.00")))
}

func TestMatch_SettledBalancesDropped(t *testing.T) {
	balances := map[int64]decimal.Decimal{
		1: dec("0.05"),
		2: dec("-0.10"),
		3: dec("0.05"),
	}
	names := map[int64]string{1: "Alice", 2: "Bob", 3: "Carol"}

	plan := Match(balances, names)

	require.NotNil(t, plan)
	assert.Empty(t, plan)
}

func TestMatch_AmountsAlwaysPositive(t *testing.T) {
	balances := map[int64]decimal.Decimal{
		1: dec("75.50"),
		2: dec("-20.25"),
		3: dec("-55.25"),
	}
	names := map[int64]string{1: "Alice", 2: "Bob", 3: "Carol"}

	plan := Match(balances, names)

	require.NotEmpty(t, plan)
	for _, in := range plan {
		assert.True(t, in.Amount.IsPositive(), "instruction amount = %s", in.Amount)
	}
}

func TestMatch_InstructionCountBound(t *testing.T) {
	balances := map[int64]decimal.Decimal{
		1: dec("100.00"),
		2: dec("40.00"),
		3: dec("-60.00"),
		4: dec("-50.00"),
		5: dec("-30.00"),
	}
	names := map[int64]string{1: "A", 2: "B", 3: "C", 4: "D", 5: "E"}

	plan := Match(balances, names)

	// 2 creditors + 3 debtors allow at most 4 payments.
	assert.LessOrEqual(t, len(plan), 4)

	// The plan pays every debt off: replay it and check everyone lands
	// inside the tolerance band.
	working := map[int64]decimal.Decimal{}
	for id, b := range balances {
		working[id] = b
	}
	for _, in := range plan {
		working[in.FromID] = working[in.FromID].Add(in.Amount)
		working[in.ToID] = working[in.ToID].Sub(in.Amount)
	}
	for id, b := range working {
		assert.True(t, b.Abs().LessThanOrEqual(DefaultTolerance), "member %d residual = %s", id, b)
	}
}

func TestMatch_PartialPaymentWalksCreditors(t *testing.T) {
	balances := map[int64]decimal.Decimal{
		1: dec("30.00"),
		2: dec("20.00"),
		3: dec("-50.00"),
	}
	names := map[int64]string{1: "Alice", 2: "Bob", 3: "Carol"}

	plan := Match(balances, names)

	require.Len(t, plan, 2)
	assert.Equal(t, int64(3), plan[0].FromID)
	assert.Equal(t, int64(1), plan[0].ToID)
	assert.True(t, plan[0].Amount.Equal(dec("30.00")))
	assert.Equal(t, int64(3), plan[1].FromID)
	assert.Equal(t, int64(2), plan[1].ToID)
	assert.True(t, plan[1].Amount.Equal(dec("20.00")))
}

func TestMatchWithTolerance_CustomBand(t *testing.T) {
	balances := map[int64]decimal.Decimal{
		1: dec("0.50"),
		2: dec("-0.50"),
	}
	names := map[int64]string{1: "Alice", 2: "Bob"}

	assert.Len(t, MatchWithTolerance(balances, names, dec("0.10")), 1)
	assert.Empty(t, MatchWithTolerance(balances, names, dec("1.00")))
}

func TestMatch_EmptyBalances(t *testing.T) {
	plan := Match(map[int64]decimal.Decimal{}, map[int64]string{})
	require.NotNil(t, plan)
	assert.Empty(t, plan)

	var zero []core.SettlementInstruction
	assert.IsType(t, zero, plan)
}
