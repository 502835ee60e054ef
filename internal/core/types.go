// Package core defines the domain types shared across the service:
// profiles, transactions, categories and the settlement output shape.
package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind distinguishes income from expense records.
type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

// Profile is a registered member. GroupID is empty for members that are
// not part of a shared group; BudgetLimit is unset when non-positive.
type Profile struct {
	ID              int64
	FullName        string
	Email           string
	PasswordHash    string
	ProfileImageURL string
	BudgetLimit     decimal.Decimal
	GroupID         string
	IsActive        bool
	ActivationToken string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasBudget reports whether a monthly budget limit is configured.
func (p *Profile) HasBudget() bool {
	return p.BudgetLimit.IsPositive()
}

// Category labels a transaction. Categories are seeded by migration and
// include a reserved "Settlement" category for transfer records.
type Category struct {
	ID   int64
	Name string
	Type TransactionKind
	Icon string
}

// Transaction is the unit of financial fact: an income, a split or
// personal expense, or a direct settlement transfer between two members.
//
// A settlement is always an expense row with Splittable forced false and
// SettledToID pointing at the receiving profile. A non-settlement row
// never carries a receiver.
type Transaction struct {
	ID           int64
	Kind         TransactionKind
	Name         string
	Icon         string
	Amount       decimal.Decimal
	Date         time.Time
	Splittable   bool
	IsSettlement bool
	SettledToID  *int64
	CategoryID   int64
	CategoryName string
	ProfileID    int64
	CreatorName  string
	CreatedAt    *time.Time
	UpdatedAt    *time.Time
}

// CountsForBalance reports whether the record participates in group
// balance computation: plain splittable expenses and settlements do,
// personal not-to-split costs do not.
func (t *Transaction) CountsForBalance() bool {
	return t.Splittable || t.IsSettlement
}

// SettlementInstruction is one payment of the simplified debt plan:
// the debtor pays the creditor the given positive amount.
type SettlementInstruction struct {
	FromID   int64
	FromName string
	ToID     int64
	ToName   string
	Amount   decimal.Decimal
}

// ActivityEntry is an audit record written after a mutation succeeds.
type ActivityEntry struct {
	ID          int64
	Action      string
	Description string
	UserEmail   string
	GroupID     string
	CreatedAt   time.Time
}

// MonthRange returns the first and last day of the month containing t,
// at midnight in t's location.
func MonthRange(t time.Time) (start, end time.Time) {
	y, m, _ := t.Date()
	start = time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 1, -1)
	return start, end
}
