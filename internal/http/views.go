package http

import (
	"time"

	"splitbook/internal/core"
	"splitbook/internal/dashboard"
)

// Response shapes. Monetary amounts are rendered as exact 2-decimal
// strings so clients never see binary-float artifacts.

type profileView struct {
	ID              int64  `json:"id"`
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	BudgetLimit     string `json:"budget_limit,omitempty"`
	GroupID         string `json:"group_id,omitempty"`
	IsActive        bool   `json:"is_active"`
}

func toProfileView(p *core.Profile) profileView {
	v := profileView{
		ID:              p.ID,
		FullName:        p.FullName,
		Email:           p.Email,
		ProfileImageURL: p.ProfileImageURL,
		GroupID:         p.GroupID,
		IsActive:        p.IsActive,
	}
	if p.HasBudget() {
		v.BudgetLimit = p.BudgetLimit.StringFixed(2)
	}
	return v
}

type categoryView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Icon string `json:"icon,omitempty"`
}

func toCategoryView(c core.Category) categoryView {
	return categoryView{ID: c.ID, Name: c.Name, Type: string(c.Type), Icon: c.Icon}
}

type transactionView struct {
	ID           int64  `json:"id"`
	Kind         string `json:"kind"`
	Name         string `json:"name"`
	Icon         string `json:"icon,omitempty"`
	Amount       string `json:"amount"`
	Date         string `json:"date"`
	Splittable   bool   `json:"splittable"`
	IsSettlement bool   `json:"is_settlement"`
	SettledToID  *int64 `json:"settled_to_id,omitempty"`
	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name,omitempty"`
	ProfileID    int64  `json:"profile_id"`
	CreatorName  string `json:"creator_name,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

func toTransactionView(t core.Transaction) transactionView {
	v := transactionView{
		ID:           t.ID,
		Kind:         string(t.Kind),
		Name:         t.Name,
		Icon:         t.Icon,
		Amount:       t.Amount.StringFixed(2),
		Date:         t.Date.Format(dateLayout),
		Splittable:   t.Splittable,
		IsSettlement: t.IsSettlement,
		SettledToID:  t.SettledToID,
		CategoryID:   t.CategoryID,
		CategoryName: t.CategoryName,
		ProfileID:    t.ProfileID,
		CreatorName:  t.CreatorName,
	}
	if t.CreatedAt != nil {
		v.CreatedAt = t.CreatedAt.Format(time.RFC3339)
	}
	return v
}

func toTransactionViews(txs []core.Transaction) []transactionView {
	views := make([]transactionView, len(txs))
	for i, t := range txs {
		views[i] = toTransactionView(t)
	}
	return views
}

type instructionView struct {
	FromID   int64  `json:"from_id"`
	FromName string `json:"from_name"`
	ToID     int64  `json:"to_id"`
	ToName   string `json:"to_name"`
	Amount   string `json:"amount"`
}

func toInstructionViews(plan []core.SettlementInstruction) []instructionView {
	views := make([]instructionView, len(plan))
	for i, in := range plan {
		views[i] = instructionView{
			FromID:   in.FromID,
			FromName: in.FromName,
			ToID:     in.ToID,
			ToName:   in.ToName,
			Amount:   in.Amount.StringFixed(2),
		}
	}
	return views
}

type snapshotView struct {
	TotalBalance       string            `json:"total_balance"`
	TotalIncome        string            `json:"total_income"`
	TotalExpense       string            `json:"total_expense"`
	Recent5Incomes     []transactionView `json:"recent_5_incomes"`
	Recent5Expenses    []transactionView `json:"recent_5_expenses"`
	RecentTransactions []transactionView `json:"recent_transactions"`
}

func toSnapshotView(s *dashboard.Snapshot) snapshotView {
	return snapshotView{
		TotalBalance:       s.TotalBalance.StringFixed(2),
		TotalIncome:        s.TotalIncome.StringFixed(2),
		TotalExpense:       s.TotalExpense.StringFixed(2),
		Recent5Incomes:     toTransactionViews(s.Recent5Incomes),
		Recent5Expenses:    toTransactionViews(s.Recent5Expenses),
		RecentTransactions: toTransactionViews(s.RecentTransactions),
	}
}

type activityView struct {
	ID          int64  `json:"id"`
	Action      string `json:"action"`
	Description string `json:"description"`
	UserEmail   string `json:"user_email"`
	CreatedAt   string `json:"created_at"`
}

func toActivityViews(entries []core.ActivityEntry) []activityView {
	views := make([]activityView, len(entries))
	for i, e := range entries {
		views[i] = activityView{
			ID:          e.ID,
			Action:      e.Action,
			Description: e.Description,
			UserEmail:   e.UserEmail,
			CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		}
	}
	return views
}

type memberView struct {
	ID              int64  `json:"id"`
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}

func toMemberViews(members []core.Profile) []memberView {
	views := make([]memberView, len(members))
	for i, m := range members {
		views[i] = memberView{
			ID:              m.ID,
			FullName:        m.FullName,
			Email:           m.Email,
			ProfileImageURL: m.ProfileImageURL,
		}
	}
	return views
}
