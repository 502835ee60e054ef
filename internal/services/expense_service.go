package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"splitbook/internal/amqp"
	"splitbook/internal/audit"
	"splitbook/internal/core"
)

const settlementCategoryName = "Settlement"

// MemberResolver resolves the caller's effective member set. Implemented
// by ProfileService.
type MemberResolver interface {
	Roster(ctx context.Context, callerID int64) ([]core.Profile, error)
	EffectiveMemberIDs(ctx context.Context, callerID int64) ([]int64, error)
}

// ExpenseService records expenses and settlements and keeps the
// dashboard cache and activity log in step with them.
type ExpenseService struct {
	store    Store
	members  MemberResolver
	audit    *audit.Recorder
	notifier Notifier
	evictor  SnapshotEvictor
	now      func() time.Time
}

func NewExpenseService(store Store, members MemberResolver, rec *audit.Recorder, notifier Notifier, evictor SnapshotEvictor) *ExpenseService {
	return &ExpenseService{
		store:    store,
		members:  members,
		audit:    rec,
		notifier: notifier,
		evictor:  evictor,
		now:      time.Now,
	}
}

// AddExpenseInput holds the fields of a new expense record.
type AddExpenseInput struct {
	Name       string
	Icon       string
	Amount     decimal.Decimal
	Date       time.Time
	Splittable bool
	CategoryID int64
}

// AddExpense persists an expense for the caller, invalidates the group's
// dashboard snapshots and checks the caller's monthly budget.
func (s *ExpenseService) AddExpense(ctx context.Context, callerID int64, in AddExpenseInput) (*core.Transaction, error) {
	profile, err := s.store.GetProfile(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("expense amount %s: %w", in.Amount, core.ErrInvalidAmount)
	}
	category, err := s.store.GetCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("category %d: %w", in.CategoryID, err)
	}

	tx := &core.Transaction{
		Kind:       core.KindExpense,
		Name:       in.Name,
		Icon:       in.Icon,
		Amount:     in.Amount.Round(2),
		Date:       in.Date,
		Splittable: in.Splittable,
		CategoryID: category.ID,
		ProfileID:  profile.ID,
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	tx.CategoryName = category.Name
	tx.CreatorName = profile.FullName

	s.evictMembers(ctx, callerID)
	s.audit.Record(ctx, "EXPENSE_ADDED",
		fmt.Sprintf("%s added expense '%s' of %s", profile.FullName, tx.Name, tx.Amount.StringFixed(2)),
		profile)
	s.checkBudget(ctx, profile)

	return tx, nil
}

// DeleteExpense removes an expense. Only its creator may delete it.
func (s *ExpenseService) DeleteExpense(ctx context.Context, callerID, id int64) error {
	tx, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	if tx.Kind != core.KindExpense {
		return fmt.Errorf("transaction %d is not an expense: %w", id, core.ErrNotFound)
	}
	if tx.ProfileID != callerID {
		return fmt.Errorf("expense %d belongs to another member: %w", id, core.ErrUnauthorized)
	}
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	s.evictMembers(ctx, callerID)
	if profile, perr := s.store.GetProfile(ctx, callerID); perr == nil {
		s.audit.Record(ctx, "EXPENSE_DELETED",
			fmt.Sprintf("%s deleted expense '%s'", profile.FullName, tx.Name),
			profile)
	}
	return nil
}

// SettleDebt records a direct transfer from the caller to another
// member. The transfer is stored as a non-splittable expense that the
// balance computation treats as money moved between the two profiles.
func (s *ExpenseService) SettleDebt(ctx context.Context, callerID, receiverID int64, amount decimal.Decimal) (*core.Transaction, error) {
	if receiverID == callerID {
		return nil, fmt.Errorf("cannot settle with yourself: %w", core.ErrInvalidSettlement)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("settlement amount %s: %w", amount, core.ErrInvalidAmount)
	}

	payer, err := s.store.GetProfile(ctx, callerID)
	if err != nil {
		return nil, err
	}
	receiver, err := s.store.GetProfile(ctx, receiverID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("receiver %d: %w", receiverID, core.ErrInvalidSettlement)
		}
		return nil, err
	}

	category, err := s.settlementCategory(ctx)
	if err != nil {
		return nil, err
	}

	tx := &core.Transaction{
		Kind:         core.KindExpense,
		Name:         fmt.Sprintf("Settlement: %s -> %s", payer.FullName, receiver.FullName),
		Icon:         "🤝",
		Amount:       amount.Round(2),
		Date:         s.now(),
		Splittable:   false,
		IsSettlement: true,
		SettledToID:  &receiver.ID,
		CategoryID:   category.ID,
		ProfileID:    payer.ID,
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("create settlement: %w", err)
	}
	tx.CategoryName = category.Name
	tx.CreatorName = payer.FullName

	s.evictMembers(ctx, callerID)
	s.audit.Record(ctx, "DEBT_SETTLED",
		fmt.Sprintf("%s paid %s to %s", payer.FullName, tx.Amount.StringFixed(2), receiver.FullName),
		payer)

	return tx, nil
}

// settlementCategory resolves the category settlements are filed under.
// Falls back to "Others" and then to the first seeded category, so a
// settlement never fails on category lookup.
func (s *ExpenseService) settlementCategory(ctx context.Context) (*core.Category, error) {
	if c, err := s.store.FindCategoryByName(ctx, settlementCategoryName); err == nil {
		return c, nil
	}
	if c, err := s.store.FindCategoryByName(ctx, "Others"); err == nil {
		return c, nil
	}
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("no categories available: %w", core.ErrNotFound)
	}
	return &categories[0], nil
}

// ListCurrentMonth returns the effective member set's expenses for the
// month containing today, settlements excluded.
func (s *ExpenseService) ListCurrentMonth(ctx context.Context, callerID int64) ([]core.Transaction, error) {
	ids, err := s.members.EffectiveMemberIDs(ctx, callerID)
	if err != nil {
		return nil, err
	}
	start, end := core.MonthRange(s.now())
	return s.store.ListByProfilesInRange(ctx, ids, core.KindExpense, start, end)
}

// ListInRange returns the effective member set's expenses between the
// two dates inclusive, settlements excluded.
func (s *ExpenseService) ListInRange(ctx context.Context, callerID int64, start, end time.Time) ([]core.Transaction, error) {
	ids, err := s.members.EffectiveMemberIDs(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return s.store.ListByProfilesInRange(ctx, ids, core.KindExpense, start, end)
}

// checkBudget publishes a budget alert when the caller's own expense
// total for the current month exceeds their limit. The alert is
// fire-and-forget: a publish failure is logged and discarded so it never
// rolls back the expense that triggered it.
func (s *ExpenseService) checkBudget(ctx context.Context, profile *core.Profile) {
	if !profile.HasBudget() {
		return
	}

	txs, err := s.store.ListExpensesByProfiles(ctx, []int64{profile.ID})
	if err != nil {
		slog.ErrorContext(ctx, "Budget check failed", "profile_id", profile.ID, "error", err)
		return
	}
	start, end := core.MonthRange(s.now())
	total := decimal.Zero
	for _, tx := range txs {
		// Compare date-only; the range bounds are midnights.
		day := time.Date(tx.Date.Year(), tx.Date.Month(), tx.Date.Day(), 0, 0, 0, 0, tx.Date.Location())
		if day.Before(start) || day.After(end) {
			continue
		}
		total = total.Add(tx.Amount)
	}
	if total.Cmp(profile.BudgetLimit) <= 0 {
		return
	}

	slog.InfoContext(ctx, "Budget limit exceeded",
		"profile_id", profile.ID,
		"limit", profile.BudgetLimit.StringFixed(2),
		"total", total.StringFixed(2))
	if s.notifier == nil {
		slog.WarnContext(ctx, "Notifier not available, skipping budget alert", "profile_id", profile.ID)
		return
	}
	alert := amqp.NewBudgetAlert(profile.Email, profile.FullName,
		profile.BudgetLimit.StringFixed(2), total.StringFixed(2))
	if err := s.notifier.Publish(ctx, alert); err != nil {
		slog.ErrorContext(ctx, "Failed to publish budget alert", "profile_id", profile.ID, "error", err)
	}
}

func (s *ExpenseService) evictMembers(ctx context.Context, callerID int64) {
	ids, err := s.members.EffectiveMemberIDs(ctx, callerID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to resolve members for eviction", "profile_id", callerID, "error", err)
		return
	}
	s.evictor.Evict(ids)
}
