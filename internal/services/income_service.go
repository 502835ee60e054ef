package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"splitbook/internal/audit"
	"splitbook/internal/core"
)

// IncomeService records income entries. Incomes are personal facts: they
// never enter balance computation, but they do feed the shared dashboard.
type IncomeService struct {
	store   Store
	members MemberResolver
	audit   *audit.Recorder
	evictor SnapshotEvictor
	now     func() time.Time
}

func NewIncomeService(store Store, members MemberResolver, rec *audit.Recorder, evictor SnapshotEvictor) *IncomeService {
	return &IncomeService{
		store:   store,
		members: members,
		audit:   rec,
		evictor: evictor,
		now:     time.Now,
	}
}

// AddIncomeInput holds the fields of a new income record.
type AddIncomeInput struct {
	Name       string
	Icon       string
	Amount     decimal.Decimal
	Date       time.Time
	CategoryID int64
}

// AddIncome persists an income for the caller and invalidates the
// group's dashboard snapshots.
func (s *IncomeService) AddIncome(ctx context.Context, callerID int64, in AddIncomeInput) (*core.Transaction, error) {
	profile, err := s.store.GetProfile(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("income amount %s: %w", in.Amount, core.ErrInvalidAmount)
	}
	category, err := s.store.GetCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("category %d: %w", in.CategoryID, err)
	}

	tx := &core.Transaction{
		Kind:       core.KindIncome,
		Name:       in.Name,
		Icon:       in.Icon,
		Amount:     in.Amount.Round(2),
		Date:       in.Date,
		CategoryID: category.ID,
		ProfileID:  profile.ID,
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("create income: %w", err)
	}
	tx.CategoryName = category.Name
	tx.CreatorName = profile.FullName

	s.evictMembers(ctx, callerID)
	s.audit.Record(ctx, "INCOME_ADDED",
		fmt.Sprintf("%s added income '%s' of %s", profile.FullName, tx.Name, tx.Amount.StringFixed(2)),
		profile)

	return tx, nil
}

// DeleteIncome removes an income. Only its creator may delete it.
func (s *IncomeService) DeleteIncome(ctx context.Context, callerID, id int64) error {
	tx, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	if tx.Kind != core.KindIncome {
		return fmt.Errorf("transaction %d is not an income: %w", id, core.ErrNotFound)
	}
	if tx.ProfileID != callerID {
		return fmt.Errorf("income %d belongs to another member: %w", id, core.ErrUnauthorized)
	}
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	s.evictMembers(ctx, callerID)
	if profile, perr := s.store.GetProfile(ctx, callerID); perr == nil {
		s.audit.Record(ctx, "INCOME_DELETED",
			fmt.Sprintf("%s deleted income '%s'", profile.FullName, tx.Name),
			profile)
	}
	return nil
}

// ListCurrentMonth returns the effective member set's incomes for the
// month containing today.
func (s *IncomeService) ListCurrentMonth(ctx context.Context, callerID int64) ([]core.Transaction, error) {
	ids, err := s.members.EffectiveMemberIDs(ctx, callerID)
	if err != nil {
		return nil, err
	}
	start, end := core.MonthRange(s.now())
	return s.store.ListByProfilesInRange(ctx, ids, core.KindIncome, start, end)
}

// ListInRange returns the effective member set's incomes between the two
// dates inclusive.
func (s *IncomeService) ListInRange(ctx context.Context, callerID int64, start, end time.Time) ([]core.Transaction, error) {
	ids, err := s.members.EffectiveMemberIDs(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return s.store.ListByProfilesInRange(ctx, ids, core.KindIncome, start, end)
}

func (s *IncomeService) evictMembers(ctx context.Context, callerID int64) {
	ids, err := s.members.EffectiveMemberIDs(ctx, callerID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to resolve members for eviction", "profile_id", callerID, "error", err)
		return
	}
	s.evictor.Evict(ids)
}
