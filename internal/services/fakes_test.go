package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"splitbook/internal/amqp"
	"splitbook/internal/core"
)

// fakeStore is an in-memory Store (plus audit.ActivityStore) for
// exercising the services without SQLite.
type fakeStore struct {
	mu sync.Mutex

	profiles      map[int64]*core.Profile
	nextProfileID int64

	categories []core.Category

	txs      []core.Transaction
	nextTxID int64

	activities  []core.ActivityEntry
	activityErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles: make(map[int64]*core.Profile),
		categories: []core.Category{
			{ID: 1, Name: "Others", Type: core.KindExpense, Icon: "📦"},
			{ID: 2, Name: "Settlement", Type: core.KindExpense, Icon: "🤝"},
			{ID: 3, Name: "Salary", Type: core.KindIncome, Icon: "💰"},
		},
	}
}

func (f *fakeStore) addProfile(name, email, groupID string, budget decimal.Decimal) *core.Profile {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextProfileID++
	p := &core.Profile{
		ID:          f.nextProfileID,
		FullName:    name,
		Email:       email,
		GroupID:     groupID,
		BudgetLimit: budget,
		IsActive:    true,
	}
	f.profiles[p.ID] = p
	return p
}

func (f *fakeStore) CreateTransaction(ctx context.Context, t *core.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextTxID++
	t.ID = f.nextTxID
	now := time.Now()
	t.CreatedAt = &now
	f.txs = append(f.txs, *t)
	return nil
}

func (f *fakeStore) GetTransaction(ctx context.Context, id int64) (*core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.txs {
		if f.txs[i].ID == id {
			tx := f.txs[i]
			return &tx, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeStore) DeleteTransaction(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.txs {
		if f.txs[i].ID == id {
			f.txs = append(f.txs[:i], f.txs[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (f *fakeStore) ListExpensesByProfiles(ctx context.Context, profileIDs []int64) ([]core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []core.Transaction
	for _, tx := range f.txs {
		if tx.Kind == core.KindExpense && containsID(profileIDs, tx.ProfileID) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeStore) ListRecentByProfiles(ctx context.Context, profileIDs []int64, kind core.TransactionKind, limit int) ([]core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []core.Transaction
	for _, tx := range f.txs {
		if tx.Kind == kind && !tx.IsSettlement && containsID(profileIDs, tx.ProfileID) {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) ListByProfilesInRange(ctx context.Context, profileIDs []int64, kind core.TransactionKind, start, end time.Time) ([]core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []core.Transaction
	for _, tx := range f.txs {
		if tx.Kind != kind || tx.IsSettlement || !containsID(profileIDs, tx.ProfileID) {
			continue
		}
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (f *fakeStore) SumByProfiles(ctx context.Context, profileIDs []int64, kind core.TransactionKind) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	total := decimal.Zero
	for _, tx := range f.txs {
		if tx.Kind == kind && !tx.IsSettlement && containsID(profileIDs, tx.ProfileID) {
			total = total.Add(tx.Amount)
		}
	}
	return total, nil
}

func (f *fakeStore) CreateProfile(ctx context.Context, p *core.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextProfileID++
	p.ID = f.nextProfileID
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateProfile(ctx context.Context, p *core.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.profiles[p.ID]; !ok {
		return core.ErrNotFound
	}
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

func (f *fakeStore) GetProfile(ctx context.Context, id int64) (*core.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) GetProfileByEmail(ctx context.Context, email string) (*core.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.profiles {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeStore) GetProfileByActivationToken(ctx context.Context, token string) (*core.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.profiles {
		if p.ActivationToken != "" && p.ActivationToken == token {
			cp := *p
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeStore) ListProfilesByGroup(ctx context.Context, groupID string) ([]core.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []core.Profile
	for _, p := range f.profiles {
		if p.GroupID == groupID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) GetCategory(ctx context.Context, id int64) (*core.Category, error) {
	for i := range f.categories {
		if f.categories[i].ID == id {
			c := f.categories[i]
			return &c, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeStore) FindCategoryByName(ctx context.Context, name string) (*core.Category, error) {
	for i := range f.categories {
		if strings.EqualFold(f.categories[i].Name, name) {
			c := f.categories[i]
			return &c, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeStore) ListCategories(ctx context.Context) ([]core.Category, error) {
	return append([]core.Category(nil), f.categories...), nil
}

func (f *fakeStore) InsertActivity(ctx context.Context, e core.ActivityEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.activityErr != nil {
		return f.activityErr
	}
	e.ID = int64(len(f.activities) + 1)
	e.CreatedAt = time.Now()
	f.activities = append(f.activities, e)
	return nil
}

func (f *fakeStore) ListActivityByGroup(ctx context.Context, groupID string, limit int) ([]core.ActivityEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []core.ActivityEntry
	for _, e := range f.activities {
		if e.GroupID == groupID {
			out = append(out, e)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeStore) lastActivity() (core.ActivityEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.activities) == 0 {
		return core.ActivityEntry{}, false
	}
	return f.activities[len(f.activities)-1], true
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type fakeNotifier struct {
	mu        sync.Mutex
	published []amqp.Notification
	err       error
}

func (f *fakeNotifier) Publish(ctx context.Context, n amqp.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, n)
	return nil
}

func (f *fakeNotifier) last() (amqp.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.published) == 0 {
		return amqp.Notification{}, fmt.Errorf("nothing published")
	}
	return f.published[len(f.published)-1], nil
}

type fakeEvictor struct {
	mu      sync.Mutex
	evicted [][]int64
}

func (f *fakeEvictor) Evict(memberIDs []int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := append([]int64(nil), memberIDs...)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
	f.evicted = append(f.evicted, cp)
}

func (f *fakeEvictor) lastEviction() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.evicted) == 0 {
		return nil
	}
	return f.evicted[len(f.evicted)-1]
}
