// Package services orchestrates the core components: it validates
// mutations, persists them, fans out cache eviction and records audit
// entries, and exposes the read operations the request layer serves.
package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"splitbook/internal/amqp"
	"splitbook/internal/core"
)

// Store is the persistence surface the services consume. The SQLite
// repository implements it; tests substitute an in-memory fake.
type Store interface {
	CreateTransaction(ctx context.Context, t *core.Transaction) error
	GetTransaction(ctx context.Context, id int64) (*core.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
	ListExpensesByProfiles(ctx context.Context, profileIDs []int64) ([]core.Transaction, error)
	ListRecentByProfiles(ctx context.Context, profileIDs []int64, kind core.TransactionKind, limit int) ([]core.Transaction, error)
	ListByProfilesInRange(ctx context.Context, profileIDs []int64, kind core.TransactionKind, start, end time.Time) ([]core.Transaction, error)
	SumByProfiles(ctx context.Context, profileIDs []int64, kind core.TransactionKind) (decimal.Decimal, error)

	CreateProfile(ctx context.Context, p *core.Profile) error
	UpdateProfile(ctx context.Context, p *core.Profile) error
	GetProfile(ctx context.Context, id int64) (*core.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*core.Profile, error)
	GetProfileByActivationToken(ctx context.Context, token string) (*core.Profile, error)
	ListProfilesByGroup(ctx context.Context, groupID string) ([]core.Profile, error)

	GetCategory(ctx context.Context, id int64) (*core.Category, error)
	FindCategoryByName(ctx context.Context, name string) (*core.Category, error)
	ListCategories(ctx context.Context) ([]core.Category, error)

	ListActivityByGroup(ctx context.Context, groupID string, limit int) ([]core.ActivityEntry, error)
}

// Notifier publishes a notification for asynchronous delivery.
type Notifier interface {
	Publish(ctx context.Context, n amqp.Notification) error
}

// SnapshotEvictor drops cached dashboard snapshots for the given
// members. Implemented by the dashboard service.
type SnapshotEvictor interface {
	Evict(memberIDs []int64)
}
