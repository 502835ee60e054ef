package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"splitbook/internal/core"
)

// selectTransaction joins the category and creator names the read side
// renders with every record.
const selectTransaction = `
	SELECT t.id, t.kind, t.name, t.icon, t.amount_cents, t.date,
		t.splittable, t.is_settlement, t.settled_to_id,
		t.category_id, c.name, t.profile_id, p.full_name,
		t.created_at, t.updated_at
	FROM transactions t
	JOIN categories c ON c.id = t.category_id
	JOIN profiles p ON p.id = t.profile_id`

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t *core.Transaction) error {
	now := time.Now().UTC()
	var settledTo any
	if t.SettledToID != nil {
		settledTo = *t.SettledToID
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (kind, name, icon, amount_cents, date,
			splittable, is_settlement, settled_to_id, category_id, profile_id,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(t.Kind), t.Name, t.Icon, core.Cents(t.Amount), t.Date.Format(dateFormat),
		t.Splittable, t.IsSettlement, settledTo, t.CategoryID, t.ProfileID,
		now.Format(timeFormat), now.Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("transaction insert id: %w", err)
	}
	t.ID = id
	created := now
	t.CreatedAt = &created
	updated := now
	t.UpdatedAt = &updated
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (*core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, selectTransaction+` WHERE t.id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// ListExpensesByProfiles returns every expense-kind record of the given
// profiles, settlements and non-splittable rows included. Rows come back
// in insertion order so repeated balance runs round identically.
func (r *SQLiteRepository) ListExpensesByProfiles(ctx context.Context, profileIDs []int64) ([]core.Transaction, error) {
	if len(profileIDs) == 0 {
		return nil, nil
	}
	query := selectTransaction + `
		WHERE t.kind = 'expense' AND t.profile_id IN (` + placeholders(len(profileIDs)) + `)
		ORDER BY t.id`
	return r.queryTransactions(ctx, query, int64Args(profileIDs)...)
}

// ListRecentByProfiles returns the most recent non-settlement records of
// one kind, newest date first.
func (r *SQLiteRepository) ListRecentByProfiles(ctx context.Context, profileIDs []int64, kind core.TransactionKind, limit int) ([]core.Transaction, error) {
	if len(profileIDs) == 0 {
		return nil, nil
	}
	query := selectTransaction + `
		WHERE t.kind = ? AND t.is_settlement = 0
			AND t.profile_id IN (` + placeholders(len(profileIDs)) + `)
		ORDER BY t.date DESC, t.created_at DESC
		LIMIT ?`
	args := append([]any{string(kind)}, int64Args(profileIDs)...)
	args = append(args, limit)
	return r.queryTransactions(ctx, query, args...)
}

// ListByProfilesInRange returns non-settlement records of one kind whose
// date falls inside [start, end], inclusive.
func (r *SQLiteRepository) ListByProfilesInRange(ctx context.Context, profileIDs []int64, kind core.TransactionKind, start, end time.Time) ([]core.Transaction, error) {
	if len(profileIDs) == 0 {
		return nil, nil
	}
	query := selectTransaction + `
		WHERE t.kind = ? AND t.is_settlement = 0
			AND t.profile_id IN (` + placeholders(len(profileIDs)) + `)
			AND t.date >= ? AND t.date <= ?
		ORDER BY t.date DESC, t.created_at DESC`
	args := append([]any{string(kind)}, int64Args(profileIDs)...)
	args = append(args, start.Format(dateFormat), end.Format(dateFormat))
	return r.queryTransactions(ctx, query, args...)
}

// SumByProfiles totals the non-settlement records of one kind across the
// given profiles. Settlements are transfers, not spend or earn events.
func (r *SQLiteRepository) SumByProfiles(ctx context.Context, profileIDs []int64, kind core.TransactionKind) (decimal.Decimal, error) {
	if len(profileIDs) == 0 {
		return decimal.Zero, nil
	}
	query := `
		SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		WHERE kind = ? AND is_settlement = 0
			AND profile_id IN (` + placeholders(len(profileIDs)) + `)`
	args := append([]any{string(kind)}, int64Args(profileIDs)...)

	var cents int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&cents); err != nil {
		return decimal.Zero, fmt.Errorf("sum %s: %w", kind, err)
	}
	return core.FromCents(cents), nil
}

func (r *SQLiteRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *t)
	}
	return txs, rows.Err()
}

func scanTransaction(row rowScanner) (*core.Transaction, error) {
	var (
		t                    core.Transaction
		kind                 string
		cents                int64
		date                 string
		settledTo            sql.NullInt64
		createdAt, updatedAt string
	)
	err := row.Scan(&t.ID, &kind, &t.Name, &t.Icon, &cents, &date,
		&t.Splittable, &t.IsSettlement, &settledTo,
		&t.CategoryID, &t.CategoryName, &t.ProfileID, &t.CreatorName,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	t.Kind = core.TransactionKind(kind)
	t.Amount = core.FromCents(cents)
	if t.Date, err = time.Parse(dateFormat, date); err != nil {
		return nil, fmt.Errorf("parse transaction date: %w", err)
	}
	if settledTo.Valid {
		id := settledTo.Int64
		t.SettledToID = &id
	}
	if ts, err := time.Parse(timeFormat, createdAt); err == nil {
		t.CreatedAt = &ts
	}
	if ts, err := time.Parse(timeFormat, updatedAt); err == nil {
		t.UpdatedAt = &ts
	}
	return &t, nil
}
