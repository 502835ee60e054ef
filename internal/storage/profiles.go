package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"splitbook/internal/core"
)

const profileColumns = `id, full_name, email, password_hash, profile_image_url,
	budget_limit_cents, group_id, is_active, activation_token, created_at, updated_at`

func (r *SQLiteRepository) CreateProfile(ctx context.Context, p *core.Profile) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (full_name, email, password_hash, profile_image_url,
			budget_limit_cents, group_id, is_active, activation_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.FullName, p.Email, p.PasswordHash, p.ProfileImageURL,
		core.Cents(p.BudgetLimit), p.GroupID, p.IsActive, p.ActivationToken,
		now.Format(timeFormat), now.Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("profile insert id: %w", err)
	}
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (r *SQLiteRepository) UpdateProfile(ctx context.Context, p *core.Profile) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET full_name = ?, profile_image_url = ?, budget_limit_cents = ?,
			group_id = ?, is_active = ?, activation_token = ?, updated_at = ?
		WHERE id = ?`,
		p.FullName, p.ProfileImageURL, core.Cents(p.BudgetLimit),
		p.GroupID, p.IsActive, p.ActivationToken, now.Format(timeFormat), p.ID,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("profile %d: %w", p.ID, core.ErrNotFound)
	}
	p.UpdatedAt = now
	return nil
}

func (r *SQLiteRepository) GetProfile(ctx context.Context, id int64) (*core.Profile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	return scanProfile(row, fmt.Sprintf("profile %d", id))
}

func (r *SQLiteRepository) GetProfileByEmail(ctx context.Context, email string) (*core.Profile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE email = ?`, email)
	return scanProfile(row, fmt.Sprintf("profile %q", email))
}

func (r *SQLiteRepository) GetProfileByActivationToken(ctx context.Context, token string) (*core.Profile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE activation_token = ? AND activation_token != ''`, token)
	return scanProfile(row, "activation token")
}

func (r *SQLiteRepository) ListProfilesByGroup(ctx context.Context, groupID string) ([]core.Profile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE group_id = ? AND group_id != '' ORDER BY id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("list group profiles: %w", err)
	}
	defer rows.Close()

	var profiles []core.Profile
	for rows.Next() {
		p, err := scanProfile(rows, "group profile")
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner, what string) (*core.Profile, error) {
	var (
		p                    core.Profile
		budgetCents          int64
		createdAt, updatedAt string
	)
	err := row.Scan(&p.ID, &p.FullName, &p.Email, &p.PasswordHash, &p.ProfileImageURL,
		&budgetCents, &p.GroupID, &p.IsActive, &p.ActivationToken, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", what, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", what, err)
	}
	p.BudgetLimit = core.FromCents(budgetCents)
	if p.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return nil, fmt.Errorf("parse %s created_at: %w", what, err)
	}
	if p.UpdatedAt, err = time.Parse(timeFormat, updatedAt); err != nil {
		return nil, fmt.Errorf("parse %s updated_at: %w", what, err)
	}
	return &p, nil
}
