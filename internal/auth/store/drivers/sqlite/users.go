package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/quickmarket/storeauth/internal/auth/domain"
	"github.com/quickmarket/storeauth/internal/auth/store"
)

type usersRepo struct {
	db querier
}

const userColumns = `id, email, name, password_hash, role, two_factor_enabled,
	login_token, login_token_expiry, code_hash, code_expiry, code_attempts,
	last_sent_at, created_at, updated_at`

func (r *usersRepo) scanUser(row *sql.Row) (domain.User, error) {
	var (
		u                domain.User
		loginToken       sql.NullString
		loginTokenExpiry sql.NullTime
		codeHash         sql.NullString
		codeExpiry       sql.NullTime
		lastSentAt       sql.NullTime
	)

	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.TwoFactorEnabled,
		&loginToken, &loginTokenExpiry, &codeHash, &codeExpiry, &u.CodeAttempts,
		&lastSentAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.LoginToken = mapNullStringPtr(loginToken)
	u.LoginTokenExpiry = mapNullTimePtr(loginTokenExpiry)
	u.CodeHash = mapNullStringPtr(codeHash)
	u.CodeExpiry = mapNullTimePtr(codeExpiry)
	u.LastSentAt = mapNullTimePtr(lastSentAt)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return r.scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return r.scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, email, name, password_hash, role, two_factor_enabled,
			code_attempts, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.TwoFactorEnabled,
		now, now,
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) SetTwoFactorEnabled(ctx context.Context, userID string, enabled bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET two_factor_enabled = ?, updated_at = ? WHERE id = ?`,
		enabled, time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) UpdateChallengeState(ctx context.Context, userID string, cs store.ChallengeState) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			login_token = ?, login_token_expiry = ?,
			code_hash = ?, code_expiry = ?, code_attempts = ?,
			last_sent_at = ?, updated_at = ?
		WHERE id = ?`,
		mapOptionalString(cs.LoginToken), mapOptionalTime(cs.LoginTokenExpiry),
		mapOptionalString(cs.CodeHash), mapOptionalTime(cs.CodeExpiry), cs.CodeAttempts,
		mapOptionalTime(cs.LastSentAt), time.Now().UTC(),
		userID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) ClearChallengeState(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			login_token = NULL, login_token_expiry = NULL,
			code_hash = NULL, code_expiry = NULL, code_attempts = 0,
			last_sent_at = NULL, updated_at = ?
		WHERE id = ?`,
		time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) IncrementCodeAttempts(ctx context.Context, userID string) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE users SET code_attempts = code_attempts + 1, updated_at = ?
		WHERE id = ?
		RETURNING code_attempts`,
		time.Now().UTC(), userID,
	)

	var attempts int
	if err := row.Scan(&attempts); err != nil {
		return 0, mapNotFound(err)
	}
	return attempts, nil
}

func (r *usersRepo) ClearExpiredChallenges(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			login_token = NULL, login_token_expiry = NULL,
			code_hash = NULL, code_expiry = NULL, code_attempts = 0,
			last_sent_at = NULL, updated_at = ?
		WHERE login_token_expiry IS NOT NULL AND login_token_expiry <= ?`,
		time.Now().UTC(), cutoff,
	)
	return err
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
