package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/megatonytrader/express-entregas-zap/internal/usecase"
)

type MySQLSettingsRepo struct{ db *sql.DB }

func NewMySQLSettingsRepo(db *sql.DB) *MySQLSettingsRepo { return &MySQLSettingsRepo{db: db} }

func (r *MySQLSettingsRepo) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE `+"`key`"+`=?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

func (r *MySQLSettingsRepo) GetMany(ctx context.Context, keys []string) (map[string]string, error) {
	if len(keys) == 0 {
		return map[string]string{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+"`key`"+`,value FROM settings WHERE `+"`key`"+` IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (r *MySQLSettingsRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO settings (`+"`key`"+`,value) VALUES (?,?)
ON DUPLICATE KEY UPDATE value=VALUES(value)`, key, value)
	return err
}

var _ usecase.SettingsRepo = (*MySQLSettingsRepo)(nil)

// MySQLAccountRepo joins the login row with its role; a session is only
// admin when user_roles says so.
type MySQLAccountRepo struct{ db *sql.DB }

func NewMySQLAccountRepo(db *sql.DB) *MySQLAccountRepo { return &MySQLAccountRepo{db: db} }

func (r *MySQLAccountRepo) GetByEmail(ctx context.Context, email string) (*usecase.AdminAccount, error) {
	var acc usecase.AdminAccount
	err := r.db.QueryRowContext(ctx, `
SELECT u.id, u.email, u.password_hash, COALESCE(ur.role,'')
FROM admin_users u LEFT JOIN user_roles ur ON ur.user_id = u.id
WHERE u.email=?`, email).Scan(&acc.UserID, &acc.Email, &acc.PasswordHash, &acc.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, usecase.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *MySQLAccountRepo) GetByID(ctx context.Context, userID string) (*usecase.AdminAccount, error) {
	var acc usecase.AdminAccount
	err := r.db.QueryRowContext(ctx, `
SELECT u.id, u.email, u.password_hash, COALESCE(ur.role,'')
FROM admin_users u LEFT JOIN user_roles ur ON ur.user_id = u.id
WHERE u.id=?`, userID).Scan(&acc.UserID, &acc.Email, &acc.PasswordHash, &acc.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, usecase.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *MySQLAccountRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE admin_users SET password_hash=? WHERE id=?`, passwordHash, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

var _ usecase.AccountRepo = (*MySQLAccountRepo)(nil)
