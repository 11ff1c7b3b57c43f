package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"fasilitas/internal/models"
)

const accountColumns = `id, username, password, name, role, created_at, updated_at`

func (db *DB) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.Role == "" {
		account.Role = models.RoleUser
	}
	query := `INSERT INTO accounts (username, password, name, role, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		account.Username, account.Password, account.Name, account.Role, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	account.ID = id
	account.CreatedAt = now
	account.UpdatedAt = now
	return nil
}

func (db *DB) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`
	return db.queryAccount(ctx, query, id)
}

func (db *DB) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = ?`
	return db.queryAccount(ctx, query, username)
}

// VerifyAccount checks a username/password pair. Credentials are compared as
// exact strings, the way the roster stores them.
func (db *DB) VerifyAccount(ctx context.Context, username, password string) (*models.Account, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = ? AND password = ?`
	return db.queryAccount(ctx, query, username, password)
}

func (db *DB) queryAccount(ctx context.Context, query string, args ...any) (*models.Account, error) {
	var a models.Account
	err := db.QueryRowContext(ctx, query, args...).Scan(
		&a.ID, &a.Username, &a.Password, &a.Name, &a.Role, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return &a, nil
}

func (db *DB) ListAccounts(ctx context.Context) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY username, name`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Username, &a.Password, &a.Name, &a.Role, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}

func (db *DB) UpdateAccount(ctx context.Context, account *models.Account) error {
	query := `UPDATE accounts SET username = ?, password = ?, name = ?, role = ?, updated_at = ? WHERE id = ?`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		account.Username, account.Password, account.Name, account.Role, now, account.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	account.UpdatedAt = now
	return nil
}

func (db *DB) DeleteAccount(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceAccounts swaps the directory contents for a fresh roster, keeping
// admin rows intact. Used by the CSV import.
func (db *DB) ReplaceAccounts(ctx context.Context, accounts []models.Account) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE role != ?`, models.RoleAdmin); err != nil {
		return 0, fmt.Errorf("failed to clear accounts: %w", err)
	}

	query := `INSERT OR REPLACE INTO accounts (username, password, name, role, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	now := time.Now()
	imported := 0
	for _, a := range accounts {
		if a.Username == "" || a.Password == "" || a.Name == "" {
			continue
		}
		role := a.Role
		if role == "" {
			role = models.RoleUser
		}
		if _, err := tx.ExecContext(ctx, query, a.Username, a.Password, a.Name, role, now, now); err != nil {
			return 0, fmt.Errorf("failed to import account %s: %w", a.Username, err)
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit account import: %w", err)
	}
	return imported, nil
}
