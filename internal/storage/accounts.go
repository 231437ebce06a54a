package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/the-ledger-must-flow/internal/common"
	"github.com/Veraticus/the-ledger-must-flow/internal/model"
)

const accountColumns = `id, code, name, category, sub_category, user_id, is_active, created_at`

// GetAccounts returns the active chart-of-accounts entries visible to the
// user: system-wide accounts plus the user's own.
func (s *SQLiteStorage) GetAccounts(ctx context.Context, userID string) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE is_active = 1 AND (user_id = '' OR user_id = ?)
		ORDER BY code ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}

// GetAccountByID retrieves a single account, consulting the lookup cache first.
func (s *SQLiteStorage) GetAccountByID(ctx context.Context, id int) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	if account, ok := s.cachedAccount(id); ok {
		return account, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`
	account, err := scanAccount(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %d: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	s.cacheAccount(account)
	return account, nil
}

// GetAccountByCode retrieves an account by its chart code within the user's scope.
func (s *SQLiteStorage) GetAccountByCode(ctx context.Context, userID, code string) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(code, "account code"); err != nil {
		return nil, err
	}

	// Prefer the user's own account over a system-wide one with the same code
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE code = ? AND (user_id = '' OR user_id = ?)
		ORDER BY user_id DESC
		LIMIT 1
	`
	account, err := scanAccount(s.db.QueryRowContext(ctx, query, code, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %q: %w", code, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// CreateAccount adds a chart-of-accounts entry.
func (s *SQLiteStorage) CreateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAccount(account); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (code, name, category, sub_category, user_id, is_active)
		VALUES (?, ?, ?, ?, ?, 1)
	`, account.Code, account.Name, account.Category, account.SubCategory, account.UserID)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("account %q already exists in this scope: %w", account.Code, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create account %q: %w", account.Code, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get account ID: %w", err)
	}

	account.ID = int(id)
	account.IsActive = true
	account.CreatedAt = time.Now()
	s.invalidateAccountCache()

	return nil
}

// DeactivateAccount soft-deletes an account. Historical transactions keep
// their reference; the account just stops being suggested.
func (s *SQLiteStorage) DeactivateAccount(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "UPDATE accounts SET is_active = 0 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to deactivate account: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("account %d: %w", id, common.ErrNotFound)
	}

	s.invalidateAccountCache()
	return nil
}

func scanAccount(row rowScanner) (*model.Account, error) {
	var account model.Account
	err := row.Scan(
		&account.ID, &account.Code, &account.Name, &account.Category,
		&account.SubCategory, &account.UserID, &account.IsActive, &account.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}
