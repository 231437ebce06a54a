package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/the-ledger-must-flow/internal/common"
	"github.com/Veraticus/the-ledger-must-flow/internal/model"
)

// CreateRule adds a keyword rule. The target account must exist and be active.
func (s *SQLiteStorage) CreateRule(ctx context.Context, rule *model.Rule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRule(rule); err != nil {
		return err
	}

	var accountCount int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM accounts WHERE id = ? AND is_active = 1",
		rule.AccountID).Scan(&accountCount)
	if err != nil {
		return fmt.Errorf("failed to verify account: %w", err)
	}
	if accountCount == 0 {
		return fmt.Errorf("account %d does not exist or is inactive", rule.AccountID)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO rules (keyword, is_regex, account_id, priority, is_active, user_id)
		VALUES (?, ?, ?, ?, 1, ?)
	`, rule.Keyword, rule.IsRegex, rule.AccountID, rule.Priority, rule.UserID)
	if err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get rule ID: %w", err)
	}

	rule.ID = int(id)
	rule.IsActive = true
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = time.Now()

	return nil
}

// GetActiveRules retrieves the user's active rules plus system-wide ones,
// ordered by priority (highest first, ties by insertion order).
func (s *SQLiteStorage) GetActiveRules(ctx context.Context, userID string) ([]model.Rule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, keyword, is_regex, account_id, priority, use_count, is_active,
			user_id, created_at, updated_at
		FROM rules
		WHERE is_active = 1 AND (user_id = '' OR user_id = ?)
		ORDER BY priority DESC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rules []model.Rule
	for rows.Next() {
		var rule model.Rule
		err := rows.Scan(
			&rule.ID, &rule.Keyword, &rule.IsRegex, &rule.AccountID,
			&rule.Priority, &rule.UseCount, &rule.IsActive,
			&rule.UserID, &rule.CreatedAt, &rule.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rules: %w", err)
	}

	return rules, nil
}

// DeleteRule removes a rule permanently.
func (s *SQLiteStorage) DeleteRule(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM rules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("rule %d: %w", id, common.ErrNotFound)
	}

	return nil
}

// IncrementRuleUseCount records that a rule produced a confirmed suggestion.
func (s *SQLiteStorage) IncrementRuleUseCount(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		"UPDATE rules SET use_count = use_count + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		id)
	if err != nil {
		return fmt.Errorf("failed to increment rule use count: %w", err)
	}

	return nil
}
