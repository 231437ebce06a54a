package storage

import (
	"fmt"
	"strings"

	"github.com/Veraticus/the-ledger-must-flow/internal/model"
)

// validateString ensures a required string field is non-empty.
func validateString(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// validateTransaction ensures a transaction is complete enough to persist.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("transaction is required")
	}
	if err := validateString(txn.ID, "transaction ID"); err != nil {
		return err
	}
	if err := validateString(txn.Hash, "transaction hash"); err != nil {
		return err
	}
	if err := validateString(txn.Description, "transaction description"); err != nil {
		return err
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("transaction date is required")
	}
	return nil
}

// validateTransactions validates a batch before a bulk insert.
func validateTransactions(txns []model.Transaction) error {
	if len(txns) == 0 {
		return fmt.Errorf("no transactions to save")
	}
	for i := range txns {
		if err := validateTransaction(&txns[i]); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateAccount ensures an account is complete enough to persist.
func validateAccount(account *model.Account) error {
	if account == nil {
		return fmt.Errorf("account is required")
	}
	if err := validateString(account.Code, "account code"); err != nil {
		return err
	}
	if err := validateString(account.Name, "account name"); err != nil {
		return err
	}
	if err := validateString(account.Category, "account category"); err != nil {
		return err
	}
	return nil
}

// validateRule ensures a rule is complete enough to persist.
func validateRule(rule *model.Rule) error {
	if rule == nil {
		return fmt.Errorf("rule is required")
	}
	if err := validateString(rule.Keyword, "rule keyword"); err != nil {
		return err
	}
	if rule.AccountID == 0 {
		return fmt.Errorf("rule account is required")
	}
	return nil
}
