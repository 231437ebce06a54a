// Package testutil provides shared test doubles for the suggestion pipeline.
package testutil

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/Veraticus/the-ledger-must-flow/internal/common"
	"github.com/Veraticus/the-ledger-must-flow/internal/model"
	"github.com/Veraticus/the-ledger-must-flow/internal/service"
)

// ErrStorageFailure is returned by MemoryStorage when FailReads is set.
var ErrStorageFailure = errors.New("storage failure")

// MemoryStorage is an in-memory service.Storage for tests.
type MemoryStorage struct {
	Transactions []model.Transaction
	Accounts     []model.Account
	Rules        []model.Rule
	nextID       int
	// FailReads makes every read return ErrStorageFailure, for testing
	// data-access failure paths.
	FailReads bool
	mu        sync.Mutex
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{nextID: 1}
}

func (m *MemoryStorage) readErr() error {
	if m.FailReads {
		return ErrStorageFailure
	}
	return nil
}

// SaveTransactions appends transactions, skipping duplicate hashes.
func (m *MemoryStorage) SaveTransactions(_ context.Context, transactions []model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool, len(m.Transactions))
	for _, txn := range m.Transactions {
		seen[txn.Hash] = true
	}
	for _, txn := range transactions {
		if seen[txn.Hash] {
			continue
		}
		seen[txn.Hash] = true
		m.Transactions = append(m.Transactions, txn)
	}
	return nil
}

// GetTransactionByID retrieves a transaction.
func (m *MemoryStorage) GetTransactionByID(_ context.Context, id string) (*model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.readErr(); err != nil {
		return nil, err
	}
	for i := range m.Transactions {
		if m.Transactions[i].ID == id {
			txn := m.Transactions[i]
			return &txn, nil
		}
	}
	return nil, common.ErrNotFound
}

// GetTransactions returns transactions matching the filter, newest first.
func (m *MemoryStorage) GetTransactions(_ context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.readErr(); err != nil {
		return nil, err
	}

	var out []model.Transaction
	for _, txn := range m.Transactions {
		if filter.UserID != "" && txn.UserID != filter.UserID {
			continue
		}
		if filter.StartDate != nil && txn.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && txn.Date.After(*filter.EndDate) {
			continue
		}
		out = append(out, txn)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// GetExplainedTransactions returns the user's explained transactions, newest first.
func (m *MemoryStorage) GetExplainedTransactions(_ context.Context, userID string) ([]model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.readErr(); err != nil {
		return nil, err
	}

	var out []model.Transaction
	for _, txn := range m.Transactions {
		if txn.UserID != userID || !txn.IsExplained() || txn.AccountID == nil {
			continue
		}
		out = append(out, txn)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// SaveExplanation records an explanation and account on a transaction.
func (m *MemoryStorage) SaveExplanation(_ context.Context, transactionID, explanation string, accountID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.Transactions {
		if m.Transactions[i].ID == transactionID {
			m.Transactions[i].Explanation = explanation
			id := accountID
			m.Transactions[i].AccountID = &id
			return nil
		}
	}
	return common.ErrNotFound
}

// GetAccounts returns active accounts visible to the user, sorted by code.
func (m *MemoryStorage) GetAccounts(_ context.Context, userID string) ([]model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.readErr(); err != nil {
		return nil, err
	}

	var out []model.Account
	for _, account := range m.Accounts {
		if account.IsActive && account.VisibleTo(userID) {
			out = append(out, account)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// GetAccountByID retrieves an account.
func (m *MemoryStorage) GetAccountByID(_ context.Context, id int) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.readErr(); err != nil {
		return nil, err
	}
	for i := range m.Accounts {
		if m.Accounts[i].ID == id {
			account := m.Accounts[i]
			return &account, nil
		}
	}
	return nil, common.ErrNotFound
}

// GetAccountByCode retrieves an account by code within the user's scope.
func (m *MemoryStorage) GetAccountByCode(_ context.Context, userID, code string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.readErr(); err != nil {
		return nil, err
	}

	var system *model.Account
	for i := range m.Accounts {
		account := &m.Accounts[i]
		if !strings.EqualFold(account.Code, code) {
			continue
		}
		if account.UserID == userID {
			found := *account
			return &found, nil
		}
		if account.UserID == "" {
			system = account
		}
	}
	if system != nil {
		found := *system
		return &found, nil
	}
	return nil, common.ErrNotFound
}

// CreateAccount adds an account, assigning the next ID.
func (m *MemoryStorage) CreateAccount(_ context.Context, account *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	account.ID = m.nextID
	account.IsActive = true
	m.nextID++
	m.Accounts = append(m.Accounts, *account)
	return nil
}

// DeactivateAccount soft-deletes an account.
func (m *MemoryStorage) DeactivateAccount(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.Accounts {
		if m.Accounts[i].ID == id {
			m.Accounts[i].IsActive = false
			return nil
		}
	}
	return common.ErrNotFound
}

// GetActiveRules returns active rules in priority order.
func (m *MemoryStorage) GetActiveRules(_ context.Context, userID string) ([]model.Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.readErr(); err != nil {
		return nil, err
	}

	var out []model.Rule
	for _, r := range m.Rules {
		if r.IsActive && (r.UserID == "" || r.UserID == userID) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// CreateRule adds a rule, assigning the next ID.
func (m *MemoryStorage) CreateRule(_ context.Context, rule *model.Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rule.ID = m.nextID
	rule.IsActive = true
	m.nextID++
	m.Rules = append(m.Rules, *rule)
	return nil
}

// DeleteRule removes a rule.
func (m *MemoryStorage) DeleteRule(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.Rules {
		if m.Rules[i].ID == id {
			m.Rules = append(m.Rules[:i], m.Rules[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

// IncrementRuleUseCount bumps a rule's use count.
func (m *MemoryStorage) IncrementRuleUseCount(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.Rules {
		if m.Rules[i].ID == id {
			m.Rules[i].UseCount++
			return nil
		}
	}
	return common.ErrNotFound
}

// Migrate is a no-op for the in-memory storage.
func (m *MemoryStorage) Migrate(_ context.Context) error { return nil }

// Close is a no-op for the in-memory storage.
func (m *MemoryStorage) Close() error { return nil }
