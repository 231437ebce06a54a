// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/the-ledger-must-flow/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	UserID    string
	Limit     int
	Offset    int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	// GetExplainedTransactions returns the user's transactions that carry a
	// non-empty explanation and a confirmed account, newest first.
	GetExplainedTransactions(ctx context.Context, userID string) ([]model.Transaction, error)
	// SaveExplanation records a user-confirmed explanation and account for a
	// transaction. This is the only write path that mutates a transaction's
	// account; the suggestion pipeline never does.
	SaveExplanation(ctx context.Context, transactionID, explanation string, accountID int) error

	// Account operations
	GetAccounts(ctx context.Context, userID string) ([]model.Account, error)
	GetAccountByID(ctx context.Context, id int) (*model.Account, error)
	GetAccountByCode(ctx context.Context, userID, code string) (*model.Account, error)
	CreateAccount(ctx context.Context, account *model.Account) error
	DeactivateAccount(ctx context.Context, id int) error

	// Rule operations
	GetActiveRules(ctx context.Context, userID string) ([]model.Rule, error)
	CreateRule(ctx context.Context, rule *model.Rule) error
	DeleteRule(ctx context.Context, id int) error
	IncrementRuleUseCount(ctx context.Context, id int) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
