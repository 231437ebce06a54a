// Package ai provides the external AI advisor the suggestion pipeline falls
// back to when rules and history leave the suggestion list short. The advisor
// is an injected capability: callers depend on the Advisor interface and tests
// substitute a stub, so the degrade-gracefully behavior is deterministic.
package ai

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/Veraticus/the-ledger-must-flow/internal/model"
)

// Client defines the interface for AI providers.
type Client interface {
	SuggestAccounts(ctx context.Context, prompt string) ([]AccountAdvice, error)
}

// Advisor is the capability the suggestion pipeline depends on.
type Advisor interface {
	SuggestAccounts(ctx context.Context, req Request) ([]AccountAdvice, error)
}

// Request carries the context the advisor needs for one transaction.
type Request struct {
	Description string
	Explanation string
	Accounts    []model.Account
}

// cacheKey derives a stable key for the advice cache.
func (r Request) cacheKey() string {
	hash := sha256.Sum256([]byte(r.Description + "\x00" + r.Explanation))
	return fmt.Sprintf("%x", hash)
}

// AccountAdvice is one account suggestion from the AI provider. Account is
// the provider's account name, matched back to the chart by the caller.
type AccountAdvice struct {
	Account    string  `json:"account"`
	Reasoning  string  `json:"reasoning"`
	Confidence float64 `json:"confidence"`
}
