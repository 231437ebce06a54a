package testutil

import (
	"context"
	"sync"

	"github.com/Veraticus/the-ledger-must-flow/internal/ai"
)

// StubAdvisor is a deterministic ai.Advisor for tests.
type StubAdvisor struct {
	Err    error
	Advice []ai.AccountAdvice
	calls  int
	mu     sync.Mutex
}

// SuggestAccounts returns the configured advice or error.
func (s *StubAdvisor) SuggestAccounts(_ context.Context, _ ai.Request) ([]ai.AccountAdvice, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	return s.Advice, nil
}

// Calls reports how many times the advisor was consulted.
func (s *StubAdvisor) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
