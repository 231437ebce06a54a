package model

import (
	"fmt"
	"sort"
)

// SuggestionSource indicates which stage of the pipeline produced a suggestion.
type SuggestionSource string

// Suggestion source constants.
const (
	// SourceRule marks a suggestion produced by a keyword rule match.
	SourceRule SuggestionSource = "rule"
	// SourceHistory marks a suggestion derived from previously explained transactions.
	SourceHistory SuggestionSource = "history"
	// SourceAI marks a suggestion returned by the external AI advisor.
	SourceAI SuggestionSource = "ai"
)

// Suggestion is a candidate account for a transaction. Suggestions are
// produced per request and discarded after the response; they never mutate
// the transaction themselves.
type Suggestion struct {
	Account    Account
	Reasoning  string
	Source     SuggestionSource
	RuleID     *int
	Confidence float64
}

// Validate ensures the Suggestion has valid data.
func (s *Suggestion) Validate() error {
	if s.Account.ID == 0 {
		return fmt.Errorf("suggestion must reference an account")
	}

	if s.Confidence < 0.0 || s.Confidence > 1.0 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0, got %.2f", s.Confidence)
	}

	switch s.Source {
	case SourceRule, SourceHistory, SourceAI:
	default:
		return fmt.Errorf("unknown suggestion source %q", s.Source)
	}

	return nil
}

// Suggestions is a slice of Suggestion that supports sorting and utility methods.
type Suggestions []Suggestion

// Len implements sort.Interface.
func (s Suggestions) Len() int {
	return len(s)
}

// Less implements sort.Interface - higher confidence comes first.
func (s Suggestions) Less(i, j int) bool {
	if s[i].Confidence != s[j].Confidence {
		return s[i].Confidence > s[j].Confidence
	}
	// Equal confidence sorts by account name for consistency
	return s[i].Account.Name < s[j].Account.Name
}

// Swap implements sort.Interface.
func (s Suggestions) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

// Sort sorts the suggestions by confidence in descending order.
func (s Suggestions) Sort() {
	sort.Sort(s)
}

// Top returns the highest-confidence suggestion, or nil if empty.
func (s Suggestions) Top() *Suggestion {
	if len(s) == 0 {
		return nil
	}
	s.Sort()
	return &s[0]
}

// TopN returns the N highest-confidence suggestions.
func (s Suggestions) TopN(n int) Suggestions {
	if n <= 0 {
		return Suggestions{}
	}

	s.Sort()

	if n > len(s) {
		n = len(s)
	}

	result := make(Suggestions, n)
	copy(result, s[:n])
	return result
}

// DedupeByAccount keeps only the highest-confidence suggestion per account.
// Order among the survivors follows Sort.
func (s Suggestions) DedupeByAccount() Suggestions {
	s.Sort()

	seen := make(map[int]bool, len(s))
	result := make(Suggestions, 0, len(s))
	for _, suggestion := range s {
		if seen[suggestion.Account.ID] {
			continue
		}
		seen[suggestion.Account.ID] = true
		result = append(result, suggestion)
	}
	return result
}

// Validate ensures all suggestions in the slice are valid and that no account
// appears twice.
func (s Suggestions) Validate() error {
	seen := make(map[int]bool)

	for i, suggestion := range s {
		if err := suggestion.Validate(); err != nil {
			return fmt.Errorf("invalid suggestion at index %d: %w", i, err)
		}

		if seen[suggestion.Account.ID] {
			return fmt.Errorf("duplicate account %q in suggestions", suggestion.Account.Name)
		}
		seen[suggestion.Account.ID] = true
	}

	return nil
}
