// Package suggest combines rule matches, history matches, and AI advice into
// a ranked list of account suggestions for a transaction.
package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/the-ledger-must-flow/internal/ai"
	"github.com/Veraticus/the-ledger-must-flow/internal/common"
	"github.com/Veraticus/the-ledger-must-flow/internal/match"
	"github.com/Veraticus/the-ledger-must-flow/internal/model"
	"github.com/Veraticus/the-ledger-must-flow/internal/rule"
	"github.com/Veraticus/the-ledger-must-flow/internal/service"
)

// Config carries the tunable thresholds of the pipeline.
type Config struct {
	// MaxSuggestions caps the returned list.
	MaxSuggestions int
	// MatchThreshold is the minimum similarity for a history candidate.
	MatchThreshold float64
	// StrongMatch is the confidence at which a suggestion is considered
	// good enough to skip the AI fallback.
	StrongMatch float64
	// AIConfidence is assigned to AI suggestions that carry no confidence
	// of their own.
	AIConfidence float64
}

// DefaultConfig returns the pipeline defaults.
func DefaultConfig() Config {
	return Config{
		MaxSuggestions: 5,
		MatchThreshold: match.DefaultThreshold,
		StrongMatch:    0.8,
		AIConfidence:   0.6,
	}
}

// normalized fills unset fields with defaults.
func (c Config) normalized() Config {
	defaults := DefaultConfig()
	if c.MaxSuggestions <= 0 {
		c.MaxSuggestions = defaults.MaxSuggestions
	}
	if c.MatchThreshold <= 0 {
		c.MatchThreshold = defaults.MatchThreshold
	}
	if c.StrongMatch <= 0 {
		c.StrongMatch = defaults.StrongMatch
	}
	if c.AIConfidence <= 0 {
		c.AIConfidence = defaults.AIConfidence
	}
	return c
}

// Orchestrator sequences the pipeline for one transaction: rule engine,
// history matcher, then the AI advisor when the first two leave the list
// short. It is stateless across requests; a request handler calls Suggest
// once per transaction.
type Orchestrator struct {
	store   service.Storage
	history *match.Matcher
	advisor ai.Advisor
	logger  *slog.Logger
	cfg     Config
}

// New creates an orchestrator. The advisor may be nil, in which case the
// pipeline runs on rules and history alone.
func New(store service.Storage, history *match.Matcher, advisor ai.Advisor, cfg Config, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		store:   store,
		history: history,
		advisor: advisor,
		logger:  logger,
		cfg:     cfg.normalized(),
	}
}

// Suggest returns up to MaxSuggestions account suggestions for a description,
// ranked by confidence, at most one per account. Suggestions never mutate the
// transaction; only an explicit save does. An empty description is rejected;
// storage failures are fatal; advisor failures degrade to whatever the rules
// and history produced.
func (o *Orchestrator) Suggest(ctx context.Context, description, explanation, userID string) (model.Suggestions, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("description is required: %w", common.ErrInvalidInput)
	}

	accounts, err := o.store.GetAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	var suggestions model.Suggestions

	// Stage 1: keyword rules. First match wins, confidence 1.0.
	ruleMatch, err := o.matchRule(ctx, description, userID, accounts)
	if err != nil {
		return nil, err
	}
	if ruleMatch != nil {
		suggestions = append(suggestions, *ruleMatch)
	}

	// Stage 2: previously explained transactions.
	candidates, err := o.history.FindCandidates(ctx, description, userID)
	if err != nil {
		return nil, err
	}
	for _, candidate := range candidates {
		suggestions = append(suggestions, model.Suggestion{
			Account:    candidate.Account,
			Confidence: candidate.Score,
			Source:     model.SourceHistory,
			Reasoning:  historyReason(candidate),
		})
	}

	// Stage 3: AI fallback, only when rules and history leave the list short.
	if o.needsAdvice(suggestions) {
		suggestions = append(suggestions, o.askAdvisor(ctx, description, explanation, accounts)...)
	}

	suggestions = suggestions.DedupeByAccount().TopN(o.cfg.MaxSuggestions)

	o.logger.Debug("suggestion pipeline complete",
		"description", description,
		"user", userID,
		"suggestions", len(suggestions))

	return suggestions, nil
}

// SimilarExplanations returns past transactions whose descriptions resemble
// the given one, for explanation recognition. Thin wrapper over the history
// matcher used by the explanations endpoint.
func (o *Orchestrator) SimilarExplanations(ctx context.Context, description, userID string) ([]match.Candidate, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("description is required: %w", common.ErrInvalidInput)
	}
	return o.history.FindCandidates(ctx, description, userID)
}

// matchRule runs the rule engine and shapes its result as a suggestion.
func (o *Orchestrator) matchRule(ctx context.Context, description, userID string, accounts []model.Account) (*model.Suggestion, error) {
	rules, err := o.store.GetActiveRules(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	if len(rules) == 0 {
		return nil, nil
	}

	matched := rule.NewEngine(rules).Match(ctx, description)
	if matched == nil {
		return nil, nil
	}

	account, ok := findAccountByID(accounts, matched.AccountID)
	if !ok {
		// Rule points at an account no longer visible in this scope
		o.logger.Warn("rule references unavailable account",
			"rule_id", matched.ID,
			"account_id", matched.AccountID)
		return nil, nil
	}

	ruleID := matched.ID
	return &model.Suggestion{
		Account:    account,
		Confidence: 1.0,
		Source:     model.SourceRule,
		RuleID:     &ruleID,
		Reasoning:  fmt.Sprintf("Description contains %q, which is mapped to %s", matched.Keyword, account.Name),
	}, nil
}

// needsAdvice reports whether too few suggestions clear the strong-match bar.
func (o *Orchestrator) needsAdvice(suggestions model.Suggestions) bool {
	if o.advisor == nil {
		return false
	}

	strong := 0
	for _, s := range suggestions {
		if s.Confidence >= o.cfg.StrongMatch {
			strong++
		}
	}
	return strong < o.cfg.MaxSuggestions
}

// askAdvisor consults the AI advisor. Failures of any kind are logged and
// swallowed: the caller keeps whatever rules and history already produced.
func (o *Orchestrator) askAdvisor(ctx context.Context, description, explanation string, accounts []model.Account) model.Suggestions {
	advice, err := o.advisor.SuggestAccounts(ctx, ai.Request{
		Description: description,
		Explanation: explanation,
		Accounts:    accounts,
	})
	if err != nil {
		o.logger.Warn("advisor unavailable, continuing without AI suggestions",
			"description", description,
			"error", err)
		return nil
	}

	var suggestions model.Suggestions
	for _, entry := range advice {
		account, ok := findAccountByName(accounts, entry.Account)
		if !ok {
			// The provider invented an account; skip it
			o.logger.Debug("dropping advice for unknown account", "account", entry.Account)
			continue
		}

		confidence := entry.Confidence
		if confidence == 0 {
			confidence = o.cfg.AIConfidence
		}

		reasoning := entry.Reasoning
		if reasoning == "" {
			reasoning = fmt.Sprintf("Suggested by AI analysis of %q", description)
		}

		suggestions = append(suggestions, model.Suggestion{
			Account:    account,
			Confidence: confidence,
			Source:     model.SourceAI,
			Reasoning:  reasoning,
		})
	}

	return suggestions
}

// historyReason creates a human-readable explanation for a history suggestion.
func historyReason(candidate match.Candidate) string {
	if candidate.Occurrences == 1 {
		return fmt.Sprintf("A similar transaction was explained as %q and posted to %s",
			candidate.Explanation, candidate.Account.Name)
	}
	return fmt.Sprintf("%d similar transactions were explained as %q and posted to %s",
		candidate.Occurrences, candidate.Explanation, candidate.Account.Name)
}

func findAccountByID(accounts []model.Account, id int) (model.Account, bool) {
	for _, account := range accounts {
		if account.ID == id {
			return account, true
		}
	}
	return model.Account{}, false
}

func findAccountByName(accounts []model.Account, name string) (model.Account, bool) {
	for _, account := range accounts {
		if strings.EqualFold(account.Name, name) {
			return account, true
		}
	}
	return model.Account{}, false
}
