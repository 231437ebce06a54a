// Package rule implements the keyword rule engine consulted before
// statistical matching.
package rule

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/Veraticus/the-ledger-must-flow/internal/model"
)

// Engine evaluates descriptions against user-authored keyword rules.
type Engine struct {
	compiledRegex map[int]*regexp.Regexp
	rules         []model.Rule
}

// NewEngine creates a rule engine over the given rules. Rules are evaluated
// in priority order (highest first, ties by ID); regex patterns are
// pre-compiled and invalid patterns are skipped.
func NewEngine(rules []model.Rule) *Engine {
	sorted := make([]model.Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority > sorted[j].Priority
		}
		return sorted[i].ID < sorted[j].ID
	})

	e := &Engine{
		rules:         sorted,
		compiledRegex: make(map[int]*regexp.Regexp),
	}

	for _, r := range sorted {
		if r.IsRegex && r.Keyword != "" {
			if re, err := regexp.Compile("(?i)" + r.Keyword); err == nil {
				e.compiledRegex[r.ID] = re
			}
		}
	}

	return e
}

// Match returns the first active rule whose keyword appears in the
// description. Matching is binary: a rule either matches or it doesn't, and
// the highest-priority match wins. Returns nil when no rule matches.
func (e *Engine) Match(_ context.Context, description string) *model.Rule {
	haystack := strings.ToLower(description)
	if strings.TrimSpace(haystack) == "" {
		return nil
	}

	for i := range e.rules {
		r := &e.rules[i]
		if !r.IsActive {
			continue
		}

		if e.matchesRule(haystack, r) {
			matched := *r
			return &matched
		}
	}

	return nil
}

// matchesRule checks one rule against a lowercased description.
func (e *Engine) matchesRule(haystack string, r *model.Rule) bool {
	if r.Keyword == "" {
		return false
	}

	if r.IsRegex {
		re, ok := e.compiledRegex[r.ID]
		return ok && re.MatchString(haystack)
	}

	return strings.Contains(haystack, strings.ToLower(r.Keyword))
}
