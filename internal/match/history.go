package match

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/the-ledger-must-flow/internal/model"
	"github.com/Veraticus/the-ledger-must-flow/internal/service"
)

// Ranking weights. Similarity dominates; frequency rewards explanations the
// user keeps reusing, saturating at maxFrequency occurrences.
const (
	DefaultThreshold = 0.7

	similarityWeight = 0.7
	frequencyWeight  = 0.3
	maxFrequency     = 5

	// indexBoost nudges candidates whose account the TF-IDF index also
	// predicts for the incoming description.
	indexBoost = 0.05
)

// Candidate is a grouped match from previously explained transactions.
type Candidate struct {
	LastSeen    time.Time
	Explanation string
	Account     model.Account
	Score       float64
	Occurrences int

	rank float64
}

// Matcher finds candidate explanations for a new description by scanning the
// user's previously explained transactions.
type Matcher struct {
	store     service.Storage
	logger    *slog.Logger
	threshold float64
}

// NewMatcher creates a history matcher. A non-positive threshold falls back
// to DefaultThreshold.
func NewMatcher(store service.Storage, threshold float64, logger *slog.Logger) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{store: store, threshold: threshold, logger: logger}
}

// FindCandidates returns candidates whose descriptions score at or above the
// matcher's threshold, grouped by (explanation, account) and ranked by a
// weighted combination of similarity and occurrence frequency. Ties break on
// most recent date. An empty scope yields an empty result, never an error.
func (m *Matcher) FindCandidates(ctx context.Context, description, userID string) ([]Candidate, error) {
	explained, err := m.store.GetExplainedTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load explained transactions: %w", err)
	}
	if len(explained) == 0 {
		return nil, nil
	}

	accountList, err := m.store.GetAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	accounts := make(map[int]model.Account, len(accountList))
	for _, account := range accountList {
		accounts[account.ID] = account
	}

	type groupKey struct {
		explanation string
		accountID   int
	}
	groups := make(map[groupKey]*Candidate)

	for _, txn := range explained {
		if txn.AccountID == nil {
			continue
		}
		account, ok := accounts[*txn.AccountID]
		if !ok {
			// Account was deactivated since the transaction was explained
			continue
		}

		score := Score(description, txn.Description)
		if score < m.threshold {
			continue
		}

		key := groupKey{
			explanation: strings.ToLower(strings.TrimSpace(txn.Explanation)),
			accountID:   account.ID,
		}

		candidate, ok := groups[key]
		if !ok {
			groups[key] = &Candidate{
				Explanation: strings.TrimSpace(txn.Explanation),
				Account:     account,
				Score:       score,
				Occurrences: 1,
				LastSeen:    txn.Date,
			}
			continue
		}

		candidate.Occurrences++
		if score > candidate.Score {
			candidate.Score = score
		}
		if txn.Date.After(candidate.LastSeen) {
			candidate.LastSeen = txn.Date
		}
	}

	if len(groups) == 0 {
		return nil, nil
	}

	index := NewIndex(explained, accounts)
	predicted := index.TopAccount(description)

	candidates := make([]Candidate, 0, len(groups))
	for _, candidate := range groups {
		frequency := float64(candidate.Occurrences) / maxFrequency
		if frequency > 1.0 {
			frequency = 1.0
		}

		candidate.rank = similarityWeight*candidate.Score + frequencyWeight*frequency
		if predicted != "" && candidate.Account.Name == predicted {
			candidate.rank += indexBoost
		}

		candidates = append(candidates, *candidate)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].rank != candidates[j].rank {
			return candidates[i].rank > candidates[j].rank
		}
		return candidates[i].LastSeen.After(candidates[j].LastSeen)
	})

	m.logger.Debug("history matching complete",
		"description", description,
		"scanned", len(explained),
		"candidates", len(candidates))

	return candidates, nil
}
