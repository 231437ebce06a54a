package server

import (
	"time"

	"github.com/Veraticus/the-ledger-must-flow/internal/match"
	"github.com/Veraticus/the-ledger-must-flow/internal/model"
)

// suggestRequest is the body of POST /api/v1/suggestions and /explanations.
type suggestRequest struct {
	Description string `json:"description"`
	Explanation string `json:"explanation"`
}

// accountRef identifies an account in responses.
type accountRef struct {
	Code string `json:"code"`
	Name string `json:"name"`
	ID   int    `json:"id"`
}

// suggestionResponse is one entry of the suggestions response array. RuleID
// is set on rule-sourced suggestions so the client can echo it back when the
// user confirms the explanation.
type suggestionResponse struct {
	Account    accountRef `json:"account"`
	RuleID     *int       `json:"rule_id,omitempty"`
	Reasoning  string     `json:"reasoning"`
	Source     string     `json:"source"`
	Confidence float64    `json:"confidence"`
}

// explanationSaveRequest is the body of PUT /api/v1/transactions/:id/explanation.
// RuleID, when non-zero, names the rule whose suggestion the user accepted.
type explanationSaveRequest struct {
	Explanation string `json:"explanation"`
	AccountID   int    `json:"account_id"`
	RuleID      int    `json:"rule_id"`
}

// explanationResponse is one entry of the explanations response array.
type explanationResponse struct {
	LastSeen    time.Time  `json:"last_seen"`
	Explanation string     `json:"explanation"`
	Account     accountRef `json:"account"`
	Score       float64    `json:"score"`
	Occurrences int        `json:"occurrence_count"`
}

// accountResponse is one entry of the accounts response array.
type accountResponse struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	SubCategory string `json:"sub_category,omitempty"`
	ID          int    `json:"id"`
}

func toAccountRef(account model.Account) accountRef {
	return accountRef{ID: account.ID, Code: account.Code, Name: account.Name}
}

func toSuggestionResponses(suggestions model.Suggestions) []suggestionResponse {
	out := make([]suggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, suggestionResponse{
			Account:    toAccountRef(s.Account),
			RuleID:     s.RuleID,
			Confidence: s.Confidence,
			Reasoning:  s.Reasoning,
			Source:     string(s.Source),
		})
	}
	return out
}

func toExplanationResponses(candidates []match.Candidate) []explanationResponse {
	out := make([]explanationResponse, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, explanationResponse{
			Explanation: c.Explanation,
			Account:     toAccountRef(c.Account),
			Score:       c.Score,
			Occurrences: c.Occurrences,
			LastSeen:    c.LastSeen,
		})
	}
	return out
}
