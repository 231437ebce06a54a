package match

import (
	"regexp"
	"strings"

	"github.com/jbrukh/bayesian"

	"github.com/Veraticus/the-ledger-must-flow/internal/model"
)

var lettersOnly = regexp.MustCompile("[^a-zA-Z]+")

// Index is a rebuildable TF-IDF naive Bayes index over a user's explained
// transactions. It is constructed per request from the scope's rows, never
// shared across requests, and used to boost candidates whose account the
// classifier also predicts for the incoming description.
type Index struct {
	classifier *bayesian.Classifier
	classes    []bayesian.Class
}

// NewIndex trains an index from explained transactions. Accounts maps account
// IDs to their chart entries. Returns nil when fewer than two distinct
// accounts are represented; the bayesian classifier needs at least two classes.
func NewIndex(txns []model.Transaction, accounts map[int]model.Account) *Index {
	classSet := make(map[string]bool)
	for _, txn := range txns {
		if txn.AccountID == nil {
			continue
		}
		account, ok := accounts[*txn.AccountID]
		if !ok {
			continue
		}
		classSet[account.Name] = true
	}

	if len(classSet) < 2 {
		return nil
	}

	classes := make([]bayesian.Class, 0, len(classSet))
	for name := range classSet {
		classes = append(classes, bayesian.Class(name))
	}

	classifier := bayesian.NewClassifierTfIdf(classes...)
	for _, txn := range txns {
		if txn.AccountID == nil {
			continue
		}
		account, ok := accounts[*txn.AccountID]
		if !ok {
			continue
		}
		classifier.Learn(indexTerms(txn.Description), bayesian.Class(account.Name))
	}
	classifier.ConvertTermsFreqToTfIdf()

	return &Index{classifier: classifier, classes: classes}
}

// TopAccount returns the account name the index considers the best fit for
// the description, or "" when the index has no opinion.
func (ix *Index) TopAccount(description string) string {
	if ix == nil {
		return ""
	}

	terms := indexTerms(description)
	if len(terms) == 0 {
		return ""
	}

	_, best, _ := ix.classifier.LogScores(terms)
	if best < 0 || best >= len(ix.classes) {
		return ""
	}
	return string(ix.classes[best])
}

// indexTerms splits a description into lowercase alphabetic terms for training
// and scoring.
func indexTerms(description string) []string {
	cleaned := lettersOnly.ReplaceAllString(strings.ToLower(description), " ")
	return strings.Fields(cleaned)
}
