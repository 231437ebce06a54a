// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"
)

// Transaction represents a single bank statement line for one user.
type Transaction struct {
	Date        time.Time
	ID          string
	Description string // Raw statement description
	Explanation string // User-supplied note, empty until explained
	UserID      string
	Hash        string
	SourceAcct  string // Bank account the statement line came from
	AccountID   *int   // Confirmed chart-of-accounts entry, nil until posted
	Amount      float64
}

// GenerateHash creates a unique hash for duplicate detection on import.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Description,
		t.SourceAcct,
		t.UserID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// IsExplained reports whether the transaction carries a usable explanation.
func (t *Transaction) IsExplained() bool {
	return strings.TrimSpace(t.Explanation) != ""
}
