package model

import "time"

// Rule maps a description keyword to a chart-of-accounts entry. Rules are
// user-authored and consulted in priority order before statistical matching.
type Rule struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	Keyword   string
	UserID    string
	ID        int
	AccountID int
	Priority  int
	UseCount  int
	IsActive  bool
	IsRegex   bool
}
