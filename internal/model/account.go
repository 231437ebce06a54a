package model

import "time"

// Account represents a chart-of-accounts entry that transactions are posted
// against. An empty UserID marks a system-wide account visible to everyone.
type Account struct {
	CreatedAt   time.Time
	Code        string
	Name        string
	Category    string
	SubCategory string
	UserID      string
	ID          int
	IsActive    bool
}

// VisibleTo reports whether the account may be suggested for the given user.
func (a *Account) VisibleTo(userID string) bool {
	return a.UserID == "" || a.UserID == userID
}
