// Package storage implements the persistence layer on SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Veraticus/the-ledger-must-flow/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// accountCacheTTL bounds how long the account lookup cache is trusted.
const accountCacheTTL = 5 * time.Minute

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	cacheExpiry  time.Time
	db           *sql.DB
	accountCache map[int]*model.Account
	dbPath       string
	cacheMutex   sync.RWMutex
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:           db,
		dbPath:       dbPath,
		accountCache: make(map[int]*model.Account),
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// cachedAccount returns an account from the lookup cache if it is still fresh.
func (s *SQLiteStorage) cachedAccount(id int) (*model.Account, bool) {
	s.cacheMutex.RLock()
	defer s.cacheMutex.RUnlock()

	if time.Now().After(s.cacheExpiry) {
		return nil, false
	}
	account, ok := s.accountCache[id]
	return account, ok
}

// cacheAccount stores an account in the lookup cache.
func (s *SQLiteStorage) cacheAccount(account *model.Account) {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()

	if time.Now().After(s.cacheExpiry) {
		s.accountCache = make(map[int]*model.Account)
		s.cacheExpiry = time.Now().Add(accountCacheTTL)
	}
	s.accountCache[account.ID] = account
}

// invalidateAccountCache drops the lookup cache after account writes.
func (s *SQLiteStorage) invalidateAccountCache() {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()
	s.accountCache = make(map[int]*model.Account)
	s.cacheExpiry = time.Time{}
}

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context is required")
	}
	return ctx.Err()
}
