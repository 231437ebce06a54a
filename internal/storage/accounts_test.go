package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/the-ledger-must-flow/internal/common"
	"github.com/Veraticus/the-ledger-must-flow/internal/model"
)

func TestCreateAccount(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	account := model.Account{
		Code:        "5100",
		Name:        "Groceries",
		Category:    "Expenses",
		SubCategory: "Food",
	}
	if err := store.CreateAccount(ctx, &account); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if account.ID == 0 {
		t.Error("Expected CreateAccount to assign an ID")
	}
	if !account.IsActive {
		t.Error("Expected new account to be active")
	}

	t.Run("duplicate code in same scope rejected", func(t *testing.T) {
		dup := model.Account{Code: "5100", Name: "Other", Category: "Expenses"}
		if err := store.CreateAccount(ctx, &dup); err == nil {
			t.Error("Expected unique constraint violation")
		}
	})

	t.Run("same code allowed in another scope", func(t *testing.T) {
		scoped := model.Account{Code: "5100", Name: "Alice Groceries", Category: "Expenses", UserID: "alice"}
		if err := store.CreateAccount(ctx, &scoped); err != nil {
			t.Errorf("CreateAccount failed for user scope: %v", err)
		}
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		for _, bad := range []model.Account{
			{Name: "No Code", Category: "Expenses"},
			{Code: "1", Category: "Expenses"},
			{Code: "1", Name: "No Category"},
		} {
			if err := store.CreateAccount(ctx, &bad); err == nil {
				t.Errorf("Expected validation error for %+v", bad)
			}
		}
	})
}

func TestGetAccountsScoping(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	createTestAccount(t, store, "1000", "Checking", "")
	createTestAccount(t, store, "5100", "Groceries", "")
	createTestAccount(t, store, "5200", "Alice Hobby", "alice")
	createTestAccount(t, store, "5300", "Bob Hobby", "bob")

	alice, err := store.GetAccounts(ctx, "alice")
	if err != nil {
		t.Fatalf("GetAccounts failed: %v", err)
	}
	if len(alice) != 3 {
		t.Errorf("Expected 3 accounts visible to alice, got %d", len(alice))
	}
	for _, account := range alice {
		if account.UserID == "bob" {
			t.Errorf("Bob's account leaked into alice's view: %+v", account)
		}
	}

	// Ordered by code
	for i := 1; i < len(alice); i++ {
		if alice[i-1].Code > alice[i].Code {
			t.Errorf("Accounts not ordered by code at index %d", i)
		}
	}

	system, err := store.GetAccounts(ctx, "")
	if err != nil {
		t.Fatalf("GetAccounts failed: %v", err)
	}
	if len(system) != 2 {
		t.Errorf("Expected 2 system accounts, got %d", len(system))
	}
}

func TestGetAccountByID(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	created := createTestAccount(t, store, "5100", "Groceries", "")

	got, err := store.GetAccountByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetAccountByID failed: %v", err)
	}
	if got.Name != "Groceries" {
		t.Errorf("Name = %q", got.Name)
	}

	// Second lookup is served from the cache
	again, err := store.GetAccountByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("Cached GetAccountByID failed: %v", err)
	}
	if again.ID != created.ID {
		t.Errorf("Cached account ID = %d", again.ID)
	}

	_, err = store.GetAccountByID(ctx, 9999)
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestGetAccountByCodePrefersUserScope(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	createTestAccount(t, store, "5100", "System Groceries", "")
	createTestAccount(t, store, "5100", "Alice Groceries", "alice")

	got, err := store.GetAccountByCode(ctx, "alice", "5100")
	if err != nil {
		t.Fatalf("GetAccountByCode failed: %v", err)
	}
	if got.Name != "Alice Groceries" {
		t.Errorf("Expected the user's own account, got %q", got.Name)
	}

	system, err := store.GetAccountByCode(ctx, "bob", "5100")
	if err != nil {
		t.Fatalf("GetAccountByCode failed: %v", err)
	}
	if system.Name != "System Groceries" {
		t.Errorf("Expected the system account for bob, got %q", system.Name)
	}

	_, err = store.GetAccountByCode(ctx, "alice", "9999")
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeactivateAccount(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	account := createTestAccount(t, store, "5100", "Groceries", "")

	if err := store.DeactivateAccount(ctx, account.ID); err != nil {
		t.Fatalf("DeactivateAccount failed: %v", err)
	}

	accounts, err := store.GetAccounts(ctx, "")
	if err != nil {
		t.Fatalf("GetAccounts failed: %v", err)
	}
	if len(accounts) != 0 {
		t.Errorf("Expected deactivated account to be hidden, got %d accounts", len(accounts))
	}

	// The row survives for historical references
	got, err := store.GetAccountByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("GetAccountByID failed: %v", err)
	}
	if got.IsActive {
		t.Error("Expected account to be inactive")
	}

	if err := store.DeactivateAccount(ctx, 9999); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
