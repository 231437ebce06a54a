package match

import (
	"testing"
	"time"

	"github.com/Veraticus/the-ledger-must-flow/internal/model"
)

func TestNewIndexNeedsTwoClasses(t *testing.T) {
	id := 1
	txns := []model.Transaction{
		{ID: "t1", Description: "AMAZON", Explanation: "Shopping", AccountID: &id, Date: time.Now()},
	}
	accounts := map[int]model.Account{1: {ID: 1, Name: "Shopping"}}

	if idx := NewIndex(txns, accounts); idx != nil {
		t.Error("Expected nil index with a single account class")
	}
}

func TestNilIndexHasNoOpinion(t *testing.T) {
	var idx *Index
	if got := idx.TopAccount("AMAZON"); got != "" {
		t.Errorf("Expected empty prediction from nil index, got %q", got)
	}
}

func TestIndexPredictsDominantAccount(t *testing.T) {
	groceries, dining := 1, 2
	txns := []model.Transaction{
		{ID: "t1", Description: "WHOLE FOODS MARKET", AccountID: &groceries, Date: time.Now()},
		{ID: "t2", Description: "WHOLE FOODS MARKET DOWNTOWN", AccountID: &groceries, Date: time.Now()},
		{ID: "t3", Description: "STARBUCKS COFFEE", AccountID: &dining, Date: time.Now()},
	}
	accounts := map[int]model.Account{
		groceries: {ID: groceries, Name: "Groceries"},
		dining:    {ID: dining, Name: "Dining"},
	}

	idx := NewIndex(txns, accounts)
	if idx == nil {
		t.Fatal("Expected a trained index")
	}

	if got := idx.TopAccount("WHOLE FOODS"); got != "Groceries" {
		t.Errorf("TopAccount(WHOLE FOODS) = %q, want Groceries", got)
	}
	if got := idx.TopAccount("STARBUCKS"); got != "Dining" {
		t.Errorf("TopAccount(STARBUCKS) = %q, want Dining", got)
	}
}

func TestIndexTerms(t *testing.T) {
	got := indexTerms("AMAZON MKTP US*1A2B3C 12.99")
	want := []string{"amazon", "mktp", "us", "a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("indexTerms = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("indexTerms[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
