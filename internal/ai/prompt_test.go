package ai

import (
	"strings"
	"testing"

	"github.com/Veraticus/the-ledger-must-flow/internal/model"
)

func TestBuildPrompt(t *testing.T) {
	req := Request{
		Description: "WHOLE FOODS MARKET #123",
		Explanation: "Weekly shopping",
		Accounts: []model.Account{
			{ID: 1, Name: "Groceries", Category: "Expenses", SubCategory: "Food"},
			{ID: 2, Name: "Dining", Category: "Expenses"},
		},
	}

	prompt := buildPrompt(req)

	for _, want := range []string{
		"WHOLE FOODS MARKET #123",
		"Weekly shopping",
		"- Groceries (Expenses / Food)",
		"- Dining (Expenses)",
		`"confidence"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptOmitsEmptyExplanation(t *testing.T) {
	prompt := buildPrompt(Request{Description: "AMAZON"})
	if strings.Contains(prompt, "Additional Context") {
		t.Error("Prompt includes context section for an empty explanation")
	}
}
