package ai

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a financial account classification expert. You MUST respond with ONLY a valid JSON array of suggestions. Do not include any explanatory text, markdown formatting, or commentary before or after the JSON. Start your response directly with [ and end with ]."

// buildPrompt renders the advisor prompt for one transaction. The available
// account list is included so the provider can only pick real accounts.
func buildPrompt(req Request) string {
	var sb strings.Builder

	sb.WriteString("Analyze this transaction and suggest the most appropriate account classification:\n")
	fmt.Fprintf(&sb, "Transaction Description: %s\n", req.Description)
	if req.Explanation != "" {
		fmt.Fprintf(&sb, "Additional Context: %s\n", req.Explanation)
	}

	sb.WriteString("\nAvailable Accounts:\n")
	for _, account := range req.Accounts {
		category := account.Category
		if account.SubCategory != "" {
			category += " / " + account.SubCategory
		}
		fmt.Fprintf(&sb, "- %s (%s)\n", account.Name, category)
	}

	sb.WriteString("\nProvide up to 3 suggestions in JSON format:\n")
	sb.WriteString(`[{"account": "exact_name", "confidence": 0.0-1.0, "reasoning": "explanation"}]`)

	return sb.String()
}
