package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/the-ledger-must-flow/internal/ai"
	"github.com/Veraticus/the-ledger-must-flow/internal/model"
)

func suggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest <description>",
		Short: "Suggest accounts for a transaction description",
		Long: `Runs the full suggestion pipeline for a single description: keyword
rules first, then similar explained transactions, then the AI advisor
when the first two stages leave the list short.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			description := args[0]
			explanation, _ := cmd.Flags().GetString("explanation")
			userID := viper.GetString("user")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			advisor := initAdvisor()
			if closer, ok := advisor.(*ai.Service); ok && closer != nil {
				defer closer.Close()
			}

			orchestrator := initOrchestrator(store, advisor)

			suggestions, err := orchestrator.Suggest(ctx, description, explanation, userID)
			if err != nil {
				return err
			}

			printSuggestions(description, suggestions)
			return nil
		},
	}

	cmd.Flags().String("explanation", "", "draft explanation to pass to the advisor")

	return cmd
}

func printSuggestions(description string, suggestions model.Suggestions) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	bold.Printf("Suggestions for %q\n\n", description)

	if len(suggestions) == 0 {
		faint.Println("No suggestions. Add rules or explain some transactions first.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ACCOUNT\tCODE\tCONFIDENCE\tSOURCE\tREASON")
	for _, s := range suggestions {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n",
			s.Account.Name,
			s.Account.Code,
			formatConfidence(s.Confidence),
			string(s.Source),
			s.Reasoning)
	}
	_ = w.Flush()
}

func formatConfidence(confidence float64) string {
	text := fmt.Sprintf("%.0f%%", confidence*100)
	switch {
	case confidence >= 0.8:
		return color.GreenString(text)
	case confidence >= 0.5:
		return color.YellowString(text)
	default:
		return color.RedString(text)
	}
}
