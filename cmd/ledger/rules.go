package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/the-ledger-must-flow/internal/common"
	"github.com/Veraticus/the-ledger-must-flow/internal/model"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage keyword rules",
		Long: `Keyword rules map transaction descriptions to accounts. Rules are tried
in priority order (highest first) and the first match wins with full
confidence.`,
	}

	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesAddCmd())
	cmd.AddCommand(rulesDeleteCmd())

	return cmd
}

func rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active rules in match order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			userID := viper.GetString("user")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rules, err := store.GetActiveRules(ctx, userID)
			if err != nil {
				return fmt.Errorf("failed to load rules: %w", err)
			}

			if len(rules) == 0 {
				fmt.Println("No rules yet. Add one with: ledger rules add")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tKEYWORD\tTYPE\tACCOUNT\tPRIORITY\tUSES")
			for _, r := range rules {
				kind := "contains"
				if r.IsRegex {
					kind = "regex"
				}
				accountName := strconv.Itoa(r.AccountID)
				if account, err := store.GetAccountByID(ctx, r.AccountID); err == nil && account != nil {
					accountName = account.Name
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\n",
					r.ID, r.Keyword, kind, accountName, r.Priority, r.UseCount)
			}
			return w.Flush()
		},
	}
}

func rulesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <keyword> <account-code>",
		Short: "Create a rule mapping a keyword to an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			priority, _ := cmd.Flags().GetInt("priority")
			isRegex, _ := cmd.Flags().GetBool("regex")
			userID := viper.GetString("user")

			if isRegex {
				if _, err := common.MatchKeywordRegex(args[0], ""); err != nil {
					return common.NewUserError(fmt.Sprintf("invalid regular expression %q", args[0]), err)
				}
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			account, err := store.GetAccountByCode(ctx, userID, args[1])
			if err != nil {
				return fmt.Errorf("failed to look up account %q: %w", args[1], err)
			}

			r := &model.Rule{
				Keyword:   args[0],
				AccountID: account.ID,
				UserID:    userID,
				Priority:  priority,
				IsRegex:   isRegex,
				IsActive:  true,
			}
			if err := store.CreateRule(ctx, r); err != nil {
				return fmt.Errorf("failed to create rule: %w", err)
			}

			color.Green("Created rule %d: %q -> %s", r.ID, r.Keyword, account.Name)
			return nil
		},
	}

	cmd.Flags().Int("priority", 0, "rule priority (higher matches first)")
	cmd.Flags().Bool("regex", false, "treat the keyword as a regular expression")

	return cmd
}

func rulesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid rule ID %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteRule(ctx, id); err != nil {
				return fmt.Errorf("failed to delete rule: %w", err)
			}

			color.Yellow("Deleted rule %d", id)
			return nil
		},
	}
}
