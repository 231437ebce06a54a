package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/the-ledger-must-flow/internal/model"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage the chart of accounts",
	}

	cmd.AddCommand(accountsListCmd())
	cmd.AddCommand(accountsAddCmd())
	cmd.AddCommand(accountsRemoveCmd())

	return cmd
}

func accountsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts visible in the current scope",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			userID := viper.GetString("user")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			accounts, err := store.GetAccounts(ctx, userID)
			if err != nil {
				return fmt.Errorf("failed to load accounts: %w", err)
			}

			if len(accounts) == 0 {
				fmt.Println("No accounts yet. Add one with: ledger accounts add")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCODE\tNAME\tCATEGORY\tSCOPE")
			for _, account := range accounts {
				scope := account.UserID
				if scope == "" {
					scope = color.CyanString("system")
				}
				category := account.Category
				if account.SubCategory != "" {
					category = fmt.Sprintf("%s / %s", account.Category, account.SubCategory)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					account.ID, account.Code, account.Name, category, scope)
			}
			return w.Flush()
		},
	}
}

func accountsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <code> <name>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			category, _ := cmd.Flags().GetString("category")
			subCategory, _ := cmd.Flags().GetString("sub-category")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			account := &model.Account{
				Code:        args[0],
				Name:        args[1],
				Category:    category,
				SubCategory: subCategory,
				UserID:      viper.GetString("user"),
				IsActive:    true,
			}
			if err := store.CreateAccount(ctx, account); err != nil {
				return fmt.Errorf("failed to create account: %w", err)
			}

			color.Green("Created account %s (%s) with ID %d", account.Name, account.Code, account.ID)
			return nil
		},
	}

	cmd.Flags().String("category", "", "account category (e.g. Expenses)")
	cmd.Flags().String("sub-category", "", "account sub-category (e.g. Groceries)")

	return cmd
}

func accountsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Deactivate an account",
		Long: `Soft-deletes an account. Existing explained transactions keep their
posting; the account simply stops appearing in listings and suggestions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid account ID %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeactivateAccount(ctx, id); err != nil {
				return fmt.Errorf("failed to deactivate account: %w", err)
			}

			color.Yellow("Deactivated account %d", id)
			return nil
		},
	}
}
