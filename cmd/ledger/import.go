package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/the-ledger-must-flow/internal/statement"
)

const importBatchSize = 100

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <statement-file>",
		Short: "Import a bank statement (OFX, QFX, or CSV)",
		Long: `Parses a bank statement and stores its transactions. Transactions are
deduplicated by content hash, so importing the same statement twice is safe.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]
			userID := viper.GetString("user")

			parser, err := statement.ForFile(path)
			if err != nil {
				return err
			}

			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open statement: %w", err)
			}
			defer func() { _ = file.Close() }()

			transactions, err := parser.Parse(ctx, file, userID)
			if err != nil {
				return fmt.Errorf("failed to parse statement: %w", err)
			}
			if len(transactions) == 0 {
				fmt.Println("No transactions found in statement.")
				return nil
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			bar := progressbar.Default(int64(len(transactions)), "importing")
			for start := 0; start < len(transactions); start += importBatchSize {
				end := start + importBatchSize
				if end > len(transactions) {
					end = len(transactions)
				}
				if err := store.SaveTransactions(ctx, transactions[start:end]); err != nil {
					return fmt.Errorf("failed to save transactions: %w", err)
				}
				_ = bar.Add(end - start)
			}

			fmt.Printf("\nImported %d transactions from %s\n", len(transactions), path)
			return nil
		},
	}
}
