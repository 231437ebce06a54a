package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/the-ledger-must-flow/internal/ai"
	"github.com/Veraticus/the-ledger-must-flow/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the suggestion HTTP server",
		Long: `Starts the HTTP server exposing the suggestion pipeline.

Endpoints:
  POST /api/v1/suggestions   account suggestions for a transaction
  POST /api/v1/explanations  similar historical explanations
  GET  /api/v1/accounts      chart of accounts
  GET  /healthz              health check

Requests are scoped per user via the X-User-ID header.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

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

			srv := server.New(server.Config{
				Addr: viper.GetString("server.addr"),
			}, orchestrator, store, slog.Default())

			// Shut down when the root context is cancelled by a signal.
			go func() {
				<-ctx.Done()
				if err := srv.Shutdown(); err != nil {
					slog.Error("Failed to shut down server", "error", err)
				}
			}()

			return srv.Listen()
		},
	}

	cmd.Flags().String("addr", ":8080", "address to listen on")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}
