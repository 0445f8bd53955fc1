package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/amityadav/policyfeed/internal/config"
	"github.com/amityadav/policyfeed/internal/formatter"
	appfx "github.com/amityadav/policyfeed/internal/fx"
	"github.com/amityadav/policyfeed/internal/store"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Fetch, merge and persist once, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			report, err := runOnce(cmd.Context(), cfg)
			if report != nil {
				printReport(cmd, report)
			}
			return err
		},
	}
}

func backfillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Collect historical records into the history file, sorted by date",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cfg = cfg.ForBackfill()
			if out, _ := cmd.Flags().GetString("output"); out != "" {
				cfg.DataPath = out
			}
			report, err := runOnce(cmd.Context(), cfg)
			if report != nil {
				printReport(cmd, report)
			}
			return err
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output file (default HISTORY_PATH)")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler and the HTTP/gRPC API until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			app := fx.New(
				appfx.PipelineModules(cfg),
				appfx.NotificationModule,
				appfx.ServerModule,
				fxLogger(),
			)
			if err := app.Err(); err != nil {
				return err
			}
			// Run blocks until the app receives a shutdown signal
			app.Run()
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the current dataset as a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")
			if history, _ := cmd.Flags().GetBool("history"); history {
				cfg.DataPath = cfg.HistoryPath
				cfg.StoreBackend = config.BackendJSON
			}

			return withStore(cmd.Context(), cfg, func(st store.Store) error {
				data := st.Load(cmd.Context()).Truncate(limit)
				return formatter.WriteRecords(cmd.OutOrStdout(), data)
			})
		},
	}
	cmd.Flags().IntP("limit", "n", 20, "Maximum records to print (0 for all)")
	cmd.Flags().Bool("history", false, "List the history file instead")
	return cmd
}
