package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/amityadav/policyfeed/internal/config"
	"github.com/amityadav/policyfeed/internal/core"
	appfx "github.com/amityadav/policyfeed/internal/fx"
	"github.com/amityadav/policyfeed/internal/store"
)

var Version = "dev"

// Execute runs the root command
func Execute() {
	rootCmd := &cobra.Command{
		Use:           "policyfeed",
		Short:         "Collects, deduplicates and summarizes smart-construction policy news",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(backfillCmd())
	rootCmd.AddCommand(listCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fxLogger() fx.Option {
	return fx.WithLogger(func() fxevent.Logger {
		return &fxevent.ConsoleLogger{W: log.Writer()}
	})
}

// runOnce builds the pipeline for cfg, performs a single run and tears everything down
func runOnce(ctx context.Context, cfg config.Config) (*core.RunReport, error) {
	var (
		pipeline *core.PipelineCore
		opts     core.RunOptions
	)
	app := fx.New(
		appfx.PipelineModules(cfg),
		fx.Populate(&pipeline, &opts),
		fx.NopLogger,
	)
	if err := app.Err(); err != nil {
		return nil, err
	}

	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return nil, err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Stop(stopCtx); err != nil {
			log.Printf("[CLI] Shutdown error: %v", err)
		}
	}()

	return pipeline.Run(ctx, opts)
}

// withStore starts only the store modules, hands the store to fn and stops the app afterwards
func withStore(ctx context.Context, cfg config.Config, fn func(store.Store) error, extra ...fx.Option) error {
	var st store.Store
	opts := append([]fx.Option{
		appfx.ConfigModule(cfg),
		appfx.StoreModule,
		fx.Populate(&st),
		fx.NopLogger,
	}, extra...)

	app := fx.New(opts...)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Stop(stopCtx); err != nil {
			log.Printf("[CLI] Shutdown error: %v", err)
		}
	}()

	return fn(st)
}

func printReport(cmd *cobra.Command, report *core.RunReport) {
	s := report.Stats
	fmt.Fprintf(cmd.OutOrStdout(), "run %s (%s): fetched %d, duplicates %d, inserted %d, enriched %d, skipped %d, total %d\n",
		report.ID, report.Mode, s.Fetched, s.Duplicates, s.Inserted, s.Enriched, s.Skipped, report.Total)
	if report.Fallback {
		fmt.Fprintln(cmd.OutOrStdout(), "no records available, wrote fallback record")
	}
}
