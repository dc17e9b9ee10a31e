package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"service-order-pipeline/internal/app"
	"service-order-pipeline/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "pipeline",
		Short:         "Ingest warranty service-order spreadsheets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")

	load := func(cmd *cobra.Command) (*app.App, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		logger := cfg.Log.NewLogger(cmd.ErrOrStderr())
		return app.Build(cmd.Context(), cfg, logger)
	}

	root.AddCommand(newIngestCmd(load), newMigrateCmd(load), newSessionsCmd(load), newIntegrityCmd(load))
	return root
}
