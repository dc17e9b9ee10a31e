package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"service-order-pipeline/internal/app"
	"service-order-pipeline/internal/pipeline"
)

type loader func(cmd *cobra.Command) (*app.App, error)

type ingestOptions struct {
	file   string
	report string
	dryRun bool
}

func newIngestCmd(load loader) *cobra.Command {
	var opts ingestOptions

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest one spreadsheet and print its report",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(opts.file)
			if err != nil {
				return fmt.Errorf("read %s: %w", opts.file, err)
			}

			a, err := load(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Ingestor.Run(cmd.Context(), pipeline.Upload{
				FileName: filepath.Base(opts.file),
				Data:     data,
				DryRun:   opts.dryRun,
			})
			if err != nil {
				return err
			}

			if opts.report != "" {
				if err := pipeline.ExportReport(opts.report, report); err != nil {
					return err
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "Spreadsheet to ingest (required)")
	cmd.Flags().StringVar(&opts.report, "report", "", "Also write the report to this .json or .csv path")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Validate only, write nothing to the store")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newMigrateCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and seed default defect categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.Seed(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema ready, %d categories seeded\n", n)
			return nil
		},
	}
}

func newSessionsCmd(load loader) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recent upload sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			sessions, err := a.Store.ListSessions(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tFILE\tSTATUS\tSTARTED\tROWS\tVALID\tINSERTED\tSKIPPED\tERRORS")
			for _, s := range sessions {
				var rows, valid, ins, skip, bad int
				if s.Summary != nil {
					rows, valid = s.Summary.TotalRows, s.Summary.ValidRows
				}
				if s.Reconciliation != nil {
					ins, skip, bad = s.Reconciliation.Inserted, s.Reconciliation.Skipped, s.Reconciliation.Errors
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
					s.ID, s.FileName, s.Status, s.StartedAt.Format(time.DateTime), rows, valid, ins, skip, bad)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum sessions to list")
	return cmd
}

func newIntegrityCmd(load loader) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "integrity",
		Short: "Re-check stored orders and log the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.CheckIntegrity(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CHECK\tSTATUS\tEXPECTED\tACTUAL\tDETAILS")
			for _, c := range report.Checks {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", c.Check, c.Status, c.Expected, c.Actual, c.Details)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if strict && !report.OK {
				return errors.New("integrity checks failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any check fails")
	return cmd
}
