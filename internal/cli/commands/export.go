package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/volcanoids-wiki/wikiwriter/internal/cli/config"
	"github.com/volcanoids-wiki/wikiwriter/internal/cli/ui"
	"github.com/volcanoids-wiki/wikiwriter/internal/export"
	"github.com/volcanoids-wiki/wikiwriter/internal/metrics"
	"github.com/volcanoids-wiki/wikiwriter/internal/wiki"
)

type exportFlags struct {
	exporters   []string
	format      string
	out         string
	gameVersion string
	quiet       bool
	progress    bool
}

func (f *exportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.exporters, "exporter", nil, "exporters to run (reference, fandom, tables, markers)")
	cmd.Flags().StringVar(&f.format, "format", "", "reference table format (markdown, csv)")
	cmd.Flags().StringVar(&f.out, "out", "", "output base directory")
	cmd.Flags().StringVar(&f.gameVersion, "game-version", "", "game version printed in page headers")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "print no summary")
	cmd.Flags().BoolVar(&f.progress, "progress", false, "show a spinner while exporting (pair with --log-level warn)")
}

// apply overrides cfg with the flags that were set
func (f *exportFlags) apply(cfg *config.Config) error {
	if len(f.exporters) > 0 {
		cfg.Exporters = f.exporters
	}
	if f.format != "" {
		if !wiki.Format(f.format).Valid() {
			return fmt.Errorf("invalid --format %q (valid: markdown, csv)", f.format)
		}
		cfg.Tables.Format = f.format
	}
	if f.out != "" {
		cfg.Output.Base = f.out
	}
	if f.gameVersion != "" {
		cfg.GameVersion = f.gameVersion
	}
	return nil
}

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the wiki from a snapshot",
		Long: `Load the snapshot and run the configured exporters once.

Every output directory an exporter owns is erased and recreated. A page that
fails is logged and counted; the rest of the export continues.

Examples:
  # Export everything using wikiwriter.yml
  wikiwriter export

  # Only the reference tables, as CSV
  wikiwriter export --exporter tables --format csv

  # Export an older snapshot to a scratch directory
  wikiwriter export --snapshot old.yaml --out /tmp/wiki
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := flags.apply(cfg); err != nil {
				return err
			}

			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			exporter, err := export.New(cfg.ExportOptions(), logger, metrics.New())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var report *export.Report
			run := func() error {
				report, err = runExport(ctx, cmd, cfg, exporter, logger)
				return err
			}
			if flags.progress {
				err = ui.WithSpinner(cmd.ErrOrStderr(), "Exporting "+cfg.Snapshot, noColor(cmd), run)
			} else {
				err = run()
			}
			if report != nil && !flags.quiet {
				printReport(cmd, report)
			}
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// runExport loads the snapshot and runs one export
func runExport(ctx context.Context, cmd *cobra.Command, cfg *config.Config, exporter *export.Exporter, logger *zap.Logger) (*export.Report, error) {
	snap, err := loadSnapshot(cmd, cfg.Snapshot)
	if err != nil {
		logger.Error("snapshot not loaded", zap.String("snapshot", cfg.Snapshot), zap.Error(err))
		return nil, err
	}
	return exporter.Run(ctx, snap)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printReport(cmd *cobra.Command, report *export.Report) {
	out := cmd.OutOrStdout()
	nc := noColor(cmd)

	table := ui.NewTable(out, nc, "Namespace", "Written", "Failed", "Warnings")
	for _, ns := range report.Namespaces() {
		table.AddRow(ns,
			strconv.Itoa(report.Written[ns]),
			strconv.Itoa(report.Failed[ns]),
			strconv.Itoa(report.Warnings[ns]),
		)
	}
	table.Render()
	fmt.Fprintln(out)

	if n := len(report.Failures); n > 0 {
		ui.Warning(fmt.Sprintf("%d page(s) failed; see the log for details", n), nc).Write(cmd.ErrOrStderr())
	}
	ui.WriteSuccess(out, fmt.Sprintf("Wrote %d pages for v%s in %s",
		report.TotalWritten(), report.GameVersion, report.Duration.Round(time.Millisecond)), nc)
}
