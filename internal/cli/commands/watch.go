package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/volcanoids-wiki/wikiwriter/internal/export"
	"github.com/volcanoids-wiki/wikiwriter/internal/metrics"
	"github.com/volcanoids-wiki/wikiwriter/internal/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	var (
		flags exportFlags
		delay time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-export whenever the snapshot is rewritten",
		Long: `Watch the snapshot file and run the configured exporters each time the
game writes a new one, the way the in-game exporter runs on scene load.

Bursts of writes are debounced into a single export. Exports never overlap;
a change that arrives mid-export waits for it to finish.

Examples:
  # Watch the snapshot named in wikiwriter.yml
  wikiwriter watch

  # Watch a different file with a longer settle delay
  wikiwriter watch --snapshot ~/volcanoids/snapshot.json --delay 2s
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
			if cmd.Flags().Changed("delay") {
				cfg.Watch.Delay = delay
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

			onChange := func(path string) error {
				report, err := runExport(ctx, cmd, cfg, exporter, logger)
				if report != nil {
					logger.Info("snapshot exported",
						zap.String("snapshot", path),
						zap.Int("pages", report.TotalWritten()),
						zap.Int("failures", len(report.Failures)),
					)
				}
				return err
			}

			watcher, err := watch.NewSnapshotWatcher(cfg.Snapshot, cfg.Watch.Delay, logger, onChange)
			if err != nil {
				return fmt.Errorf("failed to create snapshot watcher: %w", err)
			}

			if _, err := os.Stat(cfg.Snapshot); err == nil {
				if err := onChange(cfg.Snapshot); err != nil {
					logger.Error("initial export failed", zap.Error(err))
				}
			} else {
				logger.Info("snapshot not written yet", zap.String("snapshot", cfg.Snapshot))
			}

			out := cmd.OutOrStdout()
			banner := color.New(color.FgCyan, color.Bold)
			if noColor(cmd) {
				banner.DisableColor()
			}
			banner.Fprintf(out, "Watching %s\n", cfg.Snapshot)
			fmt.Fprintln(out, "Press Ctrl+C to stop")

			if err := watcher.Run(ctx); err != nil {
				return fmt.Errorf("snapshot watcher failed: %w", err)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().DurationVar(&delay, "delay", watch.DefaultDelay, "quiet period before a rewritten snapshot is exported")

	return cmd
}
