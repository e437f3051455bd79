package commands

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/volcanoids-wiki/wikiwriter/internal/cli/config"
	"github.com/volcanoids-wiki/wikiwriter/internal/cli/ui"
	"github.com/volcanoids-wiki/wikiwriter/internal/logging"
	"github.com/volcanoids-wiki/wikiwriter/internal/snapshot"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wikiwriter",
		Short: "Volcanoids wiki exporter",
		Long: color.CyanString(`wikiwriter - Volcanoids wiki exporter

wikiwriter reads a snapshot of the game's asset database and writes:
  • DokuWiki reference pages for items and recipes
  • MediaWiki (Fandom) item and map location pages
  • Markdown or CSV reference tables
  • Map marker info for the interactive map`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor(cmd) {
				color.NoColor = true
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default ./wikiwriter.yml)")
	flags.String("snapshot", "", "snapshot file, overrides the config")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.Bool("no-color", false, "disable colored output")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewExportCommand())
	rootCmd.AddCommand(NewWatchCommand())
	rootCmd.AddCommand(NewClassifyCommand())
	rootCmd.AddCommand(NewRecipeCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the wikiwriter version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			// Set GoVersion to actual runtime if not set at build time
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			table := ui.NewKeyValueTable(cmd.OutOrStdout(), noColor(cmd))
			table.AddRow("wikiwriter version", Version)
			table.AddRow("Git commit", GitCommit)
			table.AddRow("Build date", BuildDate)
			table.AddRow("Go version", goVer)
			table.Render()
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

// stringFlag reads a flag that may be inherited from the root command. Commands
// built on their own, as in tests, simply lack it.
func stringFlag(cmd *cobra.Command, name string) string {
	if f := cmd.Flag(name); f != nil {
		return f.Value.String()
	}
	return ""
}

func noColor(cmd *cobra.Command) bool {
	return stringFlag(cmd, "no-color") == "true"
}

// loadConfig reads the configuration and applies root flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(stringFlag(cmd, "config"))
	if err != nil {
		ui.ConfigError(err.Error(), noColor(cmd)).Write(cmd.ErrOrStderr())
		return nil, err
	}
	if path := stringFlag(cmd, "snapshot"); path != "" {
		cfg.Snapshot = path
	}
	if level := stringFlag(cmd, "log-level"); level != "" {
		cfg.Log.Level = level
	}
	return cfg, nil
}

// newLogger builds the command logger. Log output goes to stderr so stdout
// stays clean for command output.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("invalid log settings: %w", err)
	}
	return logger, nil
}

// loadSnapshot loads the configured snapshot, printing a formatted error on failure
func loadSnapshot(cmd *cobra.Command, path string) (*snapshot.Snapshot, error) {
	snap, err := snapshot.Load(path)
	if err != nil {
		ui.SnapshotError(path, err, noColor(cmd)).Write(cmd.ErrOrStderr())
		return nil, err
	}
	return snap, nil
}

// findItem resolves an item by name, printing suggestions when it is unknown
func findItem(cmd *cobra.Command, snap *snapshot.Snapshot, name string) (*snapshot.Item, error) {
	if item, ok := snap.FindItem(name); ok {
		return item, nil
	}
	suggestions := ui.Suggest(name, snap.ItemNames(), nil)
	ui.ItemNotFound(name, suggestions, noColor(cmd)).Write(cmd.ErrOrStderr())
	return nil, fmt.Errorf("item %q not found", name)
}

func itemNames(items []*snapshot.Item) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.DisplayName)
	}
	return names
}
