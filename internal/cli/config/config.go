package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/volcanoids-wiki/wikiwriter/internal/export"
	"github.com/volcanoids-wiki/wikiwriter/internal/wiki"
)

// Config represents the wikiwriter configuration
type Config struct {
	Snapshot    string        `mapstructure:"snapshot"`
	GameVersion string        `mapstructure:"game_version"`
	Exporters   []string      `mapstructure:"exporters"`
	Output      OutputConfig  `mapstructure:"output"`
	Tables      TablesConfig  `mapstructure:"tables"`
	Log         LogConfig     `mapstructure:"log"`
	Metrics     MetricsConfig `mapstructure:"metrics"`
	Watch       WatchConfig   `mapstructure:"watch"`
}

// OutputConfig holds output directories. The wiki directories are joined to
// Base unless absolute.
type OutputConfig struct {
	Base          string `mapstructure:"base"`
	ReferenceWiki string `mapstructure:"reference_wiki"`
	FandomWiki    string `mapstructure:"fandom_wiki"`
}

// TablesConfig holds reference table settings
type TablesConfig struct {
	Format string `mapstructure:"format"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds the Prometheus textfile location
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// WatchConfig holds watch mode settings
type WatchConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

// Load loads configuration from path, or from wikiwriter.yml in the working
// directory when path is empty, with WIKIWRITER_* environment overrides
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("snapshot", "snapshot.json")
	v.SetDefault("game_version", "")
	v.SetDefault("exporters", export.AllExporters)
	v.SetDefault("output.base", "_Wiki")
	v.SetDefault("output.reference_wiki", "_ReferenceWiki")
	v.SetDefault("output.fandom_wiki", "_FandomWiki")
	v.SetDefault("tables.format", string(wiki.FormatMarkdown))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("watch.delay", 500*time.Millisecond)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("wikiwriter")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("WIKIWRITER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// An explicit config file must exist
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Snapshot == "" {
		return fmt.Errorf("snapshot path is required")
	}

	if len(cfg.Exporters) == 0 {
		return fmt.Errorf("at least one exporter is required")
	}
	for _, name := range cfg.Exporters {
		if !knownExporter(name) {
			return fmt.Errorf("unknown exporter %q (valid: %s)", name, strings.Join(export.AllExporters, ", "))
		}
	}

	if !wiki.Format(cfg.Tables.Format).Valid() {
		return fmt.Errorf("invalid tables.format %q (valid: markdown, csv)", cfg.Tables.Format)
	}

	switch cfg.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log.format %q (valid: console, json)", cfg.Log.Format)
	}

	if cfg.Watch.Delay < 0 {
		return fmt.Errorf("watch.delay must not be negative")
	}

	return nil
}

func knownExporter(name string) bool {
	for _, known := range export.AllExporters {
		if name == known {
			return true
		}
	}
	return false
}

// ReferenceDir is the DokuWiki output root
func (c *Config) ReferenceDir() string {
	return c.outputPath(c.Output.ReferenceWiki)
}

// FandomDir is the MediaWiki output root
func (c *Config) FandomDir() string {
	return c.outputPath(c.Output.FandomWiki)
}

// TablesDir receives reference tables and marker info; it is the output base
func (c *Config) TablesDir() string {
	return c.Output.Base
}

func (c *Config) outputPath(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.Output.Base, dir)
}

// ExportOptions converts the configuration into exporter options. An empty
// game version and asset dir are filled from the snapshot at run time.
func (c *Config) ExportOptions() export.Options {
	return export.Options{
		Wiki: wiki.Config{
			ReferenceDir: c.ReferenceDir(),
			FandomDir:    c.FandomDir(),
			TablesDir:    c.TablesDir(),
			GameVersion:  c.GameVersion,
			TableFormat:  wiki.Format(c.Tables.Format),
		},
		Exporters:       append([]string(nil), c.Exporters...),
		MetricsTextfile: c.Metrics.Textfile,
	}
}
