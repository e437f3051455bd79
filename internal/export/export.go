// Package export runs the configured generators over one snapshot
package export

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/volcanoids-wiki/wikiwriter/internal/metrics"
	"github.com/volcanoids-wiki/wikiwriter/internal/snapshot"
	"github.com/volcanoids-wiki/wikiwriter/internal/stats"
	"github.com/volcanoids-wiki/wikiwriter/internal/wiki"
)

// Exporter names accepted in Options.Exporters
const (
	ExporterReference = "reference"
	ExporterFandom    = "fandom"
	ExporterTables    = "tables"
	ExporterMarkers   = "markers"
)

// AllExporters lists every exporter in run order
var AllExporters = []string{ExporterReference, ExporterFandom, ExporterTables, ExporterMarkers}

// ErrUnknownExporter is returned for an exporter name not in AllExporters
var ErrUnknownExporter = errors.New("unknown exporter")

// Options configure an Exporter
type Options struct {
	Wiki      wiki.Config
	Exporters []string

	// MetricsTextfile is rewritten after every run when set
	MetricsTextfile string
}

// Failure is one page that could not be written
type Failure struct {
	Namespace string
	Name      string
	Err       error
}

// Report summarizes one run
type Report struct {
	GameVersion string
	Started     time.Time
	Duration    time.Duration
	Written     map[string]int
	Failed      map[string]int
	Warnings    map[string]int
	Failures    []Failure
}

func newReport(gameVersion string) *Report {
	return &Report{
		GameVersion: gameVersion,
		Started:     time.Now(),
		Written:     make(map[string]int),
		Failed:      make(map[string]int),
		Warnings:    make(map[string]int),
	}
}

// Namespaces returns every namespace that saw activity, sorted
func (r *Report) Namespaces() []string {
	seen := make(map[string]bool)
	for _, m := range []map[string]int{r.Written, r.Failed, r.Warnings} {
		for ns := range m {
			seen[ns] = true
		}
	}
	out := make([]string, 0, len(seen))
	for ns := range seen {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// TotalWritten returns the number of pages written across namespaces
func (r *Report) TotalWritten() int {
	total := 0
	for _, n := range r.Written {
		total += n
	}
	return total
}

// Exporter runs exports. Run is not re-entrant; concurrent calls are serialized.
type Exporter struct {
	mu      sync.Mutex
	opts    Options
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New creates an exporter. A nil logger logs nothing; nil metrics record nothing.
func New(opts Options, logger *zap.Logger, m *metrics.Metrics) (*Exporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(opts.Exporters) == 0 {
		opts.Exporters = AllExporters
	}
	for _, name := range opts.Exporters {
		if !isExporter(name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownExporter, name)
		}
	}
	return &Exporter{opts: opts, logger: logger, metrics: m}, nil
}

func isExporter(name string) bool {
	for _, e := range AllExporters {
		if e == name {
			return true
		}
	}
	return false
}

// Run builds the indexes once and runs each configured exporter in order. Page
// failures are logged and counted without stopping the run. The returned error
// joins generator-level failures such as an output directory that cannot be
// recreated.
func (e *Exporter) Run(ctx context.Context, snap *snapshot.Snapshot) (*Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg := e.opts.Wiki
	if cfg.GameVersion == "" {
		cfg.GameVersion = snap.GameVersion
	}
	if cfg.AssetDir == "" {
		cfg.AssetDir = snap.Dir
	}

	report := newReport(cfg.GameVersion)
	obs := &observer{report: report, logger: e.logger, metrics: e.metrics}
	idx := wiki.BuildIndexes(snap)

	e.logger.Info("export started",
		zap.String("game_version", cfg.GameVersion),
		zap.Int("items", len(snap.Items())),
		zap.Int("recipes", len(snap.Recipes())),
		zap.Int("crafter_categories", idx.Crafters.Len()),
	)

	var errs []error
	for _, name := range e.opts.Exporters {
		for _, gen := range generators(name, &cfg, snap, idx, obs) {
			if err := gen.Generate(ctx); err != nil {
				if ctx.Err() != nil {
					e.finish(report, err)
					return report, err
				}
				e.logger.Error("exporter failed", zap.String("exporter", name), zap.Error(err))
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		}
	}

	err := errors.Join(errs...)
	e.finish(report, err)
	return report, err
}

func (e *Exporter) finish(report *Report, err error) {
	report.Duration = time.Since(report.Started)
	e.metrics.RunFinished(report.Duration, err)
	if werr := e.metrics.WriteTextfile(e.opts.MetricsTextfile); werr != nil {
		e.logger.Warn("metrics not written", zap.Error(werr))
	}

	e.logger.Info("export finished",
		zap.Int("pages", report.TotalWritten()),
		zap.Int("failures", len(report.Failures)),
		zap.Duration("duration", report.Duration),
	)
}

func generators(name string, cfg *wiki.Config, snap *snapshot.Snapshot, idx *wiki.Indexes, obs wiki.Observer) []wiki.Generator {
	switch name {
	case ExporterReference:
		return []wiki.Generator{wiki.NewReferenceGenerator(cfg, snap, idx, obs)}
	case ExporterFandom:
		return []wiki.Generator{
			wiki.NewFandomGenerator(cfg, snap, idx, obs),
			wiki.NewLocationGenerator(cfg, snap, obs),
		}
	case ExporterTables:
		return []wiki.Generator{wiki.NewTablesGenerator(cfg, snap, obs)}
	case ExporterMarkers:
		return []wiki.Generator{wiki.NewMarkerGenerator(cfg, snap, obs)}
	}
	return nil
}

// observer logs and counts page results for one run
type observer struct {
	report  *Report
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func (o *observer) PageWritten(ns, name string) {
	o.report.Written[ns]++
	o.metrics.PageWritten(ns)
	o.logger.Debug("page written", zap.String("namespace", ns), zap.String("item", name))
}

func (o *observer) PageFailed(ns, name string, err error) {
	o.report.Failed[ns]++
	o.report.Failures = append(o.report.Failures, Failure{Namespace: ns, Name: name, Err: err})
	o.metrics.PageFailed(ns)

	msg := "page failed"
	if errors.Is(err, wiki.ErrUnknownNamespace) {
		msg = "page skipped: no namespace for item type"
	}
	o.logger.Error(msg, zap.String("namespace", ns), zap.String("item", name), zap.Error(err))
}

func (o *observer) Warn(ns, name string, err error) {
	o.report.Warnings[ns]++
	o.metrics.Warning(ns)

	var propErr *stats.PropertyError
	switch {
	case errors.As(err, &propErr):
		o.logger.Warn("property stats skipped", zap.String("namespace", ns), zap.String("item", name),
			zap.String("property", propErr.Property), zap.Error(propErr.Err))
	case errors.Is(err, wiki.ErrIconDecode):
		o.logger.Warn("icon skipped", zap.String("namespace", ns), zap.String("item", name), zap.Error(err))
	default:
		o.logger.Warn("page warning", zap.String("namespace", ns), zap.String("item", name), zap.Error(err))
	}
}
