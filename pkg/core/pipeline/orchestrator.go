package pipeline

import (
	"context"
	"errors"
	"fmt"

	"sec_extractor/pkg/core/companies"
	"sec_extractor/pkg/core/config"
	"sec_extractor/pkg/core/dataset"
	"sec_extractor/pkg/core/etl"
	"sec_extractor/pkg/core/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Exporter persists one company export (store.ExportStore in production).
type Exporter interface {
	Save(ctx context.Context, exp store.CompanyExport) error
}

// Observer receives the stats of every load (metrics.Collector in production).
type Observer interface {
	Observe(s *etl.Stats)
}

// SourceResult is the outcome of loading one data set
type SourceResult struct {
	Source dataset.Source
	Stats  *etl.Stats
}

// Result is the outcome of a full run
type Result struct {
	RunID    uuid.UUID // stamped on every export; each load keeps its own id in Stats
	DB       *companies.DB
	Loads    []SourceResult
	Exported int
	Missing  []string // configured companies absent from every data set
}

// Orchestrator runs discovery, loading and export:
// Discover -> (Open -> Load) per data set -> Export
type Orchestrator struct {
	cfg      *config.Config
	log      *zap.Logger
	exporter Exporter
	observer Observer
}

// NewOrchestrator creates an orchestrator. Export is skipped until an
// exporter is set.
func NewOrchestrator(cfg *config.Config, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{cfg: cfg, log: log}
}

// SetExporter sets where company exports are written
func (o *Orchestrator) SetExporter(e Exporter) {
	o.exporter = e
}

// SetObserver sets who receives per-load stats
func (o *Orchestrator) SetObserver(ob Observer) {
	o.observer = ob
}

// NewDB creates an empty index configured with the interest sets.
func (o *Orchestrator) NewDB() *companies.DB {
	return companies.NewDBWithConfig(companies.Config{Interest: o.cfg.CompanyInterest()})
}

// Run loads every data set under the data dir into a fresh index and
// exports it.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	res := &Result{RunID: uuid.New(), DB: o.NewDB()}
	o.log.Info("run started", zap.String("run_id", res.RunID.String()))

	loads, err := o.LoadAll(ctx, res.DB)
	res.Loads = loads
	if err != nil {
		return res, err
	}

	res.Exported, res.Missing, err = o.Export(ctx, res.DB, res.RunID.String())
	return res, err
}

// LoadAll discovers the data sets and loads each pair into db, in name
// order. The first failing data set stops the run.
func (o *Orchestrator) LoadAll(ctx context.Context, db *companies.DB) ([]SourceResult, error) {
	sources, err := dataset.Discover(o.cfg.DataDir)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no data sets found in %s", o.cfg.DataDir)
	}

	opts, err := o.cfg.LoaderOptions(o.log)
	if err != nil {
		return nil, err
	}
	loader := etl.NewLoader(db, opts)

	results := make([]SourceResult, 0, len(sources))
	for _, src := range sources {
		o.log.Info("loading data set", zap.String("name", src.Name), zap.Stringer("kind", src.Kind))
		stats, err := o.loadSource(ctx, loader, src)
		if err != nil {
			return results, fmt.Errorf("failed to load %s: %w", src.Name, err)
		}
		if o.observer != nil {
			o.observer.Observe(stats)
		}
		results = append(results, SourceResult{Source: src, Stats: stats})
	}
	return results, nil
}

func (o *Orchestrator) loadSource(ctx context.Context, loader *etl.Loader, src dataset.Source) (*etl.Stats, error) {
	files, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer files.Close()

	return loader.Load(ctx,
		etl.NewTSVReader(files.SubmissionsName, files.Submissions),
		etl.NewTSVReader(files.FactsName, files.Facts),
	)
}

// Export saves the configured companies, or every company when none are
// configured. Configured names never seen in the data are returned as
// missing, not as an error.
func (o *Orchestrator) Export(ctx context.Context, db *companies.DB, runID string) (int, []string, error) {
	if o.exporter == nil {
		return 0, nil, nil
	}

	var targets []*companies.Company
	var missing []string
	if len(o.cfg.Companies) == 0 {
		for c := range db.All() {
			targets = append(targets, c)
		}
	} else {
		for _, name := range o.cfg.Companies {
			c, err := db.LookupByName(name)
			if errors.Is(err, companies.ErrNotFound) {
				o.log.Warn("company not found in any data set", zap.String("company", name))
				missing = append(missing, name)
				continue
			}
			if err != nil {
				return 0, missing, err
			}
			targets = append(targets, c)
		}
	}

	exported := 0
	for _, c := range targets {
		if err := ctx.Err(); err != nil {
			return exported, missing, err
		}
		if err := o.exporter.Save(ctx, store.NewCompanyExport(c, runID)); err != nil {
			return exported, missing, err
		}
		exported++
	}
	o.log.Info("export complete", zap.Int("companies", exported), zap.Int("missing", len(missing)))
	return exported, missing, nil
}
