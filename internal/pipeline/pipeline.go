package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/couchcryptid/city-climate-explorer/internal/dataset"
	"github.com/couchcryptid/city-climate-explorer/internal/domain"
	"github.com/couchcryptid/city-climate-explorer/internal/observability"
	"github.com/couchcryptid/city-climate-explorer/internal/report"
)

// Job computes one report and returns the path of the artifact it wrote,
// or "" when the report went to the text writer.
type Job func(g *report.Generator) (string, error)

// GeneratorFactory binds loaded tables to the rendering surfaces.
type GeneratorFactory func(t *domain.Tables) *report.Generator

// Pipeline runs report jobs as extract (load tables), transform (compute
// the report) and load (render through the generator's surfaces).
type Pipeline struct {
	provider dataset.TableProvider
	build    GeneratorFactory
	logger   *slog.Logger
	metrics  *observability.Metrics

	mu     sync.Mutex
	tables *domain.Tables
}

// New creates a Pipeline with the given stages and observability.
func New(provider dataset.TableProvider, build GeneratorFactory, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		provider: provider,
		build:    build,
		logger:   logger.With("component", "pipeline"),
		metrics:  metrics,
	}
}

// Run executes job under name. Tables are loaded on the first run and
// shared by later ones.
func (p *Pipeline) Run(ctx context.Context, name string, job Job) (string, error) {
	tables, err := p.extract(ctx)
	if err != nil {
		p.metrics.Reports.WithLabelValues(name, "error").Inc()
		return "", fmt.Errorf("load tables: %w", err)
	}

	start := domain.Clock().Now()
	path, err := job(p.build(tables))
	p.metrics.ReportDuration.WithLabelValues(name).Observe(domain.Clock().Since(start).Seconds())
	if err != nil {
		p.metrics.Reports.WithLabelValues(name, "error").Inc()
		p.logger.Error("report failed", "report", name, "error", err)
		return "", err
	}

	p.metrics.Reports.WithLabelValues(name, "success").Inc()
	if path != "" {
		p.logger.Info("report written", "report", name, "path", path)
	} else {
		p.logger.Debug("report completed", "report", name)
	}
	return path, nil
}

func (p *Pipeline) extract(ctx context.Context) (*domain.Tables, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tables != nil {
		return p.tables, nil
	}

	start := domain.Clock().Now()
	tables, err := dataset.Load(ctx, p.provider)
	if err != nil {
		return nil, err
	}
	p.logger.Info("tables loaded",
		"cities", len(tables.Cities),
		"major_cities", len(tables.MajorCities),
		"temperatures_by_city", len(tables.TempByCity),
		"temperatures_by_major_city", len(tables.TempByMajorCity),
		"duration", domain.Clock().Since(start),
	)
	p.tables = tables
	return tables, nil
}
