package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/city-climate-explorer/internal/domain"
	"github.com/couchcryptid/city-climate-explorer/internal/observability"
)

// TableProvider supplies cleaned tables in source order.
type TableProvider interface {
	LoadCities(ctx context.Context) ([]domain.City, error)
	LoadMajorCities(ctx context.Context) ([]domain.City, error)
	LoadTemperaturesByCity(ctx context.Context) ([]domain.TemperatureRecord, error)
	LoadTemperaturesByMajorCity(ctx context.Context) ([]domain.TemperatureRecord, error)
}

// Sources names the location of each table, as accepted by Fetcher.Resolve.
type Sources struct {
	Cities          string
	MajorCities     string
	TempByCity      string
	TempByMajorCity string
}

// Loader is the file/remote TableProvider.
type Loader struct {
	fetcher *Fetcher
	sources Sources
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewLoader creates a Loader reading the given sources through fetcher.
func NewLoader(fetcher *Fetcher, sources Sources, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		fetcher: fetcher,
		sources: sources,
		logger:  logger.With("component", "dataset"),
		metrics: metrics,
	}
}

// LoadCities reads the world cities table.
func (l *Loader) LoadCities(ctx context.Context) ([]domain.City, error) {
	return loadTable(ctx, l, "cities", l.sources.Cities, func(r io.Reader) ([]domain.City, int, error) {
		return parseCities(r, cityColumns)
	})
}

// LoadMajorCities reads the major cities table.
func (l *Loader) LoadMajorCities(ctx context.Context) ([]domain.City, error) {
	return loadTable(ctx, l, "major_cities", l.sources.MajorCities, func(r io.Reader) ([]domain.City, int, error) {
		return parseCities(r, majorCityColumns)
	})
}

// LoadTemperaturesByCity streams the per-city temperature history.
func (l *Loader) LoadTemperaturesByCity(ctx context.Context) ([]domain.TemperatureRecord, error) {
	return loadTable(ctx, l, "temp_by_city", l.sources.TempByCity, parseTemperatures)
}

// LoadTemperaturesByMajorCity streams the per-major-city temperature history.
func (l *Loader) LoadTemperaturesByMajorCity(ctx context.Context) ([]domain.TemperatureRecord, error) {
	return loadTable(ctx, l, "temp_by_major_city", l.sources.TempByMajorCity, parseTemperatures)
}

func loadTable[T any](ctx context.Context, l *Loader, table, source string, parse func(io.Reader) ([]T, int, error)) ([]T, error) {
	start := time.Now()

	path, err := l.fetcher.Resolve(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w: %w", table, ErrSourceUnavailable, err)
	}
	defer f.Close()

	rows, dropped, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}

	l.metrics.RowsLoaded.WithLabelValues(table).Add(float64(len(rows)))
	l.metrics.RowsDropped.WithLabelValues(table).Add(float64(dropped))
	l.metrics.TableLoadDuration.WithLabelValues(table).Observe(time.Since(start).Seconds())
	l.logger.Info("table loaded", "table", table, "rows", len(rows), "dropped", dropped, "path", path)
	return rows, nil
}

// StaticProvider serves fixed in-memory tables, mainly for tests.
type StaticProvider struct {
	Cities          []domain.City
	MajorCities     []domain.City
	TempByCity      []domain.TemperatureRecord
	TempByMajorCity []domain.TemperatureRecord
}

// LoadCities returns the fixture cities.
func (p StaticProvider) LoadCities(context.Context) ([]domain.City, error) {
	return p.Cities, nil
}

// LoadMajorCities returns the fixture major cities.
func (p StaticProvider) LoadMajorCities(context.Context) ([]domain.City, error) {
	return p.MajorCities, nil
}

// LoadTemperaturesByCity returns the fixture per-city temperatures.
func (p StaticProvider) LoadTemperaturesByCity(context.Context) ([]domain.TemperatureRecord, error) {
	return p.TempByCity, nil
}

// LoadTemperaturesByMajorCity returns the fixture per-major-city temperatures.
func (p StaticProvider) LoadTemperaturesByMajorCity(context.Context) ([]domain.TemperatureRecord, error) {
	return p.TempByMajorCity, nil
}

// Load materialises every table from p. Any failure is fatal to the caller.
func Load(ctx context.Context, p TableProvider) (*domain.Tables, error) {
	cities, err := p.LoadCities(ctx)
	if err != nil {
		return nil, err
	}
	majorCities, err := p.LoadMajorCities(ctx)
	if err != nil {
		return nil, err
	}
	tempByCity, err := p.LoadTemperaturesByCity(ctx)
	if err != nil {
		return nil, err
	}
	tempByMajorCity, err := p.LoadTemperaturesByMajorCity(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NewTables(cities, majorCities, tempByCity, tempByMajorCity), nil
}
