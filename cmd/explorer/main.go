// Command explorer answers questions about world cities and their monthly
// land temperatures. Each invocation runs one report:
//
//	explorer countries -top 10
//	explorer distance -from Rome -to Milan
//	explorer bubble-map -date 2012-07
//
// Charts and maps are written under OUTPUT_DIR; text reports go to stdout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/google/uuid"

	"github.com/couchcryptid/city-climate-explorer/internal/config"
	"github.com/couchcryptid/city-climate-explorer/internal/countryinfo"
	"github.com/couchcryptid/city-climate-explorer/internal/dataset"
	"github.com/couchcryptid/city-climate-explorer/internal/domain"
	"github.com/couchcryptid/city-climate-explorer/internal/observability"
	"github.com/couchcryptid/city-climate-explorer/internal/pipeline"
	"github.com/couchcryptid/city-climate-explorer/internal/render"
	"github.com/couchcryptid/city-climate-explorer/internal/report"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "help" {
		usage(stderr)
		if len(args) == 0 {
			return exitUsage
		}
		return exitOK
	}

	name := args[0]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", name)
		usage(stderr)
		return exitUsage
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	bind := cmd.bind(fs)
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitFailure
	}

	job, err := bind(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		fs.Usage()
		return exitUsage
	}

	logger := observability.NewLogger(stderr, cfg.LogLevel, cfg.LogFormat).
		With("run_id", uuid.NewString(), "command", name)
	metrics := observability.NewMetrics()
	defer func() {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warn("write metrics textfile failed", "path", cfg.MetricsFile, "error", err)
		}
	}()

	fetcher := dataset.NewFetcher(dataset.FetchConfig{
		BaseURL:  cfg.DataBaseURL,
		DataDir:  cfg.DataDir,
		CacheTTL: cfg.CacheTTL,
		Timeout:  cfg.FetchTimeout,
		Retries:  cfg.FetchRetries,
	}, logger, metrics)
	loader := dataset.NewLoader(fetcher, dataset.Sources{
		Cities:          cfg.Sources.Cities,
		MajorCities:     cfg.Sources.MajorCities,
		TempByCity:      cfg.Sources.TempByCity,
		TempByMajorCity: cfg.Sources.TempByMajorCity,
	}, logger, metrics)

	charts, mapSurface, err := surfaces(cfg, logger)
	if err != nil {
		logger.Error("failed to build render surfaces", "error", err)
		return exitFailure
	}

	var meta countryinfo.Provider
	if cmd.needsMeta {
		registry, err := countryRegistry(ctx, fetcher, cfg.Sources.CountryInfo, logger)
		if err != nil {
			logger.Error("failed to load country metadata", "error", err)
			return exitFailure
		}
		meta = registry
	}

	p := pipeline.New(loader, func(t *domain.Tables) *report.Generator {
		return report.NewGenerator(t, meta, charts, mapSurface, stdout, logger)
	}, logger, metrics)

	path, err := p.Run(ctx, name, job)
	if err != nil {
		if errors.Is(err, dataset.ErrSourceUnavailable) {
			logger.Error("dataset unavailable", "error", err)
		}
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return exitFailure
	}
	if path != "" {
		fmt.Fprintln(stdout, path)
	}
	return exitOK
}

// surfaces picks the chart and map surfaces for RENDER_FORMAT. GeoJSON only
// covers maps, so charts fall back to PNG.
func surfaces(cfg *config.Config, logger *slog.Logger) (report.ChartSurface, report.MapSurface, error) {
	if cfg.RenderFormat == "geojson" {
		plots, err := render.NewPlotSurface(cfg.OutputDir, "png", logger)
		if err != nil {
			return nil, nil, err
		}
		return plots, render.NewGeoJSONSurface(cfg.OutputDir, logger), nil
	}
	plots, err := render.NewPlotSurface(cfg.OutputDir, cfg.RenderFormat, logger)
	if err != nil {
		return nil, nil, err
	}
	return plots, plots, nil
}

// countryRegistry builds the metadata registry. An unreachable geonames file
// only costs area and population, so it is logged rather than fatal.
func countryRegistry(ctx context.Context, fetcher *dataset.Fetcher, source string, logger *slog.Logger) (*countryinfo.Registry, error) {
	path, err := fetcher.Resolve(ctx, source)
	if err != nil {
		logger.Warn("country info unavailable", "source", source, "error", err)
		return countryinfo.NewRegistry(nil, logger)
	}
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("country info unreadable", "path", path, "error", err)
		return countryinfo.NewRegistry(nil, logger)
	}
	defer f.Close()
	return countryinfo.NewRegistry(f, logger)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: explorer <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, name := range slices.Sorted(maps.Keys(commands)) {
		fmt.Fprintf(w, "  %-15s %s\n", name, commands[name].summary)
	}
}
