// Command fetch downloads every configured dataset into DATA_DIR so later
// explorer runs work offline.
//
// Usage:
//
//	go run ./cmd/fetch [-force]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/couchcryptid/city-climate-explorer/internal/config"
	"github.com/couchcryptid/city-climate-explorer/internal/dataset"
	"github.com/couchcryptid/city-climate-explorer/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	force := fs.Bool("force", false, "download again even when the cached copy is fresh")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}

	logger := observability.NewLogger(stderr, cfg.LogLevel, cfg.LogFormat).
		With("run_id", uuid.NewString(), "command", "fetch")
	metrics := observability.NewMetrics()

	ttl := cfg.CacheTTL
	if *force {
		ttl = -1
	}
	fetcher := dataset.NewFetcher(dataset.FetchConfig{
		BaseURL:  cfg.DataBaseURL,
		DataDir:  cfg.DataDir,
		CacheTTL: ttl,
		Timeout:  cfg.FetchTimeout,
		Retries:  cfg.FetchRetries,
	}, logger, metrics)

	failed := 0
	for _, src := range cfg.SourceList() {
		path, err := fetcher.Resolve(ctx, src.Source)
		if err != nil {
			logger.Error("fetch failed", "table", src.Table, "source", src.Source, "error", err)
			fmt.Fprintf(stdout, "%-20s FAIL\n", src.Table)
			failed++
			continue
		}
		fmt.Fprintf(stdout, "%-20s %s\n", src.Table, path)
	}

	if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
		logger.Warn("write metrics textfile failed", "path", cfg.MetricsFile, "error", err)
	}
	if failed > 0 {
		fmt.Fprintf(stderr, "%d of %d sources could not be fetched\n", failed, len(cfg.SourceList()))
		return 1
	}
	return 0
}
