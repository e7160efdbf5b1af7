// Command validate loads the configured datasets and runs integrity checks
// over the cleaned tables: row counts, the first-of-month date format,
// uncertainty sign, coordinate ranges and duplicate (city, country) keys.
//
// Usage:
//
//	go run ./cmd/validate [-max-errors 20]
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
	"github.com/couchcryptid/city-climate-explorer/internal/domain"
	"github.com/couchcryptid/city-climate-explorer/internal/observability"
)

// phase tracks pass/fail for a validation phase. Notes are informational
// and never fail the phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	maxErrors := fs.Int("max-errors", 20, "errors printed per failing phase")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: config: %v\n", err)
		return 1
	}
	logger := observability.NewLogger(stderr, cfg.LogLevel, cfg.LogFormat).
		With("run_id", uuid.NewString(), "command", "validate")
	metrics := observability.NewMetrics()

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

	fmt.Fprintln(stdout, "=== City Temperature Dataset Validation ===")
	fmt.Fprintln(stdout)

	tables, err := dataset.Load(ctx, loader)
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: %v\n", err)
		return 1
	}

	phases := validate(tables)
	if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
		logger.Warn("write metrics textfile failed", "path", cfg.MetricsFile, "error", err)
	}
	return report(stdout, tables, phases, *maxErrors)
}

func validate(t *domain.Tables) []*phase {
	return []*phase{
		validateRowCounts(t),
		validateDates(t),
		validateUncertainty(t),
		validateCoordinates(t),
		validateKeys(t),
	}
}

func report(w io.Writer, t *domain.Tables, phases []*phase, maxErrors int) int {
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Rows: %d cities, %d major cities, %d city temperatures, %d major-city temperatures\n",
		len(t.Cities), len(t.MajorCities), len(t.TempByCity), len(t.TempByMajorCity))

	for _, p := range phases {
		for _, n := range p.notes {
			fmt.Fprintf(w, "  note: %s\n", n)
		}
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if maxErrors > 0 && i == maxErrors {
				fmt.Fprintf(w, "  ... and %d more\n", len(p.errors)-maxErrors)
				break
			}
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

// ── Phase 1: Row counts ──

func validateRowCounts(t *domain.Tables) *phase {
	p := &phase{name: "Phase 1: Row counts"}
	counts := []struct {
		table string
		n     int
	}{
		{"cities", len(t.Cities)},
		{"major_cities", len(t.MajorCities)},
		{"temp_by_city", len(t.TempByCity)},
		{"temp_by_major_city", len(t.TempByMajorCity)},
	}
	for _, c := range counts {
		if c.n == 0 {
			p.errorf("%s: no rows survived cleaning", c.table)
		}
	}
	return p
}

// ── Phase 2: Dates ──
// Every observation is dated to the first of a month.

func validateDates(t *domain.Tables) *phase {
	p := &phase{name: "Phase 2: Dates (YYYY-MM-01)"}
	check := func(table string, rows []domain.TemperatureRecord) {
		for i, r := range rows {
			if len(r.Date) != 10 || r.Date[7:] != "-01" {
				p.errorf("%s row %d: date %q is not the first of a month", table, i, r.Date)
				continue
			}
			if _, _, err := domain.ParseYearMonth(r.Date[:7]); err != nil {
				p.errorf("%s row %d: %v", table, i, err)
			}
		}
	}
	check("temp_by_city", t.TempByCity)
	check("temp_by_major_city", t.TempByMajorCity)
	return p
}

// ── Phase 3: Uncertainty ──

func validateUncertainty(t *domain.Tables) *phase {
	p := &phase{name: "Phase 3: Uncertainty (non-negative)"}
	check := func(table string, rows []domain.TemperatureRecord) {
		for i, r := range rows {
			if r.Uncertainty < 0 {
				p.errorf("%s row %d: %s %s uncertainty %g", table, i, r.City, r.Date, r.Uncertainty)
			}
		}
	}
	check("temp_by_city", t.TempByCity)
	check("temp_by_major_city", t.TempByMajorCity)
	return p
}

// ── Phase 4: Coordinates ──

func validateCoordinates(t *domain.Tables) *phase {
	p := &phase{name: "Phase 4: Coordinates (in range)"}
	inRange := func(lat, lon float64) bool {
		return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
	}
	for _, set := range []struct {
		table  string
		cities []domain.City
	}{{"cities", t.Cities}, {"major_cities", t.MajorCities}} {
		for i, c := range set.cities {
			if !inRange(c.Latitude, c.Longitude) {
				p.errorf("%s row %d: %s (%g, %g) out of range", set.table, i, c.Name, c.Latitude, c.Longitude)
			}
		}
	}
	for _, set := range []struct {
		table string
		rows  []domain.TemperatureRecord
	}{{"temp_by_city", t.TempByCity}, {"temp_by_major_city", t.TempByMajorCity}} {
		for i, r := range set.rows {
			if !inRange(r.Latitude, r.Longitude) {
				p.errorf("%s row %d: %s (%g, %g) out of range", set.table, i, r.City, r.Latitude, r.Longitude)
			}
		}
	}
	return p
}

// ── Phase 5: Keys ──
// Duplicate (city, country) rows are kept by the loader, so they are only
// reported. Major-city temperatures without a major-city row fall back to
// their own coordinates on maps.

func validateKeys(t *domain.Tables) *phase {
	p := &phase{name: "Phase 5: Keys (city, country)"}

	for _, set := range []struct {
		table  string
		cities []domain.City
	}{{"cities", t.Cities}, {"major_cities", t.MajorCities}} {
		seen := make(map[domain.Key]int, len(set.cities))
		for _, c := range set.cities {
			seen[c.Key()]++
		}
		dups := 0
		for _, n := range seen {
			if n > 1 {
				dups++
			}
		}
		if dups > 0 {
			p.notef("%s: %d (city, country) keys appear more than once", set.table, dups)
		}
	}

	major := make(map[domain.Key]bool, len(t.MajorCities))
	for _, c := range t.MajorCities {
		major[c.Key()] = true
	}
	missing := make(map[domain.Key]bool)
	for _, r := range t.TempByMajorCity {
		if !major[r.Key()] {
			missing[r.Key()] = true
		}
	}
	if len(missing) > 0 {
		p.notef("temp_by_major_city: %d cities have no major_cities row", len(missing))
	}
	return p
}
