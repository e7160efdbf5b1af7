package main

import (
	"errors"
	"flag"
	"strconv"

	"github.com/couchcryptid/city-climate-explorer/internal/config"
	"github.com/couchcryptid/city-climate-explorer/internal/pipeline"
	"github.com/couchcryptid/city-climate-explorer/internal/report"
)

// binder registers a command's flags and returns the function that turns
// the parsed flags into a job. Errors it returns are usage errors.
type binder func(fs *flag.FlagSet) func(cfg *config.Config) (pipeline.Job, error)

type command struct {
	summary   string
	needsMeta bool
	bind      binder
}

var commands = map[string]command{
	"countries": {
		summary: "number of cities per country, as a table or with -plot a bar chart",
		bind: func(fs *flag.FlagSet) func(*config.Config) (pipeline.Job, error) {
			top := fs.Int("top", 0, "number of countries to show (default TOP_N)")
			plot := fs.Bool("plot", false, "render a bar chart instead of printing a table")
			return func(cfg *config.Config) (pipeline.Job, error) {
				n := *top
				if n <= 0 {
					n = cfg.TopN
				}
				if *plot {
					return func(g *report.Generator) (string, error) { return g.CountriesChart(n) }, nil
				}
				return func(g *report.Generator) (string, error) { return "", g.CountriesTable(n) }, nil
			}
		},
	},
	"continents": {
		summary: "number of cities per continent",
		bind: func(*flag.FlagSet) func(*config.Config) (pipeline.Job, error) {
			return func(*config.Config) (pipeline.Job, error) {
				return (*report.Generator).ContinentsChart, nil
			}
		},
	},
	"subregions": {
		summary: "number of cities per subregion, for every continent or one",
		bind: func(fs *flag.FlagSet) func(*config.Config) (pipeline.Job, error) {
			continent := fs.String("continent", "", "restrict to one continent")
			return func(*config.Config) (pipeline.Job, error) {
				return func(g *report.Generator) (string, error) { return g.SubregionsChart(*continent) }, nil
			}
		},
	},
	"country-map": {
		summary: "map of the cities of one country",
		bind: func(fs *flag.FlagSet) func(*config.Config) (pipeline.Job, error) {
			country := fs.String("country", "", "country name (required)")
			return func(*config.Config) (pipeline.Job, error) {
				if err := required("country", *country); err != nil {
					return nil, err
				}
				return func(g *report.Generator) (string, error) { return g.CountryMap(*country) }, nil
			}
		},
	},
	"major-cities": {
		summary: "map of the major cities",
		bind: func(fs *flag.FlagSet) func(*config.Config) (pipeline.Job, error) {
			projection := fs.String("projection", "flat", "flat or globe")
			return func(*config.Config) (pipeline.Job, error) {
				return func(g *report.Generator) (string, error) { return g.MajorCities(*projection) }, nil
			}
		},
	},
	"distance": {
		summary: "geodesic distance between two cities",
		bind: func(fs *flag.FlagSet) func(*config.Config) (pipeline.Job, error) {
			from := fs.String("from", "", "first city (required)")
			to := fs.String("to", "", "second city (required)")
			return func(*config.Config) (pipeline.Job, error) {
				if err := errors.Join(required("from", *from), required("to", *to)); err != nil {
					return nil, err
				}
				return func(g *report.Generator) (string, error) { return "", g.Distance(*from, *to) }, nil
			}
		},
	},
	"jan-aug": {
		summary: "January and August temperatures of a city across the years",
		bind: func(fs *flag.FlagSet) func(*config.Config) (pipeline.Job, error) {
			city := fs.String("city", "", "city name (required)")
			digit := fs.String("decade-digit", "", "only years ending in this digit, e.g. 5")
			return func(*config.Config) (pipeline.Job, error) {
				if err := required("city", *city); err != nil {
					return nil, err
				}
				if d := *digit; d != "" && (len(d) != 1 || d[0] < '0' || d[0] > '9') {
					return nil, errors.New("-decade-digit must be a single digit")
				}
				return func(g *report.Generator) (string, error) { return g.JanuaryAugust(*city, *digit) }, nil
			}
		},
	},
	"compare-years": {
		summary: "monthly temperatures of a city in two years",
		bind: func(fs *flag.FlagSet) func(*config.Config) (pipeline.Job, error) {
			city := fs.String("city", "", "city name (required)")
			first := fs.Int("from-year", 1900, "first year")
			second := fs.Int("to-year", 2012, "second year")
			return func(*config.Config) (pipeline.Job, error) {
				if err := required("city", *city); err != nil {
					return nil, err
				}
				return func(g *report.Generator) (string, error) { return g.CompareYears(*city, *first, *second) }, nil
			}
		},
	},
	"bubble-map": {
		summary: "major-city temperatures for one month on a map",
		bind: func(fs *flag.FlagSet) func(*config.Config) (pipeline.Job, error) {
			date := fs.String("date", "", "month as YYYY-MM (required)")
			return func(*config.Config) (pipeline.Job, error) {
				if err := required("date", *date); err != nil {
					return nil, err
				}
				return func(g *report.Generator) (string, error) { return g.BubbleMap(*date) }, nil
			}
		},
	},
	"country-stats": {
		summary:   "weather and general statistics for a country",
		needsMeta: true,
		bind: func(fs *flag.FlagSet) func(*config.Config) (pipeline.Job, error) {
			country := fs.String("country", "", "country name (required)")
			return func(*config.Config) (pipeline.Job, error) {
				if err := required("country", *country); err != nil {
					return nil, err
				}
				return func(g *report.Generator) (string, error) { return "", g.CountryStats(*country) }, nil
			}
		},
	},
	"shock": {
		summary: "cities with the widest temperature range in a year",
		bind: func(fs *flag.FlagSet) func(*config.Config) (pipeline.Job, error) {
			year := fs.String("year", "", "four-digit year (required)")
			top := fs.Int("top", 10, "number of cities")
			return func(*config.Config) (pipeline.Job, error) {
				if err := required("year", *year); err != nil {
					return nil, err
				}
				if _, err := strconv.Atoi(*year); err != nil || len(*year) != 4 {
					return nil, errors.New("-year must be a four-digit year")
				}
				return func(g *report.Generator) (string, error) { return g.Shock(*year, *top) }, nil
			}
		},
	},
	"shock-by-year": {
		summary: "number of cities above a temperature-shock threshold, by year",
		bind: func(fs *flag.FlagSet) func(*config.Config) (pipeline.Job, error) {
			threshold := fs.Float64("threshold", report.ShockThreshold, "shock threshold in °C")
			return func(*config.Config) (pipeline.Job, error) {
				return func(g *report.Generator) (string, error) { return g.ShockByYear(*threshold) }, nil
			}
		},
	},
}

func required(name, value string) error {
	if value == "" {
		return errors.New("-" + name + " is required")
	}
	return nil
}
