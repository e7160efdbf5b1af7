package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/spf13/viper"
)

// DefaultBaseURL is where the public copies of the datasets live.
const DefaultBaseURL = "https://raw.githubusercontent.com/lucasangio01/cities-temperatures/main/datasets"

// Sources names where each table is read from: an absolute URL, a local path,
// or a bare file name resolved against DataBaseURL.
type Sources struct {
	Cities          string
	MajorCities     string
	TempByCity      string
	TempByMajorCity string
	CountryInfo     string
}

// Config holds all explorer settings.
type Config struct {
	DataBaseURL string
	DataDir     string
	Sources     Sources

	CacheTTL     time.Duration
	FetchTimeout time.Duration
	FetchRetries int

	OutputDir    string
	RenderFormat string
	TopN         int

	LogLevel    string
	LogFormat   string
	MetricsFile string
}

var defaults = map[string]any{
	"data_base_url":             DefaultBaseURL,
	"data_dir":                  "./data",
	"cities_source":             "cities.csv",
	"major_cities_source":       "majorCities.csv",
	"temp_by_city_source":       "GlobalLandTemperaturesByCity.csv",
	"temp_by_major_city_source": "GlobalLandTemperaturesByMajorCity.csv",
	"country_info_source":       "https://download.geonames.org/export/dump/countryInfo.txt",
	"cache_ttl":                 "720h",
	"fetch_timeout":             "60s",
	"fetch_retries":             "0",
	"output_dir":                "./out",
	"render_format":             "png",
	"top_n":                     "15",
	"log_level":                 "info",
	"log_format":                "text",
	"metrics_file":              "",
}

// Load reads configuration from defaults, an optional YAML file and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	cacheTTL, err := parseDuration(v, "cache_ttl", true)
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := parseDuration(v, "fetch_timeout", false)
	if err != nil {
		return nil, err
	}
	retries, err := parseInt(v, "fetch_retries", 0)
	if err != nil {
		return nil, err
	}
	topN, err := parseInt(v, "top_n", 1)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataBaseURL: strings.TrimRight(v.GetString("data_base_url"), "/"),
		DataDir:     v.GetString("data_dir"),
		Sources: Sources{
			Cities:          v.GetString("cities_source"),
			MajorCities:     v.GetString("major_cities_source"),
			TempByCity:      v.GetString("temp_by_city_source"),
			TempByMajorCity: v.GetString("temp_by_major_city_source"),
			CountryInfo:     v.GetString("country_info_source"),
		},
		CacheTTL:     cacheTTL,
		FetchTimeout: fetchTimeout,
		FetchRetries: retries,
		OutputDir:    v.GetString("output_dir"),
		RenderFormat: strings.ToLower(v.GetString("render_format")),
		TopN:         topN,
		LogLevel:     v.GetString("log_level"),
		LogFormat:    v.GetString("log_format"),
		MetricsFile:  v.GetString("metrics_file"),
	}

	if cfg.DataDir == "" {
		return nil, errors.New("DATA_DIR is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	if cfg.Sources.Cities == "" || cfg.Sources.MajorCities == "" ||
		cfg.Sources.TempByCity == "" || cfg.Sources.TempByMajorCity == "" {
		return nil, errors.New("CITIES_SOURCE, MAJOR_CITIES_SOURCE, TEMP_BY_CITY_SOURCE and TEMP_BY_MAJOR_CITY_SOURCE are required")
	}
	switch cfg.RenderFormat {
	case "png", "svg", "geojson":
	default:
		return nil, fmt.Errorf("invalid RENDER_FORMAT %q: want png, svg or geojson", cfg.RenderFormat)
	}

	return cfg, nil
}

// readConfigFile merges an optional YAML file. CONFIG_FILE names it
// explicitly; otherwise explorer.yaml is looked up in the working directory
// and a missing file is not an error.
func readConfigFile(v *viper.Viper) error {
	if path := sharedcfg.EnvOrDefault("CONFIG_FILE", ""); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read CONFIG_FILE %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("explorer")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config file: %w", err)
		}
	}
	return nil
}

func parseDuration(v *viper.Viper, key string, allowZero bool) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 || (!allowZero && d == 0) {
		return 0, fmt.Errorf("invalid %s %q", strings.ToUpper(key), raw)
	}
	return d, nil
}

func parseInt(v *viper.Viper, key string, minimum int) (int, error) {
	raw := v.GetString(key)
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < minimum {
		return 0, fmt.Errorf("invalid %s %q", strings.ToUpper(key), raw)
	}
	return n, nil
}

// NamedSource pairs a table name with where it is read from.
type NamedSource struct {
	Table  string
	Source string
}

// SourceList returns every configured source in load order, the country
// metadata file last.
func (c *Config) SourceList() []NamedSource {
	return []NamedSource{
		{Table: "cities", Source: c.Sources.Cities},
		{Table: "major_cities", Source: c.Sources.MajorCities},
		{Table: "temp_by_city", Source: c.Sources.TempByCity},
		{Table: "temp_by_major_city", Source: c.Sources.TempByMajorCity},
		{Table: "country_info", Source: c.Sources.CountryInfo},
	}
}
