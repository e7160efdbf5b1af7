package report

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"text/tabwriter"

	"github.com/couchcryptid/city-climate-explorer/internal/countryinfo"
	"github.com/couchcryptid/city-climate-explorer/internal/domain"
)

// ChartSurface draws a chart and returns where it was written.
type ChartSurface interface {
	RenderChart(name string, c domain.Chart) (string, error)
}

// MapSurface draws a point map and returns where it was written.
type MapSurface interface {
	RenderMap(name string, m domain.Map) (string, error)
}

// Generator runs reports against loaded tables and sends the results to the
// rendering surfaces or the text writer.
type Generator struct {
	tables *domain.Tables
	meta   countryinfo.Provider
	charts ChartSurface
	maps   MapSurface
	out    io.Writer
	logger *slog.Logger
}

// NewGenerator creates a Generator. meta may be nil when country statistics
// are not needed.
func NewGenerator(tables *domain.Tables, meta countryinfo.Provider, charts ChartSurface, maps MapSurface, out io.Writer, logger *slog.Logger) *Generator {
	return &Generator{
		tables: tables,
		meta:   meta,
		charts: charts,
		maps:   maps,
		out:    out,
		logger: logger.With("component", "report"),
	}
}

// CountriesTable prints the top-n countries by number of cities.
func (g *Generator) CountriesTable(n int) error {
	tw := tabwriter.NewWriter(g.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Country\tNumber of cities")
	for _, c := range CitiesPerCountry(g.tables, n) {
		fmt.Fprintf(tw, "%s\t%d\n", c.Name, c.Count)
	}
	return tw.Flush()
}

// CountriesChart renders the top-n countries by number of cities.
func (g *Generator) CountriesChart(n int) (string, error) {
	return g.chart("cities-by-country", CountryChart(g.tables, n))
}

// ContinentsChart renders the number of cities per continent.
func (g *Generator) ContinentsChart() (string, error) {
	return g.chart("cities-by-continent", ContinentChart(g.tables))
}

// SubregionsChart renders subregion counts for one continent, or all five when continent is empty.
func (g *Generator) SubregionsChart(continent string) (string, error) {
	c, err := SubregionChart(g.tables, continent)
	if err != nil {
		return "", err
	}
	name := "cities-by-subregion"
	if continent != "" {
		name += "-" + continent
	}
	return g.chart(name, c)
}

// CountryMap renders every city of country on a map fitted to its points.
func (g *Generator) CountryMap(country string) (string, error) {
	cities := CitiesInCountry(g.tables, country)
	g.logger.Debug("country cities selected", "country", country, "cities", len(cities.Cities))
	return g.render("cities-in-"+country, cities.Map())
}

// MajorCities renders the major cities with a flat or globe projection.
func (g *Generator) MajorCities(projection string) (string, error) {
	m, err := MajorCitiesMap(g.tables, projection)
	if err != nil {
		return "", err
	}
	return g.render("major-cities-"+string(m.Projection), m)
}

// Distance prints the distance sentence between two cities.
func (g *Generator) Distance(a, b string) error {
	d, err := Distance(g.tables, a, b)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(g.out, d.Sentence())
	return err
}

// JanuaryAugust renders January and August temperatures of city across the years.
func (g *Generator) JanuaryAugust(city, decadeDigit string) (string, error) {
	return g.chart("jan-aug-"+city, JanuaryAugustChart(g.tables, city, decadeDigit))
}

// CompareYears renders the monthly temperatures of city in two years.
func (g *Generator) CompareYears(city string, first, second int) (string, error) {
	a, b := strconv.Itoa(first), strconv.Itoa(second)
	return g.chart("compare-"+city+"-"+a+"-"+b, YearComparisonChart(g.tables, city, a, b))
}

// BubbleMap renders major-city temperatures for one YYYY-MM month.
func (g *Generator) BubbleMap(yearMonth string) (string, error) {
	m, err := BubbleMap(g.tables, yearMonth)
	if err != nil {
		return "", err
	}
	if len(m.Points) == 0 {
		g.logger.Warn("no major-city records for month", "date", yearMonth)
	}
	return g.render("bubble-map-"+yearMonth, m)
}

// CountryStats prints the country statistics report or the advisory.
func (g *Generator) CountryStats(country string) error {
	if g.meta == nil {
		return errors.New("country metadata provider not configured")
	}
	res, err := CountryStats(g.tables, g.meta, country)
	if err != nil {
		return err
	}
	if !res.Found {
		g.logger.Info("country not resolved", "country", country)
		if s, ok := g.meta.(countryinfo.Suggester); ok {
			if hint, ok := s.Suggest(country); ok && hint != country {
				g.logger.Info("did you mean", "country", country, "suggestion", hint)
			}
		}
	}
	return WriteCountryStats(g.out, res)
}

// Shock renders the n cities with the largest temperature spread in year.
func (g *Generator) Shock(year string, n int) (string, error) {
	return g.chart("shock-"+year, ShockChart(YearlyShock(g.tables, year, n), year))
}

// ShockByYear renders how many cities exceed threshold in spread, per year.
func (g *Generator) ShockByYear(threshold float64) (string, error) {
	return g.chart("shock-by-year", ShockByYearChart(ShockByYear(g.tables, threshold), threshold))
}

func (g *Generator) chart(name string, c domain.Chart) (string, error) {
	path, err := g.charts.RenderChart(name, c)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return path, nil
}

func (g *Generator) render(name string, m domain.Map) (string, error) {
	path, err := g.maps.RenderMap(name, m)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return path, nil
}
