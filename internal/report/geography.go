package report

import (
	"fmt"
	"strconv"

	"github.com/couchcryptid/city-climate-explorer/internal/domain"
)

// Continents are the five continents broken down by subregion, with their
// panel colours.
var Continents = []struct {
	Name  string
	Color string
}{
	{"Asia", "DarkGreen"},
	{"Americas", "RoyalBlue"},
	{"Europe", "DarkGoldenRod"},
	{"Africa", "LightCoral"},
	{"Oceania", "Teal"},
}

// CitiesPerCountry ranks countries by number of cities, descending. Ties keep
// table order. n <= 0 returns every country.
func CitiesPerCountry(t *domain.Tables, n int) []Count {
	return topN(countBy(t.Cities, func(c domain.City) string { return c.Country }), n)
}

// CitiesPerContinent ranks continents by number of cities.
func CitiesPerContinent(t *domain.Tables) []Count {
	return countBy(t.Cities, func(c domain.City) string { return c.Continent })
}

// CitiesPerSubregion ranks the subregions of one continent by number of cities.
func CitiesPerSubregion(t *domain.Tables, continent string) []Count {
	var in []domain.City
	for _, c := range t.Cities {
		if c.Continent == continent {
			in = append(in, c)
		}
	}
	return countBy(in, func(c domain.City) string { return c.Subregion })
}

// CountryChart is the top-n bar chart of cities per country.
func CountryChart(t *domain.Tables, n int) domain.Chart {
	counts := CitiesPerCountry(t, n)
	return domain.Chart{
		Title: "Number of cities in the dataset, by country",
		Panels: []domain.Panel{{
			Kind:       domain.ChartBar,
			Categories: countNames(counts),
			Series:     []domain.Series{{Color: "Brown", Values: countValues(counts)}},
		}},
	}
}

// ContinentChart is the horizontal bar chart of cities per continent.
func ContinentChart(t *domain.Tables) domain.Chart {
	counts := CitiesPerContinent(t)
	return domain.Chart{
		Title: "Number of cities in the dataset, by continent",
		Panels: []domain.Panel{{
			Kind:       domain.ChartHorizontalBar,
			Categories: countNames(counts),
			Series:     []domain.Series{{Color: "MediumOrchid", Values: countValues(counts)}},
		}},
	}
}

// SubregionChart has one horizontal bar panel per continent. An empty
// continent selects all five.
func SubregionChart(t *domain.Tables, continent string) (domain.Chart, error) {
	chart := domain.Chart{Title: "Number of cities in the dataset, by subregion"}
	for _, c := range Continents {
		if continent != "" && c.Name != continent {
			continue
		}
		counts := CitiesPerSubregion(t, c.Name)
		chart.Panels = append(chart.Panels, domain.Panel{
			Title:      c.Name,
			Kind:       domain.ChartHorizontalBar,
			Categories: countNames(counts),
			Series:     []domain.Series{{Color: c.Color, Values: countValues(counts)}},
		})
	}
	if len(chart.Panels) == 0 {
		return domain.Chart{}, fmt.Errorf("unknown continent %q", continent)
	}
	return chart, nil
}

// CountryCities are the cities of one country in table order.
type CountryCities struct {
	Country string
	Cities  []domain.City
}

// CitiesInCountry selects the cities whose country matches exactly.
func CitiesInCountry(t *domain.Tables, country string) CountryCities {
	out := CountryCities{Country: country}
	for _, c := range t.Cities {
		if c.Country == country {
			out.Cities = append(out.Cities, c)
		}
	}
	return out
}

// Title is the map heading, singular only for exactly one city.
func (c CountryCities) Title() string {
	if len(c.Cities) == 1 {
		return "There is 1 city in " + c.Country
	}
	return "There are " + strconv.Itoa(len(c.Cities)) + " cities in " + c.Country
}

// Map renders the cities as dark red markers fitted to their bounds.
func (c CountryCities) Map() domain.Map {
	m := domain.Map{
		Title:       c.Title(),
		Projection:  domain.ProjectionFlat,
		MarkerColor: "DarkRed",
		FitBounds:   true,
		Points:      make([]domain.MapPoint, 0, len(c.Cities)),
	}
	for _, city := range c.Cities {
		m.Points = append(m.Points, domain.MapPoint{
			Label:     city.Name,
			Latitude:  city.Latitude,
			Longitude: city.Longitude,
		})
	}
	return m
}

// MajorCitiesMap plots every major city with the chosen projection.
func MajorCitiesMap(t *domain.Tables, projection string) (domain.Map, error) {
	proj, err := domain.ParseProjection(projection)
	if err != nil {
		return domain.Map{}, err
	}
	m := domain.Map{
		Title:       "List of major cities in the dataset",
		Projection:  proj,
		MarkerColor: "RoyalBlue",
		Points:      make([]domain.MapPoint, 0, len(t.MajorCities)),
	}
	for _, c := range t.MajorCities {
		m.Points = append(m.Points, domain.MapPoint{
			Label:     c.Name,
			Latitude:  c.Latitude,
			Longitude: c.Longitude,
			Details: map[string]string{
				"Country":   c.Country,
				"Latitude":  strconv.FormatFloat(c.Latitude, 'f', -1, 64),
				"Longitude": strconv.FormatFloat(c.Longitude, 'f', -1, 64),
			},
		})
	}
	return m, nil
}
