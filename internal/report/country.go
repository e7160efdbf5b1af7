package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/city-climate-explorer/internal/countryinfo"
	"github.com/couchcryptid/city-climate-explorer/internal/domain"
)

// Advisory is printed when a country cannot be resolved.
const Advisory = "Please choose another country"

var rule = strings.Repeat("-", 80)

// WeatherStats summarises a country's temperature records.
type WeatherStats struct {
	First   string // "<Month> <YYYY>" of the first record in table order
	Latest  string // "<Month> <YYYY>" of the last record in table order
	MaxTemp float64
	MaxCity string
	MinTemp float64
	MinCity string
}

// CountryStatsResult is either a full report (Found) or the not-found variant.
type CountryStatsResult struct {
	Country  string
	Found    bool
	Weather  WeatherStats
	Metadata countryinfo.Metadata
}

// CountryStats computes weather statistics for country from the by-city
// temperature table and joins them with metadata from meta. A country with
// no records, or one meta cannot resolve, yields Found == false.
func CountryStats(t *domain.Tables, meta countryinfo.Provider, country string) (CountryStatsResult, error) {
	res := CountryStatsResult{Country: country}

	var rows []domain.TemperatureRecord
	for _, r := range t.TempByCity {
		if r.Country == country {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return res, nil
	}

	md, ok := meta.Lookup(country)
	if !ok {
		return res, nil
	}

	first, err := t.Months.Describe(rows[0].Date)
	if err != nil {
		return res, fmt.Errorf("country stats %s: %w", country, err)
	}
	latest, err := t.Months.Describe(rows[len(rows)-1].Date)
	if err != nil {
		return res, fmt.Errorf("country stats %s: %w", country, err)
	}

	ws := WeatherStats{
		First:   first,
		Latest:  latest,
		MaxTemp: rows[0].AverageTemp,
		MaxCity: rows[0].City,
		MinTemp: rows[0].AverageTemp,
		MinCity: rows[0].City,
	}
	for _, r := range rows[1:] {
		if r.AverageTemp > ws.MaxTemp {
			ws.MaxTemp, ws.MaxCity = r.AverageTemp, r.City
		}
		if r.AverageTemp < ws.MinTemp {
			ws.MinTemp, ws.MinCity = r.AverageTemp, r.City
		}
	}

	res.Found = true
	res.Weather = ws
	res.Metadata = md
	return res, nil
}

// WriteCountryStats prints the report, or the advisory when not found.
func WriteCountryStats(w io.Writer, res CountryStatsResult) error {
	if !res.Found {
		_, err := fmt.Fprintln(w, Advisory)
		return err
	}

	var b strings.Builder
	b.WriteString(strings.ToUpper("\nHere is some stats about "+res.Country+"\n") + "\n")
	b.WriteString(rule + "\n")
	b.WriteString("\nWEATHER STATS:\n\n")
	b.WriteString("First recorded temperature: " + res.Weather.First + "\n")
	b.WriteString("Latest recorded temperature: " + res.Weather.Latest + "\n")
	b.WriteString("Highest monthly average temperature recorded: " + formatDecimal(round2(res.Weather.MaxTemp)) + "°C in " + res.Weather.MaxCity + "\n")
	b.WriteString("Lowest monthly average temperature recorded: " + formatDecimal(round2(res.Weather.MinTemp)) + "°C in " + res.Weather.MinCity + "\n")
	b.WriteString("\n" + rule + "\n")
	b.WriteString("\nOTHER INFOS:\n\n")
	b.WriteString("Area (in square km): " + formatGrouped(res.Metadata.Area) + "\n")
	b.WriteString("Population: " + formatGrouped(res.Metadata.Population) + "\n")
	b.WriteString("Capital city: " + res.Metadata.Capital + "\n")
	b.WriteString("Continent: " + res.Metadata.Region + "\n")
	b.WriteString("Subregion: " + res.Metadata.Subregion + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}
