package report

import (
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/city-climate-explorer/internal/domain"
)

// bubbleOffset keeps marker sizes positive across observed temperatures.
const bubbleOffset = 30

// MonthAcrossYears returns the records of city for one calendar month, in
// table order. decadeDigit, when set, keeps only years ending in that digit.
func MonthAcrossYears(t *domain.Tables, city, monthCode, decadeDigit string) []domain.TemperatureRecord {
	suffix := decadeDigit + "-" + monthCode + "-01"
	var out []domain.TemperatureRecord
	for _, r := range t.TempByCity {
		if r.City == city && strings.HasSuffix(r.Date, suffix) {
			out = append(out, r)
		}
	}
	return out
}

// JanuaryAugustChart plots January and August temperatures of a city across
// the years, one panel each. No matching rows gives empty panels.
func JanuaryAugustChart(t *domain.Tables, city, decadeDigit string) domain.Chart {
	tickEvery := 10
	if decadeDigit != "" {
		tickEvery = 1
	}
	panel := func(title, month, color string) domain.Panel {
		rows := MonthAcrossYears(t, city, month, decadeDigit)
		p := domain.Panel{
			Title:      title,
			Kind:       domain.ChartLine,
			Categories: make([]string, len(rows)),
			TickEvery:  tickEvery,
		}
		values := make([]float64, len(rows))
		for i, r := range rows {
			p.Categories[i] = r.Year()
			values[i] = r.AverageTemp
		}
		p.Series = []domain.Series{{Label: title, Color: color, Values: values}}
		return p
	}
	return domain.Chart{
		Title:  "Temperatures in " + city + " during the years",
		YLabel: "Temperatures (°C)",
		Panels: []domain.Panel{
			panel("January", "01", "Blue"),
			panel("August", "08", "Red"),
		},
	}
}

// MonthlyTemperatures returns the twelve monthly averages of city in year,
// indexed by calendar month. Months without a record are NaN; when a month
// has several records the first in table order wins.
func MonthlyTemperatures(t *domain.Tables, city, year string) [12]float64 {
	var out [12]float64
	var seen [12]bool
	for i := range out {
		out[i] = math.NaN()
	}
	for _, r := range t.TempByCity {
		if r.City != city || !strings.Contains(r.Date, year) {
			continue
		}
		m, err := strconv.Atoi(r.MonthCode())
		if err != nil || m < 1 || m > 12 || seen[m-1] {
			continue
		}
		out[m-1] = r.AverageTemp
		seen[m-1] = true
	}
	return out
}

// YearComparisonChart overlays the monthly temperatures of two years on a
// shared month-name axis.
func YearComparisonChart(t *domain.Tables, city, first, second string) domain.Chart {
	months := make([]string, len(domain.MonthCodes))
	for i, code := range domain.MonthCodes {
		months[i] = t.Months[code]
	}
	a := MonthlyTemperatures(t, city, first)
	b := MonthlyTemperatures(t, city, second)
	return domain.Chart{
		Title:  "Temperatures in " + city + " in " + first + " and " + second,
		YLabel: "Temperatures (°C)",
		Panels: []domain.Panel{{
			Kind:       domain.ChartLine,
			Categories: months,
			Series: []domain.Series{
				{Label: first, Color: "DarkGreen", Values: a[:]},
				{Label: second, Color: "DarkBlue", Values: b[:]},
			},
		}},
	}
}

// BubbleMap plots every major city's temperature for one "YYYY-MM" month.
// Marker size is temperature + 30 and colour follows temperature on the
// reversed Hot scale. Coordinates come from the major-cities table when the
// (city, country) pair is listed there, otherwise from the record itself.
func BubbleMap(t *domain.Tables, yearMonth string) (domain.Map, error) {
	year, month, err := domain.ParseYearMonth(yearMonth)
	if err != nil {
		return domain.Map{}, err
	}
	monthName, err := t.Months.Name(month)
	if err != nil {
		return domain.Map{}, err
	}

	coords := make(map[domain.Key]domain.City, len(t.MajorCities))
	for _, c := range t.MajorCities {
		if _, ok := coords[c.Key()]; !ok {
			coords[c.Key()] = c
		}
	}

	date := year + "-" + month + "-01"
	m := domain.Map{
		Title:      "Average temperature in " + monthName + " " + year,
		Projection: domain.ProjectionFlat,
		Colormap:   "Hot_r",
		FitBounds:  true,
		Points:     []domain.MapPoint{},
	}
	for _, r := range t.TempByMajorCity {
		if r.Date != date {
			continue
		}
		lat, lon := r.Latitude, r.Longitude
		if c, ok := coords[r.Key()]; ok {
			lat, lon = c.Latitude, c.Longitude
		}
		size := r.AverageTemp + bubbleOffset
		value := r.AverageTemp
		m.Points = append(m.Points, domain.MapPoint{
			Label:     r.City,
			Latitude:  lat,
			Longitude: lon,
			Size:      &size,
			Value:     &value,
			Details: map[string]string{
				"Country":            r.Country,
				"AverageTemperature": formatDecimal(r.AverageTemp),
			},
		})
	}
	return m, nil
}
