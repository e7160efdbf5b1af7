package report

import (
	"sort"
	"strings"

	"github.com/couchcryptid/city-climate-explorer/internal/domain"
)

// ShockThreshold is the yearly spread, in °C, above which a city-year counts
// as a temperature shock.
const ShockThreshold = 49.0

// Spread is the temperature shock of one city within one year.
type Spread struct {
	City    string
	Country string
	Year    string
	Max     float64
	Min     float64
	Spread  float64
}

// YearCount is the number of shocked cities in a year.
type YearCount struct {
	Year   string
	Cities int
}

type groupKey struct {
	City    string
	Country string
	Year    string
}

// extremes is an order-preserving per-group aggregate.
type extremes struct {
	order  []groupKey
	values map[groupKey]float64
}

func aggregate(rows []domain.TemperatureRecord, key func(domain.TemperatureRecord) groupKey, better func(a, b float64) bool) extremes {
	agg := extremes{values: make(map[groupKey]float64)}
	for _, r := range rows {
		k := key(r)
		cur, ok := agg.values[k]
		if !ok {
			agg.order = append(agg.order, k)
			agg.values[k] = r.AverageTemp
			continue
		}
		if better(r.AverageTemp, cur) {
			agg.values[k] = r.AverageTemp
		}
	}
	return agg
}

func maxOf(rows []domain.TemperatureRecord, key func(domain.TemperatureRecord) groupKey) extremes {
	return aggregate(rows, key, func(a, b float64) bool { return a > b })
}

func minOf(rows []domain.TemperatureRecord, key func(domain.TemperatureRecord) groupKey) extremes {
	return aggregate(rows, key, func(a, b float64) bool { return a < b })
}

// joinSpreads inner-joins the max and min aggregates in max order. Groups
// missing from either side are left out rather than given a zero spread.
func joinSpreads(maxAgg, minAgg extremes) []Spread {
	out := make([]Spread, 0, len(maxAgg.order))
	for _, k := range maxAgg.order {
		lo, ok := minAgg.values[k]
		if !ok {
			continue
		}
		hi := maxAgg.values[k]
		out = append(out, Spread{City: k.City, Country: k.Country, Year: k.Year, Max: hi, Min: lo, Spread: hi - lo})
	}
	return out
}

// YearlyShock ranks cities by their spread within year, descending, and
// keeps the top n (all when n <= 0). Rows are selected by matching year
// anywhere in the date string. Equal spreads keep table order.
func YearlyShock(t *domain.Tables, year string, n int) []Spread {
	var rows []domain.TemperatureRecord
	for _, r := range t.TempByCity {
		if strings.Contains(r.Date, year) {
			rows = append(rows, r)
		}
	}
	key := func(r domain.TemperatureRecord) groupKey {
		return groupKey{City: r.City, Country: r.Country, Year: year}
	}
	spreads := joinSpreads(maxOf(rows, key), minOf(rows, key))
	sort.SliceStable(spreads, func(i, j int) bool { return spreads[i].Spread > spreads[j].Spread })
	if n > 0 && n < len(spreads) {
		spreads = spreads[:n]
	}
	return spreads
}

// ShockByYear counts, per year, the cities whose spread within that year
// exceeds threshold. Only years with at least one such city are returned,
// in ascending order.
func ShockByYear(t *domain.Tables, threshold float64) []YearCount {
	key := func(r domain.TemperatureRecord) groupKey {
		return groupKey{City: r.City, Country: r.Country, Year: r.Year()}
	}
	counts := make(map[string]int)
	for _, s := range joinSpreads(maxOf(t.TempByCity, key), minOf(t.TempByCity, key)) {
		if s.Spread > threshold {
			counts[s.Year]++
		}
	}

	out := make([]YearCount, 0, len(counts))
	for y, n := range counts {
		out = append(out, YearCount{Year: y, Cities: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// ShockChart is the horizontal bar chart of the top spreads in a year.
func ShockChart(spreads []Spread, year string) domain.Chart {
	minX := 40.0
	names := make(map[string]int, len(spreads))
	for _, s := range spreads {
		names[s.City]++
	}
	labels := make([]string, len(spreads))
	values := make([]float64, len(spreads))
	for i, s := range spreads {
		labels[i] = s.City
		if names[s.City] > 1 {
			labels[i] = s.City + " (" + s.Country + ")"
		}
		values[i] = s.Spread
	}
	return domain.Chart{
		Title: "Cities with the biggest difference between highest and lowest temperature in " + year,
		Panels: []domain.Panel{{
			Kind:       domain.ChartHorizontalBar,
			Categories: labels,
			Series:     []domain.Series{{Color: "SaddleBrown", Values: values}},
			XLabel:     "Temperature shock (°C)",
			ValueMin:   &minX,
		}},
	}
}

// ShockByYearChart is the line chart of shocked-city counts per year.
func ShockByYearChart(counts []YearCount, threshold float64) domain.Chart {
	years := make([]string, len(counts))
	values := make([]float64, len(counts))
	for i, c := range counts {
		years[i] = c.Year
		values[i] = float64(c.Cities)
	}
	return domain.Chart{
		Title: "Number of cities with a yearly temperature shock greater than " + formatThreshold(threshold) + "°C, by year",
		Panels: []domain.Panel{{
			Kind:       domain.ChartLine,
			Categories: years,
			Series:     []domain.Series{{Color: "MediumSeaGreen", Values: values}},
			TickEvery:  10,
		}},
	}
}

func formatThreshold(v float64) string {
	s := formatDecimal(v)
	return strings.TrimSuffix(s, ".0")
}
