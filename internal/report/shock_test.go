package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/city-climate-explorer/internal/domain"
)

func TestYearlyShock_EndToEnd(t *testing.T) {
	got := YearlyShock(fixtureTables(), "2000", 10)
	require.Len(t, got, 2)

	assert.Equal(t, Spread{City: "X", Country: "Nowhere", Year: "2000", Max: 30, Min: -20, Spread: 50}, got[0])
	assert.Equal(t, "Y", got[1].City)
	assert.InDelta(t, 25.0, got[1].Spread, 1e-9)
	assert.Greater(t, got[0].Spread, ShockThreshold)
}

func TestYearlyShock_TopNAndNonNegative(t *testing.T) {
	for _, s := range YearlyShock(fixtureTables(), "2", 0) {
		assert.GreaterOrEqual(t, s.Spread, 0.0)
	}
	assert.Len(t, YearlyShock(fixtureTables(), "2000", 1), 1)
	assert.Empty(t, YearlyShock(fixtureTables(), "1600", 10))
}

func TestShockByYear(t *testing.T) {
	got := ShockByYear(fixtureTables(), ShockThreshold)
	assert.Equal(t, []YearCount{{Year: "2000", Cities: 1}, {Year: "2001", Cities: 1}}, got)

	assert.Empty(t, ShockByYear(fixtureTables(), 60))
	assert.Equal(t, []YearCount{{Year: "2000", Cities: 2}, {Year: "2001", Cities: 1}}, ShockByYear(fixtureTables(), 20))
}

func TestShockByYear_StrictlyGreater(t *testing.T) {
	tables := domain.NewTables(nil, nil, []domain.TemperatureRecord{
		temp("1990-01-01", -20, "Z", "Nowhere"),
		temp("1990-07-01", 29, "Z", "Nowhere"),
	}, nil)
	assert.Empty(t, ShockByYear(tables, 49), "a spread of exactly 49 is not a shock")
}

func TestJoinSpreads_InnerJoin(t *testing.T) {
	a := groupKey{City: "A", Year: "2000"}
	b := groupKey{City: "B", Year: "2000"}
	c := groupKey{City: "C", Year: "2000"}

	maxAgg := extremes{order: []groupKey{a, b}, values: map[groupKey]float64{a: 30, b: 10}}
	minAgg := extremes{order: []groupKey{a, c}, values: map[groupKey]float64{a: -5, c: -50}}

	got := joinSpreads(maxAgg, minAgg)
	require.Len(t, got, 1, "groups missing from either side are excluded")
	assert.Equal(t, "A", got[0].City)
	assert.InDelta(t, 35.0, got[0].Spread, 1e-9)
}

func TestShockChart(t *testing.T) {
	spreads := []Spread{
		{City: "Springfield", Country: "United States", Spread: 55},
		{City: "Springfield", Country: "Canada", Spread: 51},
		{City: "X", Country: "Nowhere", Spread: 50},
	}
	c := ShockChart(spreads, "2000")
	assert.Equal(t, "Cities with the biggest difference between highest and lowest temperature in 2000", c.Title)
	p := c.Panels[0]
	assert.Equal(t, domain.ChartHorizontalBar, p.Kind)
	assert.Equal(t, []string{"Springfield (United States)", "Springfield (Canada)", "X"}, p.Categories)
	assert.Equal(t, "Temperature shock (°C)", p.XLabel)
	require.NotNil(t, p.ValueMin)
	assert.InDelta(t, 40.0, *p.ValueMin, 0)
	assert.Equal(t, "SaddleBrown", p.Series[0].Color)
}

func TestShockByYearChart(t *testing.T) {
	c := ShockByYearChart([]YearCount{{Year: "2000", Cities: 3}}, ShockThreshold)
	assert.Equal(t, "Number of cities with a yearly temperature shock greater than 49°C, by year", c.Title)
	assert.Equal(t, []string{"2000"}, c.Panels[0].Categories)
	assert.Equal(t, []float64{3}, c.Panels[0].Series[0].Values)
	assert.Equal(t, "MediumSeaGreen", c.Panels[0].Series[0].Color)
}
