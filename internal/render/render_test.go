package render

import (
	"bytes"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/city-climate-explorer/internal/domain"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func ptr(v float64) *float64 { return &v }

func TestFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "cities-by-country", "cities-by-country.png"},
		{"spaces", "jan-aug-New York", "jan-aug-New_York.png"},
		{"traversal", "../../etc/passwd", "______etc_passwd.png"},
		{"accents", "compare-Zürich", "compare-Z_rich.png"},
		{"empty", "", "report.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fileName(tt.in, "png"))
		})
	}
}

func TestNamedColor(t *testing.T) {
	c, ok := namedColor("DarkRed")
	require.True(t, ok)
	assert.Equal(t, "#8b0000", hex(c))

	_, ok = namedColor("NotAColour")
	assert.False(t, ok)

	assert.Equal(t, fallback[1], colorOr("", 1))
}

func TestThinAndRuns(t *testing.T) {
	assert.Equal(t, []string{"a", "", "c", "", "e"}, thin([]string{"a", "b", "c", "d", "e"}, 2))
	assert.Equal(t, []string{"a", "b"}, thin([]string{"a", "b"}, 0))

	got := runs([]float64{1, 2, math.NaN(), 4, math.NaN(), math.NaN()})
	require.Len(t, got, 2)
	assert.Len(t, got[0], 2)
	assert.Equal(t, 3.0, got[1][0].X)
	assert.Empty(t, runs([]float64{math.NaN()}))
}

func TestExtent(t *testing.T) {
	points := []domain.MapPoint{
		{Latitude: 41.9, Longitude: 12.5},
		{Latitude: 45.4, Longitude: 9.2},
	}

	minLon, maxLon, minLat, maxLat := extent(points, false)
	assert.Equal(t, []float64{-180, 180, -90, 90}, []float64{minLon, maxLon, minLat, maxLat})

	minLon, maxLon, minLat, maxLat = extent(points, true)
	assert.InDelta(t, 7.2, minLon, 1e-9)
	assert.InDelta(t, 14.5, maxLon, 1e-9)
	assert.InDelta(t, 39.9, minLat, 1e-9)
	assert.InDelta(t, 47.4, maxLat, 1e-9)

	minLon, _, _, _ = extent(nil, true)
	assert.Equal(t, -180.0, minLon)
}

func TestOrthographic(t *testing.T) {
	globe := newOrthographic(bounds([]domain.MapPoint{{Latitude: 0, Longitude: 0}}).Center())

	x, y, ok := globe.project(0, 0)
	require.True(t, ok)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)

	x, _, ok = globe.project(0, 90)
	require.True(t, ok)
	assert.InDelta(t, 1, x, 1e-9)

	_, y, ok = globe.project(90, 0)
	require.True(t, ok)
	assert.InDelta(t, 1, y, 1e-9)

	_, _, ok = globe.project(0, 180)
	assert.False(t, ok)
}

func TestPlotSurface_RejectsFormat(t *testing.T) {
	_, err := NewPlotSurface(t.TempDir(), "gif", testLogger())
	require.Error(t, err)
}

func TestPlotSurface_RenderChart(t *testing.T) {
	dir := t.TempDir()
	s, err := NewPlotSurface(dir, "png", testLogger())
	require.NoError(t, err)

	floor := 40.0
	charts := map[string]domain.Chart{
		"bars": {Title: "Counts", Panels: []domain.Panel{{
			Kind: domain.ChartBar, Categories: []string{"Italy", "Japan"},
			Series: []domain.Series{{Color: "Brown", Values: []float64{2, 2}}},
		}}},
		"hbars": {Title: "Shock", Panels: []domain.Panel{{
			Kind: domain.ChartHorizontalBar, Categories: []string{"X (Nowhere)", "Y (Nowhere)"},
			Series:   []domain.Series{{Color: "SaddleBrown", Values: []float64{50, 45}}},
			ValueMin: &floor,
		}}},
		"lines": {Title: "Temperatures", YLabel: "°C", Panels: []domain.Panel{
			{Title: "January", Kind: domain.ChartLine, Categories: []string{"1900", "1905", "2012"},
				Series: []domain.Series{{Label: "January", Color: "Blue", Values: []float64{7.1, math.NaN(), 8.2}}}, TickEvery: 2},
			{Title: "August", Kind: domain.ChartLine, Categories: []string{"1900"},
				Series: []domain.Series{{Label: "August", Color: "Red", Values: []float64{25.4}}}},
		}},
		"empty": {Title: "Nothing", Panels: []domain.Panel{{Kind: domain.ChartLine}}},
	}
	for name, c := range charts {
		t.Run(name, func(t *testing.T) {
			path, err := s.RenderChart(name, c)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, name+".png"), path)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, pngMagic))
		})
	}

	_, err = s.RenderChart("no-panels", domain.Chart{})
	assert.Error(t, err)
}

func TestPlotSurface_RenderMap(t *testing.T) {
	dir := t.TempDir()
	s, err := NewPlotSurface(dir, "svg", testLogger())
	require.NoError(t, err)

	m := domain.Map{
		Title:    "Average temperature in July 2012",
		Colormap: "Hot_r",
		Points: []domain.MapPoint{
			{Label: "Rome", Latitude: 41.89, Longitude: 12.48, Size: ptr(55), Value: ptr(25)},
			{Label: "Sydney", Latitude: -33.87, Longitude: 151.21, Size: ptr(42), Value: ptr(12)},
		},
	}
	for _, proj := range []domain.Projection{domain.ProjectionFlat, domain.ProjectionGlobe} {
		m.Projection = proj
		path, err := s.RenderMap("map-"+string(proj), m)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "<svg")
	}
}

func TestPointStyle(t *testing.T) {
	m := domain.Map{
		Colormap:    "Hot_r",
		MarkerColor: "DarkRed",
		Points: []domain.MapPoint{
			{Value: ptr(-40)},
			{Value: ptr(25)},
			{},
		},
	}
	style := newPointStyle(m, nil)

	cold, hot := style.color(0), style.color(1)
	assert.NotEqual(t, hex(cold), hex(hot))
	assert.Greater(t, luma(cold), luma(hot), "reversed scale runs light to dark")
	assert.Equal(t, "#8b0000", hex(style.color(2)))
}

func luma(c interface{ RGBA() (r, g, b, a uint32) }) uint32 {
	r, g, b, _ := c.RGBA()
	return r + g + b
}

func TestGeoJSONSurface_RenderMap(t *testing.T) {
	dir := t.TempDir()
	s := NewGeoJSONSurface(dir, testLogger())

	m := domain.Map{
		Title:       "There are 2 cities in Italy",
		Projection:  domain.ProjectionFlat,
		MarkerColor: "DarkRed",
		FitBounds:   true,
		Points: []domain.MapPoint{
			{Label: "Rome", Latitude: 41.9, Longitude: 12.5, Details: map[string]string{"country": "Italy"}},
			{Label: "Milan", Latitude: 45.4, Longitude: 9.2},
		},
	}
	path, err := s.RenderMap("cities-in-Italy", m)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cities-in-Italy.geojson"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)

	assert.Equal(t, "There are 2 cities in Italy", fc.ExtraMembers["title"])
	assert.Equal(t, "flat", fc.ExtraMembers["projection"])
	require.Len(t, fc.BBox, 4)
	assert.InDelta(t, 9.2, fc.BBox[0], 1e-9)
	assert.InDelta(t, 45.4, fc.BBox[3], 1e-9)

	require.Len(t, fc.Features, 2)
	rome := fc.Features[0]
	assert.Equal(t, orb.Point{12.5, 41.9}, rome.Geometry)
	assert.Equal(t, "Rome", rome.Properties["name"])
	assert.Equal(t, "Italy", rome.Properties["country"])
	assert.Equal(t, "#8b0000", rome.Properties["marker-color"])
	assert.NotNil(t, rome.Properties["mercator"])
	assert.NotContains(t, rome.Properties, "value")
}

func TestGeoJSONSurface_GlobeHasNoMercator(t *testing.T) {
	fc := featureCollection(domain.Map{
		Projection: domain.ProjectionGlobe,
		Points:     []domain.MapPoint{{Label: "Lima", Latitude: -12, Longitude: -77, Value: ptr(18)}},
	})
	require.Len(t, fc.Features, 1)
	assert.NotContains(t, fc.Features[0].Properties, "mercator")
	assert.Equal(t, 18.0, fc.Features[0].Properties["value"])
}
