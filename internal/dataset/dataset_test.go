package dataset

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unsafe"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/city-climate-explorer/internal/domain"
	"github.com/couchcryptid/city-climate-explorer/internal/observability"
)

const citiesCSV = `,City,Country,Latitude,Longitude,Continent,Subregion
0,Rome,Italy,41.9,12.5,Europe,Southern Europe
1,Milan,Italy,45.4,9.2,Europe,Southern Europe
2,Nowhere,Italy,,9.2,Europe,Southern Europe
3,Paris,France,48.8,2.3,Europe,Western Europe
4,Lyon,France,45.7,4.8,Europe,
`

const majorCitiesCSV = `,City,Country,Latitude,Longitude
0,Abidjan,Côte D'Ivoire,5.63N,3.23W
1,Sydney,Australia,-33.86,151.2
`

const tempCSV = `dt,AverageTemperature,AverageTemperatureUncertainty,City,Country,Latitude,Longitude
1743-11-01,6.068,1.7369999999999999,Århus,Denmark,57.05N,10.33E
1743-12-01,,,Århus,Denmark,57.05N,10.33E
1744-04-01,5.788,3.6239999999999997,Århus,Denmark,57.05N,10.33E
1744-05-01,NaN,1.2,Århus,Denmark,57.05N,10.33E
1744-06-01,14.2,1.1,Århus,Denmark,bad,10.33E
1744-07-01,15.0,1.0,Århus,Denmark,NaN,10.33E
1850-01-01,-3.5,0.9,Sydney,Australia,34.56S,151.78E
`

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestParseCities(t *testing.T) {
	rows, dropped, err := parseCities(strings.NewReader(citiesCSV), cityColumns)
	require.NoError(t, err)

	assert.Equal(t, 2, dropped)
	require.Len(t, rows, 3)
	assert.Equal(t, domain.City{
		Name: "Rome", Country: "Italy", Continent: "Europe", Subregion: "Southern Europe",
		Latitude: 41.9, Longitude: 12.5,
	}, rows[0])
	assert.Equal(t, "Milan", rows[1].Name)
	assert.Equal(t, "Paris", rows[2].Name, "source order is preserved")
}

func TestParseCities_MajorCitiesWithoutRegions(t *testing.T) {
	rows, dropped, err := parseCities(strings.NewReader(majorCitiesCSV), majorCityColumns)
	require.NoError(t, err)

	assert.Zero(t, dropped)
	require.Len(t, rows, 2)
	assert.InDelta(t, 5.63, rows[0].Latitude, 1e-9)
	assert.InDelta(t, -3.23, rows[0].Longitude, 1e-9)
	assert.Empty(t, rows[0].Continent)
	assert.InDelta(t, -33.86, rows[1].Latitude, 1e-9)
}

func TestParseCities_MissingColumn(t *testing.T) {
	_, _, err := parseCities(strings.NewReader(majorCitiesCSV), cityColumns)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Continent")
}

func TestParseTemperatures(t *testing.T) {
	rows, dropped, err := parseTemperatures(strings.NewReader(tempCSV))
	require.NoError(t, err)

	assert.Equal(t, 4, dropped)
	require.Len(t, rows, 3)
	assert.Equal(t, domain.TemperatureRecord{
		Date: "1743-11-01", AverageTemp: 6.068, Uncertainty: 1.7369999999999999,
		City: "Århus", Country: "Denmark", Latitude: 57.05, Longitude: 10.33,
	}, rows[0])
	assert.Equal(t, "1744-04-01", rows[1].Date)
	// Repeated names share one backing copy.
	assert.Same(t, unsafe.StringData(rows[0].City), unsafe.StringData(rows[1].City))
	assert.Same(t, unsafe.StringData(rows[0].Country), unsafe.StringData(rows[1].Country))
	assert.InDelta(t, -34.56, rows[2].Latitude, 1e-9)
}

func TestParseTemperatures_MissingColumn(t *testing.T) {
	_, _, err := parseTemperatures(strings.NewReader("dt,City\n1743-11-01,Århus\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AverageTemperature")
}

func newTestFetcher(t *testing.T, cfg FetchConfig) (*Fetcher, *observability.Metrics) {
	t.Helper()
	m := observability.NewMetricsForTesting()
	f := NewFetcher(cfg, testLogger(), m)
	f.backoff = time.Millisecond
	return f, m
}

func TestFetcher_DownloadsAndCaches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/datasets/cities.csv", r.URL.Path)
		_, _ = w.Write([]byte(citiesCSV))
	}))
	defer srv.Close()

	dir := t.TempDir()
	f, m := newTestFetcher(t, FetchConfig{BaseURL: srv.URL + "/datasets/", DataDir: dir})

	path, err := f.Resolve(context.Background(), "cities.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cities.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, citiesCSV, string(data))

	_, err = f.Resolve(context.Background(), "cities.csv")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "second resolve is served from cache")
	assert.InDelta(t, 1, testutil.ToFloat64(m.Downloads.WithLabelValues("fetched")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Downloads.WithLabelValues("cached")), 0)
}

func TestFetcher_CacheTTL(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(citiesCSV))
	}))
	defer srv.Close()

	dir := t.TempDir()
	written := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	cached := filepath.Join(dir, "cities.csv")
	require.NoError(t, os.WriteFile(cached, []byte("stale"), 0o600))
	require.NoError(t, os.Chtimes(cached, written, written))

	clock := clockwork.NewFakeClockAt(written.Add(time.Hour))
	domain.SetClock(clock)
	defer domain.SetClock(nil)

	f, _ := newTestFetcher(t, FetchConfig{BaseURL: srv.URL, DataDir: dir, CacheTTL: 2 * time.Hour})

	_, err := f.Resolve(context.Background(), "cities.csv")
	require.NoError(t, err)
	assert.Zero(t, hits.Load(), "fresh cache is reused")

	clock.Advance(2 * time.Hour)
	_, err = f.Resolve(context.Background(), "cities.csv")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "expired cache is refreshed")

	data, err := os.ReadFile(cached)
	require.NoError(t, err)
	assert.Equal(t, citiesCSV, string(data))
}

func TestFetcher_FailedDownloadLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	f, m := newTestFetcher(t, FetchConfig{BaseURL: srv.URL, DataDir: dir})

	_, err := f.Resolve(context.Background(), "cities.csv")
	require.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Contains(t, err.Error(), "status 404")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Downloads.WithLabelValues("error")), 0)
}

func TestFetcher_Retries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(citiesCSV))
	}))
	defer srv.Close()

	tests := []struct {
		name     string
		retries  int
		wantErr  bool
		wantHits int32
	}{
		{"no retry by default", 0, true, 1},
		{"succeeds on third attempt", 2, false, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits.Store(0)
			f, _ := newTestFetcher(t, FetchConfig{BaseURL: srv.URL, DataDir: t.TempDir(), Retries: tt.retries})
			_, err := f.Resolve(context.Background(), "cities.csv")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantHits, hits.Load())
		})
	}
}

func TestFetcher_LocalPath(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "cities.csv")
	require.NoError(t, os.WriteFile(local, []byte(citiesCSV), 0o600))

	f, _ := newTestFetcher(t, FetchConfig{DataDir: t.TempDir()})

	got, err := f.Resolve(context.Background(), local)
	require.NoError(t, err)
	assert.Equal(t, local, got)

	_, err = f.Resolve(context.Background(), filepath.Join(dir, "missing.csv"))
	require.ErrorIs(t, err, ErrSourceUnavailable)

	_, err = f.Resolve(context.Background(), "cities.csv")
	require.ErrorIs(t, err, ErrSourceUnavailable, "bare names need a base URL")
}

func TestLoader_LoadsAllTables(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		return p
	}
	sources := Sources{
		Cities:          write("cities.csv", citiesCSV),
		MajorCities:     write("majorCities.csv", majorCitiesCSV),
		TempByCity:      write("byCity.csv", tempCSV),
		TempByMajorCity: write("byMajorCity.csv", tempCSV),
	}

	f, m := newTestFetcher(t, FetchConfig{DataDir: dir})
	loader := NewLoader(f, sources, testLogger(), m)

	tables, err := Load(context.Background(), loader)
	require.NoError(t, err)

	assert.Len(t, tables.Cities, 3)
	assert.Len(t, tables.MajorCities, 2)
	assert.Len(t, tables.TempByCity, 3)
	assert.Len(t, tables.TempByMajorCity, 3)
	assert.Equal(t, "January", tables.Months["01"])
	assert.InDelta(t, 3, testutil.ToFloat64(m.RowsLoaded.WithLabelValues("cities")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.RowsDropped.WithLabelValues("cities")), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(m.RowsDropped.WithLabelValues("temp_by_city")), 0)
}

func TestLoader_UnavailableSourceIsFatal(t *testing.T) {
	f, m := newTestFetcher(t, FetchConfig{DataDir: t.TempDir()})
	loader := NewLoader(f, Sources{Cities: "/nonexistent/cities.csv"}, testLogger(), m)

	_, err := Load(context.Background(), loader)
	require.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Contains(t, err.Error(), "load cities")
}

func TestStaticProvider(t *testing.T) {
	p := StaticProvider{
		Cities:     []domain.City{{Name: "Rome", Country: "Italy"}},
		TempByCity: []domain.TemperatureRecord{{Date: "2000-01-01", City: "Rome"}},
	}
	tables, err := Load(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, p.Cities, tables.Cities)
	assert.Empty(t, tables.MajorCities)
	assert.Equal(t, p.TempByCity, tables.TempByCity)
}
