package dataset

import (
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/city-climate-explorer/internal/domain"
)

var (
	cityColumns      = []string{"City", "Country", "Latitude", "Longitude", "Continent", "Subregion"}
	majorCityColumns = []string{"City", "Country", "Latitude", "Longitude"}
)

// parseCities reads a cities table. required lists the columns that must be
// present and non-empty for a row to be kept; Continent and Subregion are
// read when present. It returns the kept rows in source order and the number
// of rows dropped.
func parseCities(r io.Reader, required []string) ([]domain.City, int, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{"", "NA", "NaN", "nan", "<nil>"}),
	)
	if df.Err != nil {
		return nil, 0, fmt.Errorf("read cities csv: %w", df.Err)
	}

	cols := make(map[string]series.Series, len(cityColumns))
	names := df.Names()
	for _, name := range cityColumns {
		if !contains(names, name) {
			continue
		}
		cols[name] = df.Col(name)
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, 0, fmt.Errorf("read cities csv: missing column %q", name)
		}
	}

	n := df.Nrow()
	out := make([]domain.City, 0, n)
	dropped := 0
	for i := 0; i < n; i++ {
		if hasNA(cols, required, i) {
			dropped++
			continue
		}
		lat, errLat := domain.ParseCoordinate(cols["Latitude"].Elem(i).String())
		lon, errLon := domain.ParseCoordinate(cols["Longitude"].Elem(i).String())
		if errLat != nil || errLon != nil {
			dropped++
			continue
		}
		out = append(out, domain.City{
			Name:      cols["City"].Elem(i).String(),
			Country:   cols["Country"].Elem(i).String(),
			Continent: optional(cols, "Continent", i),
			Subregion: optional(cols, "Subregion", i),
			Latitude:  lat,
			Longitude: lon,
		})
	}
	return out, dropped, nil
}

func hasNA(cols map[string]series.Series, required []string, i int) bool {
	for _, name := range required {
		if cols[name].Elem(i).IsNA() {
			return true
		}
	}
	return false
}

func optional(cols map[string]series.Series, name string, i int) string {
	s, ok := cols[name]
	if !ok || s.Elem(i).IsNA() {
		return ""
	}
	return s.Elem(i).String()
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
