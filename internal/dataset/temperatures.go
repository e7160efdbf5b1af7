package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/city-climate-explorer/internal/domain"
)

var temperatureColumns = []string{
	"dt", "AverageTemperature", "AverageTemperatureUncertainty",
	"City", "Country", "Latitude", "Longitude",
}

// parseTemperatures streams a temperature table row by row. The full
// by-city table has millions of rows, so it is not materialised as a
// dataframe first. Rows with any empty or unparsable field are dropped.
func parseTemperatures(r io.Reader) ([]domain.TemperatureRecord, int, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read temperature header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	pos := make([]int, len(temperatureColumns))
	for i, name := range temperatureColumns {
		j, ok := idx[name]
		if !ok {
			return nil, 0, fmt.Errorf("read temperature csv: missing column %q", name)
		}
		pos[i] = j
	}

	var out []domain.TemperatureRecord
	names := interner{}
	dropped := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read temperature csv: %w", err)
		}
		row, ok := parseTemperatureRow(rec, pos, names)
		if !ok {
			dropped++
			continue
		}
		out = append(out, row)
	}
	return out, dropped, nil
}

// interner shares one copy of each city and country name across rows. The
// by-city table repeats a few thousand names millions of times.
type interner map[string]string

func (in interner) intern(s string) string {
	if v, ok := in[s]; ok {
		return v
	}
	v := strings.Clone(s)
	in[v] = v
	return v
}

func parseTemperatureRow(rec []string, pos []int, names interner) (domain.TemperatureRecord, bool) {
	field := func(i int) string {
		if pos[i] >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[pos[i]])
	}
	for i := range pos {
		if field(i) == "" {
			return domain.TemperatureRecord{}, false
		}
	}

	avg, err := strconv.ParseFloat(field(1), 64)
	if err != nil || math.IsNaN(avg) || math.IsInf(avg, 0) {
		return domain.TemperatureRecord{}, false
	}
	unc, err := strconv.ParseFloat(field(2), 64)
	if err != nil || math.IsNaN(unc) || math.IsInf(unc, 0) {
		return domain.TemperatureRecord{}, false
	}
	lat, err := domain.ParseCoordinate(field(5))
	if err != nil {
		return domain.TemperatureRecord{}, false
	}
	lon, err := domain.ParseCoordinate(field(6))
	if err != nil {
		return domain.TemperatureRecord{}, false
	}

	return domain.TemperatureRecord{
		Date:        strings.Clone(field(0)),
		AverageTemp: avg,
		Uncertainty: unc,
		City:        names.intern(field(3)),
		Country:     names.intern(field(4)),
		Latitude:    lat,
		Longitude:   lon,
	}, true
}
