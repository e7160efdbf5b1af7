package countryinfo

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// geonamesCountry holds the countryInfo.txt columns the registry uses.
type geonamesCountry struct {
	ISO        string
	Name       string
	Capital    string
	Area       int64 // square km
	Population int64
}

// parseGeonames reads the geonames countryInfo.txt dump: tab separated,
// 19 columns, '#' comment lines. Malformed lines are skipped.
func parseGeonames(r io.Reader) (map[string]geonamesCountry, error) {
	out := make(map[string]geonamesCountry)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.SplitN(line, "\t", 19)
		if len(fields) != 19 || len(fields[0]) != 2 {
			continue
		}
		out[fields[0]] = geonamesCountry{
			ISO:        fields[0],
			Name:       fields[4],
			Capital:    fields[5],
			Area:       parseAmount(fields[6]),
			Population: parseAmount(fields[7]),
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read country info: %w", err)
	}
	return out, nil
}

// parseAmount accepts integers and the float forms geonames uses for some
// areas ("1.0E7", "301230.0"). Unparsable values count as zero.
func parseAmount(s string) int64 {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}
