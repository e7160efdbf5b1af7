package report

import (
	"fmt"

	"github.com/tidwall/geodesic"

	"github.com/couchcryptid/city-climate-explorer/internal/domain"
)

// DistanceResult is the geodesic distance between two named cities.
type DistanceResult struct {
	From       string
	To         string
	Kilometers float64 // rounded to two decimals
}

// Sentence phrases the result for display.
func (d DistanceResult) Sentence() string {
	return "The distance between " + d.From + " and " + d.To + " is " + formatDecimal(d.Kilometers) + " kilometers."
}

// Distance measures the WGS84 ellipsoidal distance between the first city
// row named a and the first named b. A name with no row is an error wrapping
// domain.ErrCityNotFound; a distance is never computed from missing coordinates.
func Distance(t *domain.Tables, a, b string) (DistanceResult, error) {
	from, err := findCity(t, a)
	if err != nil {
		return DistanceResult{}, err
	}
	to, err := findCity(t, b)
	if err != nil {
		return DistanceResult{}, err
	}

	var meters float64
	geodesic.WGS84.Inverse(from.Latitude, from.Longitude, to.Latitude, to.Longitude, &meters, nil, nil)
	return DistanceResult{From: a, To: b, Kilometers: round2(meters / 1000)}, nil
}

func findCity(t *domain.Tables, name string) (domain.City, error) {
	for _, c := range t.Cities {
		if c.Name == name {
			return c, nil
		}
	}
	if suggestion, ok := domain.Closest(name, cityNames(t), 2); ok {
		return domain.City{}, fmt.Errorf("%w: %q (did you mean %q?)", domain.ErrCityNotFound, name, suggestion)
	}
	return domain.City{}, fmt.Errorf("%w: %q", domain.ErrCityNotFound, name)
}

func cityNames(t *domain.Tables) []string {
	seen := make(map[string]bool, len(t.Cities))
	names := make([]string, 0, len(t.Cities))
	for _, c := range t.Cities {
		if !seen[c.Name] {
			seen[c.Name] = true
			names = append(names, c.Name)
		}
	}
	return names
}
