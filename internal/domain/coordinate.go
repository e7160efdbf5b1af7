package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseCoordinate parses a latitude or longitude in either signed decimal
// degrees ("-33.86") or hemisphere-suffixed form ("33.86S").
func ParseCoordinate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("parse coordinate: empty value")
	}

	sign := 1.0
	switch s[len(s)-1] {
	case 'N', 'n', 'E', 'e':
		s = s[:len(s)-1]
	case 'S', 's', 'W', 'w':
		sign = -1
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse coordinate %q: %w", s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("parse coordinate %q: not a finite number", s)
	}
	return sign * v, nil
}
