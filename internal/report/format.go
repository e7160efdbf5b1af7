package report

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numbers = message.NewPrinter(language.English)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// formatDecimal prints the shortest representation of v, keeping at least
// one fractional digit: 1234.5 → "1234.5", 12 → "12.0".
func formatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

// formatGrouped prints n with comma thousands separators.
func formatGrouped(n int64) string {
	return numbers.Sprintf("%d", n)
}
