package render

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"

	"github.com/couchcryptid/city-climate-explorer/internal/domain"
)

// fallback cycles through when a series or map carries no colour name.
var fallback = []color.RGBA{
	colornames.Steelblue,
	colornames.Darkorange,
	colornames.Forestgreen,
	colornames.Firebrick,
	colornames.Mediumpurple,
}

// namedColor resolves a CSS colour name case-insensitively ("DarkRed" and
// "darkred" are the same colour).
func namedColor(name string) (color.RGBA, bool) {
	c, ok := colornames.Map[strings.ToLower(name)]
	return c, ok
}

func colorOr(name string, i int) color.RGBA {
	if c, ok := namedColor(name); ok {
		return c
	}
	return fallback[i%len(fallback)]
}

// colormap maps a named scale onto a gonum palette. A "_r" suffix reverses
// the scale, so "Hot_r" runs from white for low values to black for high ones.
func colormap(name string) palette.ColorMap {
	base, reversed := strings.CutSuffix(name, "_r")
	var cm palette.ColorMap
	switch strings.ToLower(base) {
	case "hot", "blackbody":
		cm = moreland.BlackBody()
	case "kindlmann":
		cm = moreland.Kindlmann()
	default:
		cm = moreland.ExtendedBlackBody()
	}
	if reversed {
		cm = palette.Reverse(cm)
	}
	return cm
}

// pointStyle colours map points from their Value through the map's colormap,
// scaled to the range of the values present, or with the fixed marker colour.
type pointStyle struct {
	points []domain.MapPoint
	cm     palette.ColorMap
	marker color.Color
}

// newPointStyle scales the colormap over the points at idx, or over every
// point when idx is nil.
func newPointStyle(m domain.Map, idx []int) pointStyle {
	if idx == nil {
		idx = make([]int, len(m.Points))
		for i := range idx {
			idx[i] = i
		}
	}
	s := pointStyle{points: m.Points, marker: colorOr(m.MarkerColor, 0)}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, i := range idx {
		if v := m.Points[i].Value; v != nil {
			lo, hi = math.Min(lo, *v), math.Max(hi, *v)
		}
	}
	if math.IsInf(lo, 1) {
		return s
	}
	if hi <= lo {
		hi = lo + 1
	}
	s.cm = colormap(m.Colormap)
	s.cm.SetMin(lo)
	s.cm.SetMax(hi)
	return s
}

func (s pointStyle) color(i int) color.Color {
	if v := s.points[i].Value; v != nil && s.cm != nil {
		if c, err := s.cm.At(*v); err == nil {
			return c
		}
	}
	return s.marker
}

// hex formats c as #rrggbb for GeoJSON marker-color properties.
func hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
