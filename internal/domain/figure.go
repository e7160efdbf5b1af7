package domain

import "fmt"

// ChartKind selects how a panel's series are drawn.
type ChartKind string

const (
	ChartBar           ChartKind = "bar"
	ChartHorizontalBar ChartKind = "hbar"
	ChartLine          ChartKind = "line"
)

// Series is one labelled sequence of values. Values align with the panel's
// categories; NaN marks a missing value and leaves a gap in line charts.
type Series struct {
	Label  string
	Color  string // CSS colour name, e.g. "DarkRed"
	Values []float64
}

// Panel is one set of axes within a chart.
type Panel struct {
	Title      string
	Kind       ChartKind
	Categories []string
	Series     []Series
	XLabel     string
	YLabel     string
	// ValueMin, when set, clips the value axis from below.
	ValueMin *float64
	// TickEvery thins category labels to every n-th one. Zero shows all.
	TickEvery int
}

// Chart is a renderer-independent description of a figure with one or more
// vertically stacked panels.
type Chart struct {
	Title  string
	YLabel string
	Panels []Panel
}

// Projection selects how map points are placed.
type Projection string

const (
	ProjectionFlat  Projection = "flat"
	ProjectionGlobe Projection = "globe"
)

// ParseProjection accepts flat/equirectangular and globe/orthographic.
func ParseProjection(s string) (Projection, error) {
	switch s {
	case "flat", "equirectangular":
		return ProjectionFlat, nil
	case "globe", "orthographic":
		return ProjectionGlobe, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProjection, s)
}

// MapPoint is a labelled location. Size and Value are optional and drive
// marker radius and colour scale respectively.
type MapPoint struct {
	Label     string
	Latitude  float64
	Longitude float64
	Size      *float64
	Value     *float64
	Details   map[string]string
}

// Map is a renderer-independent description of a point map.
type Map struct {
	Title       string
	Projection  Projection
	Points      []MapPoint
	MarkerColor string // used when points carry no Value
	Colormap    string // e.g. "Hot_r", used when points carry a Value
	FitBounds   bool
}
