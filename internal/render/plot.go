package render

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgimg" // registers png
	_ "gonum.org/v1/plot/vg/vgsvg" // registers svg

	"github.com/couchcryptid/city-climate-explorer/internal/domain"
)

const (
	chartWidth  = 10 * vg.Inch
	panelHeight = 4 * vg.Inch
	mapWidth    = 10 * vg.Inch
	mapHeight   = 6 * vg.Inch
	globeSize   = 8 * vg.Inch
)

// PlotSurface draws charts and point maps with gonum/plot and writes them as
// PNG or SVG files.
type PlotSurface struct {
	dir    string
	format string
	logger *slog.Logger
}

// NewPlotSurface creates a surface writing to dir in the given format
// ("png" or "svg").
func NewPlotSurface(dir, format string, logger *slog.Logger) (*PlotSurface, error) {
	switch format {
	case "png", "svg":
	default:
		return nil, fmt.Errorf("unsupported plot format %q", format)
	}
	return &PlotSurface{dir: dir, format: format, logger: logger.With("component", "render")}, nil
}

// RenderChart draws every panel of c stacked vertically and returns the
// written file path.
func (s *PlotSurface) RenderChart(name string, c domain.Chart) (string, error) {
	if len(c.Panels) == 0 {
		return "", errors.New("chart has no panels")
	}

	plots := make([][]*plot.Plot, len(c.Panels))
	for i, panel := range c.Panels {
		p, err := panelPlot(panel, c.YLabel)
		if err != nil {
			return "", fmt.Errorf("panel %d: %w", i, err)
		}
		plots[i] = []*plot.Plot{p}
	}
	if c.Title != "" {
		first := plots[0][0]
		if first.Title.Text == "" || first.Title.Text == c.Title {
			first.Title.Text = c.Title
		} else {
			first.Title.Text = c.Title + "\n" + first.Title.Text
		}
	}

	height := panelHeight * vg.Length(len(plots))
	canvas, err := draw.NewFormattedCanvas(chartWidth, height, s.format)
	if err != nil {
		return "", err
	}
	dc := draw.New(canvas)
	if len(plots) == 1 {
		plots[0][0].Draw(dc)
	} else {
		tiles := draw.Tiles{Rows: len(plots), Cols: 1, PadTop: vg.Millimeter * 2, PadY: vg.Millimeter * 6, PadBottom: vg.Millimeter * 2}
		canvases := plot.Align(plots, tiles, dc)
		for j := range plots {
			plots[j][0].Draw(canvases[j][0])
		}
	}

	path, err := writeFile(s.dir, fileName(name, s.format), canvas)
	if err != nil {
		return "", err
	}
	s.logger.Debug("chart written", "path", path, "panels", len(plots))
	return path, nil
}

func panelPlot(panel domain.Panel, yLabel string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = panel.Title
	p.X.Label.Text = panel.XLabel
	p.Y.Label.Text = panel.YLabel
	if p.Y.Label.Text == "" {
		p.Y.Label.Text = yLabel
	}

	var err error
	switch panel.Kind {
	case domain.ChartBar, domain.ChartHorizontalBar:
		err = addBars(p, panel)
	case domain.ChartLine:
		err = addLines(p, panel)
	default:
		err = fmt.Errorf("unknown chart kind %q", panel.Kind)
	}
	if err != nil {
		return nil, err
	}

	if len(panel.Series) > 1 {
		p.Legend.Top = true
	}
	return p, nil
}

func addBars(p *plot.Plot, panel domain.Panel) error {
	if len(panel.Categories) == 0 {
		return nil
	}
	horizontal := panel.Kind == domain.ChartHorizontalBar
	n := len(panel.Series)
	width := vg.Points(40) / vg.Length(max(n, 1))
	if len(panel.Categories) > 20 {
		width = vg.Points(12) / vg.Length(max(n, 1))
	}

	for i, s := range panel.Series {
		values := make(plotter.Values, len(s.Values))
		for j, v := range s.Values {
			if !math.IsNaN(v) {
				values[j] = v
			}
		}
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return err
		}
		bars.Horizontal = horizontal
		bars.Color = colorOr(s.Color, i)
		bars.LineStyle.Width = 0
		bars.Offset = width * (vg.Length(i) - vg.Length(n-1)/2)
		p.Add(bars)
		if s.Label != "" {
			p.Legend.Add(s.Label, bars)
		}
	}

	labels := thin(panel.Categories, panel.TickEvery)
	if horizontal {
		p.NominalY(labels...)
		// largest value on top, as a ranking reads
		p.Y.Scale = plot.InvertedScale{Normalizer: p.Y.Scale}
		if panel.ValueMin != nil {
			p.X.Min = *panel.ValueMin
		}
		return nil
	}
	p.NominalX(labels...)
	if len(labels) > 12 {
		p.X.Tick.Label.Rotation = math.Pi / 2
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	if panel.ValueMin != nil {
		p.Y.Min = *panel.ValueMin
	}
	return nil
}

// addLines draws each series as one line per run of non-NaN values, so a
// missing month is a gap rather than a bridge.
func addLines(p *plot.Plot, panel domain.Panel) error {
	for i, s := range panel.Series {
		c := colorOr(s.Color, i)
		var legend *plotter.Line
		for _, run := range runs(s.Values) {
			line, err := plotter.NewLine(run)
			if err != nil {
				return err
			}
			line.Color = c
			line.Width = vg.Points(1.5)
			p.Add(line)
			if legend == nil {
				legend = line
			}
		}
		if legend != nil && s.Label != "" {
			p.Legend.Add(s.Label, legend)
		}
	}

	p.X.Min, p.X.Max = -0.5, float64(len(panel.Categories))-0.5
	p.X.Tick.Marker = categoryTicks(panel.Categories, panel.TickEvery)
	if panel.ValueMin != nil {
		p.Y.Min = *panel.ValueMin
	}
	return nil
}

func runs(values []float64) []plotter.XYs {
	var out []plotter.XYs
	var cur plotter.XYs
	for i, v := range values {
		if math.IsNaN(v) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: float64(i), Y: v})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// thin blanks every category label except each n-th one.
func thin(categories []string, every int) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		if every <= 1 || i%every == 0 {
			out[i] = c
		}
	}
	return out
}

func categoryTicks(categories []string, every int) plot.ConstantTicks {
	labels := thin(categories, every)
	ticks := make(plot.ConstantTicks, 0, len(labels))
	for i, l := range labels {
		if l == "" {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: float64(i), Label: l})
	}
	return ticks
}

// RenderMap draws the points as a scatter over lon/lat axes for flat maps or
// over the unit disc for globe maps.
func (s *PlotSurface) RenderMap(name string, m domain.Map) (string, error) {
	p := plot.New()
	p.Title.Text = m.Title

	xys, kept := s.project(m)
	w, h := mapWidth, mapHeight
	if m.Projection == domain.ProjectionGlobe {
		w, h = globeSize, globeSize
		p.HideAxes()
		p.X.Min, p.X.Max, p.Y.Min, p.Y.Max = -1.05, 1.05, -1.05, 1.05
		if err := addOutline(p); err != nil {
			return "", err
		}
	} else {
		p.X.Label.Text = "Longitude"
		p.Y.Label.Text = "Latitude"
		p.X.Min, p.X.Max, p.Y.Min, p.Y.Max = extent(m.Points, m.FitBounds)
	}

	if len(xys) > 0 {
		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return "", err
		}
		scatter.GlyphStyleFunc = glyphStyles(m, kept)
		p.Add(scatter)
	}

	canvas, err := draw.NewFormattedCanvas(w, h, s.format)
	if err != nil {
		return "", err
	}
	p.Draw(draw.New(canvas))

	path, err := writeFile(s.dir, fileName(name, s.format), canvas)
	if err != nil {
		return "", err
	}
	s.logger.Debug("map written", "path", path, "points", len(xys), "projection", string(m.Projection))
	return path, nil
}

// project places every visible point and returns the indexes of the map
// points it kept.
func (s *PlotSurface) project(m domain.Map) (plotter.XYs, []int) {
	xys := make(plotter.XYs, 0, len(m.Points))
	kept := make([]int, 0, len(m.Points))
	if m.Projection != domain.ProjectionGlobe {
		for i, pt := range m.Points {
			xys = append(xys, plotter.XY{X: pt.Longitude, Y: pt.Latitude})
			kept = append(kept, i)
		}
		return xys, kept
	}

	globe := globeFor(m.Points)
	for i, pt := range m.Points {
		x, y, ok := globe.project(pt.Latitude, pt.Longitude)
		if !ok {
			continue
		}
		xys = append(xys, plotter.XY{X: x, Y: y})
		kept = append(kept, i)
	}
	if hidden := len(m.Points) - len(kept); hidden > 0 {
		s.logger.Debug("points behind the globe omitted", "count", hidden)
	}
	return xys, kept
}

func addOutline(p *plot.Plot) error {
	const steps = 180
	circle := make(plotter.XYs, steps+1)
	for i := range circle {
		a := 2 * math.Pi * float64(i) / steps
		circle[i] = plotter.XY{X: math.Cos(a), Y: math.Sin(a)}
	}
	line, err := plotter.NewLine(circle)
	if err != nil {
		return err
	}
	line.Color = colorOr("Gray", 0)
	p.Add(line)
	return nil
}

func glyphStyles(m domain.Map, kept []int) func(int) draw.GlyphStyle {
	style := newPointStyle(m, kept)
	return func(i int) draw.GlyphStyle {
		idx := kept[i]
		g := draw.GlyphStyle{Color: style.color(idx), Radius: vg.Points(3), Shape: draw.CircleGlyph{}}
		if size := m.Points[idx].Size; size != nil {
			g.Radius = vg.Points(math.Max(1, math.Sqrt(math.Max(*size, 0))*1.5))
		}
		return g
	}
}
