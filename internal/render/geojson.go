package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/project"

	"github.com/couchcryptid/city-climate-explorer/internal/domain"
)

// GeoJSONSurface exports maps as GeoJSON FeatureCollections, one Point
// feature per map point.
type GeoJSONSurface struct {
	dir    string
	logger *slog.Logger
}

// NewGeoJSONSurface writes map files into dir.
func NewGeoJSONSurface(dir string, logger *slog.Logger) *GeoJSONSurface {
	return &GeoJSONSurface{dir: dir, logger: logger.With("component", "render")}
}

// RenderMap writes m to <dir>/<name>.geojson.
func (s *GeoJSONSurface) RenderMap(name string, m domain.Map) (string, error) {
	fc := featureCollection(m)
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal geojson: %w", err)
	}

	path, err := writeFile(s.dir, fileName(name, "geojson"), bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	s.logger.Debug("geojson written", "path", path, "features", len(fc.Features))
	return path, nil
}

func featureCollection(m domain.Map) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.ExtraMembers = geojson.Properties{
		"title":      m.Title,
		"projection": string(m.Projection),
	}

	if r := bounds(m.Points); !r.IsEmpty() {
		lo, hi := r.Lo(), r.Hi()
		fc.BBox = geojson.NewBBox(orb.Bound{
			Min: orb.Point{lo.Lng.Degrees(), lo.Lat.Degrees()},
			Max: orb.Point{hi.Lng.Degrees(), hi.Lat.Degrees()},
		})
	}

	style := newPointStyle(m, nil)
	for i, p := range m.Points {
		pt := orb.Point{p.Longitude, p.Latitude}
		f := geojson.NewFeature(pt)
		for k, v := range p.Details {
			f.Properties[k] = v
		}
		f.Properties["name"] = p.Label
		if p.Size != nil {
			f.Properties["size"] = *p.Size
		}
		if p.Value != nil {
			f.Properties["value"] = *p.Value
		}
		f.Properties["marker-color"] = hex(style.color(i))
		if m.Projection == domain.ProjectionFlat {
			f.Properties["mercator"] = project.Point(pt, project.WGS84.ToMercator)
		}
		fc.Append(f)
	}
	return fc
}
