package render

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"

	"github.com/couchcryptid/city-climate-explorer/internal/domain"
)

// bounds is the lat/lng rectangle covering every point, or EmptyRect when
// there are none.
func bounds(points []domain.MapPoint) s2.Rect {
	r := s2.EmptyRect()
	for _, p := range points {
		r = r.AddPoint(s2.LatLngFromDegrees(p.Latitude, p.Longitude))
	}
	return r
}

// extent returns the padded degree window for a flat map. Without fitting,
// or when the bounds wrap the antimeridian, the whole world is shown.
func extent(points []domain.MapPoint, fit bool) (minLon, maxLon, minLat, maxLat float64) {
	r := bounds(points)
	if !fit || r.IsEmpty() || r.Lng.IsInverted() {
		return -180, 180, -90, 90
	}
	lo, hi := r.Lo(), r.Hi()
	const pad = 2.0
	return math.Max(lo.Lng.Degrees()-pad, -180), math.Min(hi.Lng.Degrees()+pad, 180),
		math.Max(lo.Lat.Degrees()-pad, -90), math.Min(hi.Lat.Degrees()+pad, 90)
}

// orthographic projects points onto the unit disc of a globe seen from
// center. ok is false for points on the far hemisphere.
type orthographic struct {
	center, east, north r3.Vector
}

func newOrthographic(center s2.LatLng) orthographic {
	lat, lng := center.Lat.Radians(), center.Lng.Radians()
	return orthographic{
		center: s2.PointFromLatLng(center).Vector,
		east:   r3.Vector{X: -math.Sin(lng), Y: math.Cos(lng)},
		north:  r3.Vector{X: -math.Sin(lat) * math.Cos(lng), Y: -math.Sin(lat) * math.Sin(lng), Z: math.Cos(lat)},
	}
}

// globeFor centres the globe on the middle of the points' bounds.
func globeFor(points []domain.MapPoint) orthographic {
	r := bounds(points)
	if r.IsEmpty() {
		return newOrthographic(s2.LatLngFromDegrees(0, 0))
	}
	return newOrthographic(r.Center())
}

func (o orthographic) project(lat, lng float64) (x, y float64, ok bool) {
	p := s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lng)).Vector
	if p.Dot(o.center) < 0 {
		return 0, 0, false
	}
	return p.Dot(o.east), p.Dot(o.north), true
}
