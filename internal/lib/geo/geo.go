package geo

import (
	"errors"
	"math"

	"github.com/tidwall/geodesic"
	"github.com/twpayne/go-polyline"
)

// geodesicCalculator implements Calculator on the WGS84 ellipsoid
type geodesicCalculator struct {
	ellipsoid *geodesic.Ellipsoid
}

// NewGeodesicCalculator creates a Calculator that solves the inverse geodesic
// problem on the WGS84 ellipsoid (Karney's method). Accurate to nanometers,
// which matters for multi-hundred-kilometer paths where haversine drifts by
// several hundred meters.
func NewGeodesicCalculator() Calculator {
	return &geodesicCalculator{ellipsoid: geodesic.WGS84}
}

// Distance returns the ellipsoidal distance between a and b in kilometers
func (g *geodesicCalculator) Distance(a, b Point) float64 {
	if a == b {
		return 0
	}

	// Solve in a canonical order so Distance(a, b) == Distance(b, a) exactly.
	if less(b, a) {
		a, b = b, a
	}

	var meters float64
	g.ellipsoid.Inverse(a.Latitude, a.Longitude, b.Latitude, b.Longitude, &meters, nil, nil)
	return meters / 1000
}

// PathLength sums consecutive distances along points
func (g *geodesicCalculator) PathLength(points []Point) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += g.Distance(points[i-1], points[i])
	}
	return total
}

func less(a, b Point) bool {
	if a.Latitude != b.Latitude {
		return a.Latitude < b.Latitude
	}
	return a.Longitude < b.Longitude
}

// Interpolate returns the point a fraction t of the way from start to end,
// interpolating latitude and longitude linearly. t=0 returns start, t=1 returns end.
//
// This is not a great-circle interpolation. For day-sized steps along a track
// the error is small, and route output depends on this exact formula.
func Interpolate(start, end Point, t float64) Point {
	if t == 1 {
		return end
	}
	return Point{
		Latitude:  start.Latitude + (end.Latitude-start.Latitude)*t,
		Longitude: start.Longitude + (end.Longitude-start.Longitude)*t,
	}
}

// EncodePolyline encodes points using Google's polyline algorithm (precision 5)
func EncodePolyline(points []Point) string {
	if len(points) == 0 {
		return ""
	}

	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Latitude, p.Longitude}
	}
	return string(polyline.EncodeCoords(coords))
}

// NormalizeLongitude wraps a longitude into [-180, 180]. Values already in
// range are returned unchanged, so both 180 and -180 survive.
func NormalizeLongitude(longitude float64) float64 {
	if longitude >= -180 && longitude <= 180 {
		return longitude
	}
	wrapped := math.Mod(longitude+180, 360)
	if wrapped < 0 {
		wrapped += 360
	}
	return wrapped - 180
}

// NewPoint creates a Point from latitude and longitude values with validation
func NewPoint(latitude, longitude float64) (Point, error) {
	point := Point{Latitude: latitude, Longitude: longitude}
	if !IsValid(point) {
		return Point{}, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
	}
	return point, nil
}

// IsValid validates latitude and longitude ranges
func IsValid(point Point) bool {
	return point.Latitude >= -90 && point.Latitude <= 90 &&
		point.Longitude >= -180 && point.Longitude <= 180
}
