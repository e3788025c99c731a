package geo

// Point represents a geographic coordinate in decimal degrees (WGS84).
// Tracks are always handled in (latitude, longitude) order internally; KML
// input and GeoJSON output use (longitude, latitude) and are converted at the
// edges.
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Calculator computes distances between coordinates in kilometers.
type Calculator interface {
	// Distance between two points in kilometers. Must be symmetric.
	Distance(a, b Point) float64

	// Sum of consecutive pairwise distances, 0 for fewer than two points.
	PathLength(points []Point) float64
}

// NewGeodesicCalculator is implemented in geo.go
