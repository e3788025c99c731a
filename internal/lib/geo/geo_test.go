package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-polyline"
)

func TestGeodesicCalculator_Distance(t *testing.T) {
	calc := NewGeodesicCalculator()

	// Highway 4: Angels Camp to Murphys
	angelscamp := Point{Latitude: 38.0675, Longitude: -120.5436}
	murphys := Point{Latitude: 38.1391, Longitude: -120.4561}

	distance := calc.Distance(angelscamp, murphys)
	assert.InDelta(t, 11.05, distance, 0.1, "Distance should be approximately 11km")

	// One degree of longitude on the equator is 111.319 km on WGS84
	equator := calc.Distance(Point{0, 0}, Point{0, 1})
	assert.InDelta(t, 111.3195, equator, 0.001)

	// One degree of latitude at the equator is shorter than on a sphere of mean radius
	meridian := calc.Distance(Point{0, 0}, Point{1, 0})
	assert.InDelta(t, 110.574, meridian, 0.001)
}

func TestGeodesicCalculator_Symmetric(t *testing.T) {
	calc := NewGeodesicCalculator()

	pairs := [][2]Point{
		{{38.0675, -120.5436}, {38.1391, -120.4561}},
		{{42.5987, -5.5671}, {42.8805, -8.5457}},
		{{-33.8688, 151.2093}, {51.5072, -0.1276}},
		{{0, 0}, {0, 0}},
		{{10, 179.5}, {10, -179.5}},
	}

	for _, pair := range pairs {
		ab := calc.Distance(pair[0], pair[1])
		ba := calc.Distance(pair[1], pair[0])
		assert.Equal(t, ab, ba, "distance must be symmetric for %v", pair)
		assert.GreaterOrEqual(t, ab, 0.0)
	}
}

func TestGeodesicCalculator_AntimeridianIsShort(t *testing.T) {
	calc := NewGeodesicCalculator()

	d := calc.Distance(Point{0, 179.5}, Point{0, -179.5})
	assert.InDelta(t, 111.3195, d, 0.001, "crossing the antimeridian should take the short way")
}

func TestGeodesicCalculator_PathLength(t *testing.T) {
	calc := NewGeodesicCalculator()

	assert.Equal(t, 0.0, calc.PathLength(nil))
	assert.Equal(t, 0.0, calc.PathLength([]Point{{1, 1}}))

	path := []Point{{0, 0}, {0, 1}, {0, 2}}
	assert.InDelta(t, 2*calc.Distance(path[0], path[1]), calc.PathLength(path), 1e-9)

	// Camino Francés: León to Santiago is ~245km as the crow flies
	leon := Point{Latitude: 42.5987, Longitude: -5.5671}
	santiago := Point{Latitude: 42.8805, Longitude: -8.5457}
	assert.InDelta(t, 245, calc.PathLength([]Point{leon, santiago}), 10)
}

func TestInterpolate(t *testing.T) {
	start := Point{Latitude: 10, Longitude: 20}
	end := Point{Latitude: 20, Longitude: 40}

	assert.Equal(t, start, Interpolate(start, end, 0))
	assert.Equal(t, end, Interpolate(start, end, 1))
	assert.Equal(t, Point{Latitude: 15, Longitude: 30}, Interpolate(start, end, 0.5))
	assert.Equal(t, Point{Latitude: 12.5, Longitude: 25}, Interpolate(start, end, 0.25))
}

func TestPolylineRoundTrip(t *testing.T) {
	points := []Point{
		{Latitude: 38.5, Longitude: -120.2},
		{Latitude: 40.7, Longitude: -120.95},
		{Latitude: 43.252, Longitude: -126.453},
	}

	encoded := EncodePolyline(points)
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", encoded)

	coords, rest, err := polyline.DecodeCoords([]byte(encoded))
	require.NoError(t, err)
	assert.Empty(t, rest)
	require.Len(t, coords, len(points))
	for i := range points {
		assert.InDelta(t, points[i].Latitude, coords[i][0], 1e-5)
		assert.InDelta(t, points[i].Longitude, coords[i][1], 1e-5)
	}

	assert.Equal(t, "", EncodePolyline(nil))
}

func TestNormalizeLongitude(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 0, want: 0},
		{in: 180, want: 180},
		{in: -180, want: -180},
		{in: 190, want: -170},
		{in: -190, want: 170},
		{in: 400, want: 40},
		{in: -540, want: -180},
		{in: 720, want: 0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, NormalizeLongitude(tt.in), 1e-9, "longitude %v", tt.in)
	}
}

func TestNewPoint(t *testing.T) {
	point, err := NewPoint(38.0675, -120.5436)
	require.NoError(t, err)
	assert.Equal(t, 38.0675, point.Latitude)
	assert.Equal(t, -120.5436, point.Longitude)

	_, err = NewPoint(91, 0)
	assert.Error(t, err)

	_, err = NewPoint(0, -181)
	assert.Error(t, err)
}
