package route

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-kml"

	"github.com/dpup/trek.ersn.net/server/internal/cache"
	"github.com/dpup/trek.ersn.net/server/internal/lib/geo"
	"github.com/dpup/trek.ersn.net/server/internal/lib/kmltrack"
)

func trackFile(t *testing.T, points ...geo.Point) *fstest.MapFile {
	t.Helper()

	coords := make([]kml.Coordinate, len(points))
	for i, p := range points {
		coords[i] = kml.Coordinate{Lon: p.Longitude, Lat: p.Latitude}
	}

	var buf bytes.Buffer
	doc := kml.KML(kml.Document(kml.Placemark(kml.LineString(kml.Coordinates(coords...)))))
	require.NoError(t, doc.WriteIndent(&buf, "", "  "))
	return &fstest.MapFile{Data: buf.Bytes()}
}

func TestLoad_ConcatenatesInFilenameOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"day2.kml":   trackFile(t, geo.Point{Latitude: 2, Longitude: 20}),
		"day1.kml":   trackFile(t, geo.Point{Latitude: 1, Longitude: 10}, geo.Point{Latitude: 1.5, Longitude: 15}),
		"day10.kml":  trackFile(t, geo.Point{Latitude: 10, Longitude: 100}),
		"notes.txt":  &fstest.MapFile{Data: []byte("not a track")},
		"nested.kml": &fstest.MapFile{Mode: fs.ModeDir},
	}

	track, err := NewLoader(nil, nil).Load(fsys, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"day1.kml", "day10.kml", "day2.kml"}, track.Files, "lexicographic, not natural, order")
	assert.Equal(t, []geo.Point{
		{Latitude: 1, Longitude: 10},
		{Latitude: 1.5, Longitude: 15},
		{Latitude: 10, Longitude: 100},
		{Latitude: 2, Longitude: 20},
	}, track.Points)
}

func TestLoad_NoFiles(t *testing.T) {
	_, err := NewLoader(nil, nil).Load(fstest.MapFS{"readme.md": &fstest.MapFile{}}, "*.kml")

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "*.kml", notFound.Pattern)
	assert.Empty(t, notFound.Files)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoad_FilesWithoutLineStrings(t *testing.T) {
	fsys := fstest.MapFS{
		"empty.kml": &fstest.MapFile{Data: []byte(`<kml><Document><Placemark><Point><coordinates>1,2</coordinates></Point></Placemark></Document></kml>`)},
	}

	_, err := NewLoader(nil, nil).Load(fsys, "*.kml")

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, []string{"empty.kml"}, notFound.Files)
	assert.Contains(t, err.Error(), "no track points")
}

func TestLoad_FormatErrorNamesFile(t *testing.T) {
	fsys := fstest.MapFS{
		"a.kml": trackFile(t, geo.Point{Latitude: 1, Longitude: 1}),
		"b.kml": &fstest.MapFile{Data: []byte(`<kml><LineString><coordinates>1,abc</coordinates></LineString></kml>`)},
	}

	_, err := NewLoader(nil, nil).Load(fsys, "*.kml")

	var formatErr *kmltrack.FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, "b.kml", formatErr.Name)
}

func TestLoad_UsesCache(t *testing.T) {
	trackCache := cache.NewTrackCache()
	loader := NewLoader(trackCache, nil)
	fsys := fstest.MapFS{
		"a.kml": trackFile(t, geo.Point{Latitude: 1, Longitude: 1}, geo.Point{Latitude: 2, Longitude: 2}),
		"b.kml": trackFile(t, geo.Point{Latitude: 3, Longitude: 3}),
	}

	first, err := loader.Load(fsys, "*.kml")
	require.NoError(t, err)
	stats := trackCache.Stats()
	assert.Equal(t, 2, stats.TotalEntries)
	assert.Equal(t, 0, stats.Hits)

	second, err := loader.Load(fsys, "*.kml")
	require.NoError(t, err)
	assert.Equal(t, first.Points, second.Points)
	assert.Equal(t, 2, trackCache.Stats().Hits)

	// Changed content is parsed again, removed files leave the cache
	fsys["a.kml"] = trackFile(t, geo.Point{Latitude: 5, Longitude: 5})
	delete(fsys, "b.kml")

	third, err := loader.Load(fsys, "*.kml")
	require.NoError(t, err)
	assert.Equal(t, []geo.Point{{Latitude: 5, Longitude: 5}}, third.Points)
	assert.Equal(t, 1, trackCache.Stats().TotalEntries)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	file := trackFile(t, geo.Point{Latitude: 42.5987, Longitude: -5.5671}, geo.Point{Latitude: 42.6012, Longitude: -5.6203})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "camino.kml"), file.Data, 0o644))

	track, err := NewLoader(nil, nil).LoadDir(dir, DefaultPattern)
	require.NoError(t, err)
	assert.Len(t, track.Points, 2)

	_, err = NewLoader(nil, nil).LoadDir(t.TempDir(), DefaultPattern)
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.NotEmpty(t, notFound.Dir)
	assert.Contains(t, err.Error(), notFound.Dir)
}

func TestLoadRoute(t *testing.T) {
	fsys := fstest.MapFS{
		"route.kml": trackFile(t, hundredKm().Points...),
	}

	collection, stats, err := LoadRoute(fsys, "*.kml", defaultWindow)
	require.NoError(t, err)
	assert.Equal(t, 10, collection.Len())
	assert.InDelta(t, 100, stats.TotalDistanceKm, 0.01)
}
