package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dpup/trek.ersn.net/server/internal/lib/geo"
)

func TestTrackCache_GetSet(t *testing.T) {
	c := NewTrackCache()
	points := []geo.Point{{Latitude: 1, Longitude: 2}}
	digest := Sum([]byte("<kml/>"))

	_, found := c.Get("a.kml", digest)
	assert.False(t, found, "empty cache should miss")

	c.Set("a.kml", digest, points)

	got, found := c.Get("a.kml", digest)
	assert.True(t, found)
	assert.Equal(t, points, got)

	_, found = c.Get("a.kml", Sum([]byte("<kml>changed</kml>")))
	assert.False(t, found, "changed content should miss")

	_, found = c.Get("b.kml", digest)
	assert.False(t, found, "same content under another name should miss")

	stats := c.Stats()
	assert.Equal(t, 1, stats.TotalEntries)
	assert.Equal(t, 1, stats.TotalPoints)
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 3, stats.Misses)
}

func TestTrackCache_SetReplaces(t *testing.T) {
	c := NewTrackCache()
	first := Sum([]byte("one"))
	second := Sum([]byte("two"))

	c.Set("a.kml", first, []geo.Point{{Latitude: 1}})
	c.Set("a.kml", second, []geo.Point{{Latitude: 2}})

	_, found := c.Get("a.kml", first)
	assert.False(t, found)

	got, found := c.Get("a.kml", second)
	assert.True(t, found)
	assert.Equal(t, 2.0, got[0].Latitude)
}

func TestTrackCache_Retain(t *testing.T) {
	c := NewTrackCache()
	for _, name := range []string{"a.kml", "b.kml", "c.kml"} {
		c.Set(name, Sum([]byte(name)), nil)
	}

	removed := c.Retain([]string{"b.kml", "d.kml"})
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, c.Stats().TotalEntries)

	_, found := c.Get("b.kml", Sum([]byte("b.kml")))
	assert.True(t, found)

	c.Delete("b.kml")
	assert.Equal(t, 0, c.Stats().TotalEntries)
}

func TestTrackCache_Stats(t *testing.T) {
	c := NewTrackCache()
	base := time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)
	now := base
	c.now = func() time.Time { return now }

	c.Set("a.kml", Sum([]byte("a")), []geo.Point{{}, {}})
	now = base.Add(time.Hour)
	c.Set("b.kml", Sum([]byte("b")), []geo.Point{{}})

	stats := c.Stats()
	assert.Equal(t, 2, stats.TotalEntries)
	assert.Equal(t, 3, stats.TotalPoints)
	assert.Equal(t, base, stats.OldestEntry)
	assert.Equal(t, base.Add(time.Hour), stats.NewestEntry)

	c.Clear()
	assert.Equal(t, 0, c.Stats().TotalEntries)
}

func TestDigest_String(t *testing.T) {
	d := Sum([]byte("abc"))
	assert.Len(t, d.String(), 64)
	assert.Equal(t, d, Sum([]byte("abc")))
	assert.NotEqual(t, d, Sum([]byte("abd")))
}
