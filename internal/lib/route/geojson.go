package route

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/dpup/trek.ersn.net/server/internal/lib/geo"
)

// FeatureCollection renders the collection as GeoJSON, one feature per day.
// Feature properties carry the day number and color. Positions are written
// longitude first.
func (c Collection) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, d := range c.Days {
		feature := geojson.NewFeature(geometry(d.Points))
		feature.Properties["day"] = d.Day
		feature.Properties["color"] = d.Color
		fc.Append(feature)
	}
	return fc
}

// geometry returns the segment as a LineString. A single-point segment
// repeats its point, since a GeoJSON LineString needs two positions.
func geometry(points []geo.Point) orb.LineString {
	if len(points) == 1 {
		p := toOrb(points[0])
		return orb.LineString{p, p}
	}
	line := make(orb.LineString, len(points))
	for i, p := range points {
		line[i] = toOrb(p)
	}
	return line
}

func toOrb(p geo.Point) orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}
