package route

import (
	"math"

	"github.com/dpup/trek.ersn.net/server/internal/lib/geo"
)

// Nearest is the route vertex closest to some point
type Nearest struct {
	Day        int       `json:"day"`
	Point      geo.Point `json:"point"`
	DistanceKm float64   `json:"distance_km"`
}

// NearestDay finds the day whose segment passes closest to p. Distance is
// measured to segment vertices, which is close enough for densely recorded
// tracks. Returns false for an empty collection.
func (c Collection) NearestDay(p geo.Point, calc geo.Calculator) (Nearest, bool) {
	best := Nearest{DistanceKm: math.Inf(1)}
	for _, d := range c.Days {
		for _, vertex := range d.Points {
			if dist := calc.Distance(p, vertex); dist < best.DistanceKm {
				best = Nearest{Day: d.Day, Point: vertex, DistanceKm: dist}
			}
		}
	}
	return best, best.Day != 0
}
