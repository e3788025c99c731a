package route

import (
	"math"
	"time"

	"github.com/dpup/trek.ersn.net/server/internal/lib/geo"
)

// Position is where a traveler keeping a constant pace would be at a given
// instant of the window.
type Position struct {
	Point      geo.Point `json:"point"`
	Progress   float64   `json:"progress"`
	DistanceKm float64   `json:"distance_km"`
	Day        int       `json:"day"`
	At         time.Time `json:"at"`
}

// PositionAt places a tracker on track at time at. Progress is the elapsed
// fraction of window clamped to [0, 1], and the point is found by walking the
// track's cumulative distance.
func PositionAt(track Track, window TimeWindow, at time.Time, calc geo.Calculator) (Position, error) {
	if track.Empty() {
		return Position{}, ErrEmptyTrack
	}

	progress := windowProgress(window, at)
	total := calc.PathLength(track.Points)
	target := progress * total

	point := track.Points[len(track.Points)-1]
	walked := 0.0
	for i := 1; i < len(track.Points); i++ {
		prev, cur := track.Points[i-1], track.Points[i]
		step := calc.Distance(prev, cur)
		if walked+step >= target {
			if step == 0 {
				point = cur
			} else {
				point = geo.Interpolate(prev, cur, (target-walked)/step)
			}
			break
		}
		walked += step
	}
	if len(track.Points) == 1 || target == 0 {
		point = track.Points[0]
	}

	days := window.Days()
	currentDay := days
	if total > 0 {
		daily := total / float64(days)
		currentDay = min(int(math.Floor(target/daily))+1, days)
	} else if progress < 1 {
		currentDay = 1
	}

	return Position{
		Point:      point,
		Progress:   progress,
		DistanceKm: target,
		Day:        currentDay,
		At:         at,
	}, nil
}

func windowProgress(window TimeWindow, at time.Time) float64 {
	if at.Before(window.Start) {
		return 0
	}
	length := window.End.Sub(window.Start)
	if length <= 0 {
		return 1
	}
	return math.Min(float64(at.Sub(window.Start))/float64(length), 1)
}
