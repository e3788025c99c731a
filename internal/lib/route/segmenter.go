package route

import (
	"math"

	"github.com/dpup/trek.ersn.net/server/internal/lib/geo"
)

// Cuts closer than this fraction of a step to either end snap to that end,
// so rounding in the accumulated length never yields near-duplicate points.
const cutTolerance = 1e-9

// Segmenter cuts a track into pieces of roughly equal geodesic length.
//
// Step lengths are measured geodesically, but a cut that falls inside a step
// is placed by linear interpolation of latitude and longitude. The cut point
// is therefore slightly off the true geodesic position; over day-sized steps
// the difference is negligible and route output depends on it staying this way.
type Segmenter struct {
	calc geo.Calculator
}

// NewSegmenter creates a Segmenter measuring with calc
func NewSegmenter(calc geo.Calculator) *Segmenter {
	return &Segmenter{calc: calc}
}

// Split walks points and closes a segment each time the accumulated length
// reaches targetKm. Every segment except the last has length targetKm; the
// last holds the remainder. A single point yields one single-point segment.
func (s *Segmenter) Split(points []geo.Point, targetKm float64) ([]Segment, error) {
	if len(points) == 0 {
		return nil, ErrEmptyTrack
	}
	if math.IsNaN(targetKm) || targetKm <= 0 {
		return nil, ErrInvalidTarget
	}

	var segments []Segment
	current := []geo.Point{points[0]}
	accumulated := 0.0

	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		step := s.calc.Distance(prev, cur)
		endsAtCur := false

		for accumulated+step >= targetKm {
			ratio := (targetKm - accumulated) / step

			// The cut lands on cur itself; no synthetic point is needed.
			if ratio >= 1-cutTolerance {
				current = append(current, cur)
				segments = append(segments, Segment{Points: current})
				current = []geo.Point{cur}
				accumulated = 0
				endsAtCur = true
				break
			}

			// The cut lands on prev, which already closes current.
			if ratio <= cutTolerance {
				if len(current) < 2 {
					return nil, ErrStalled
				}
				segments = append(segments, Segment{Points: current})
				current = []geo.Point{prev}
				accumulated = 0
				continue
			}

			boundary := geo.Interpolate(prev, cur, ratio)
			if boundary == prev {
				return nil, ErrStalled
			}

			current = append(current, boundary)
			segments = append(segments, Segment{Points: current, Interpolated: true})
			current = []geo.Point{boundary}
			accumulated = 0

			prev = boundary
			step = s.calc.Distance(prev, cur)
		}

		if endsAtCur {
			continue
		}
		current = append(current, cur)
		accumulated += step
	}

	// After a cut the running segment always starts with the cut point; if
	// nothing followed it there is no remainder to emit.
	if len(current) > 1 || len(segments) == 0 {
		segments = append(segments, Segment{Points: current})
	}

	return segments, nil
}
