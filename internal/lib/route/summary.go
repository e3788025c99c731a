package route

import (
	"time"

	"github.com/dpup/trek.ersn.net/server/internal/lib/geo"
)

// DaySummary describes one day of a route without its full point list
type DaySummary struct {
	Day        int       `json:"day"`
	Color      string    `json:"color"`
	DistanceKm float64   `json:"distance_km"`
	Points     int       `json:"points"`
	Start      geo.Point `json:"start"`
	End        geo.Point `json:"end"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	Polyline   string    `json:"polyline"`
}

// Summaries returns one summary per day. Day N covers the window from
// Start+(N-1) days; the final day runs to the end of the window.
func (c Collection) Summaries(calc geo.Calculator, window TimeWindow) []DaySummary {
	summaries := make([]DaySummary, 0, len(c.Days))
	for i, d := range c.Days {
		if len(d.Points) == 0 {
			continue
		}

		from := window.Start.Add(time.Duration(d.Day-1) * day)
		to := from.Add(day)
		if i == len(c.Days)-1 || to.After(window.End) {
			to = window.End
		}

		summaries = append(summaries, DaySummary{
			Day:        d.Day,
			Color:      d.Color,
			DistanceKm: calc.PathLength(d.Points),
			Points:     len(d.Points),
			Start:      d.Points[0],
			End:        d.Points[len(d.Points)-1],
			StartTime:  FormatTimestamp(from),
			EndTime:    FormatTimestamp(to),
			Polyline:   geo.EncodePolyline(d.Points),
		})
	}
	return summaries
}
