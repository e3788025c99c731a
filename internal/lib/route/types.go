package route

import (
	"time"

	"github.com/dpup/trek.ersn.net/server/internal/lib/geo"
)

// DefaultPalette colors day segments, cycling when a route has more days
var DefaultPalette = []string{
	"#ff0000",
	"#ff7f00",
	"#ffff00",
	"#7fff00",
	"#00ff00",
	"#00ffff",
	"#0000ff",
	"#8b00ff",
	"#ff00ff",
	"#ff007f",
}

// Track is the concatenation of all input files in filename order
type Track struct {
	Points []geo.Point `json:"points"`
	Files  []string    `json:"files"`
}

// Empty reports whether the track has no points to process
func (t Track) Empty() bool {
	return len(t.Points) == 0
}

// Segment is a contiguous piece of a track. Every segment after the first
// begins with a copy of the previous segment's last point.
type Segment struct {
	Points []geo.Point `json:"points"`

	// Interpolated is true when the last point was synthesized at a cut
	// rather than taken from the track.
	Interpolated bool `json:"interpolated"`
}

// DaySegment is a segment tagged with its 1-based day and display color
type DaySegment struct {
	Segment
	Day   int    `json:"day"`
	Color string `json:"color"`
}

// Collection is the ordered list of day segments of a route
type Collection struct {
	Days []DaySegment `json:"days"`
}

// Len returns the number of day segments
func (c Collection) Len() int {
	return len(c.Days)
}

// Statistics summarizes a route over a time window
type Statistics struct {
	TotalDistanceKm float64
	DailyDistanceKm float64
	SpeedMps        float64
	StartTime       time.Time
	EndTime         time.Time
	Days            int
}

// TimeWindow is the period over which a route is traveled
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// State is the current window and everything derived from it. It is owned
// by whoever serves requests and handed to Assembler.Recompute on change.
type State struct {
	Track      Track
	Window     TimeWindow
	Collection Collection
	Statistics Statistics
}
