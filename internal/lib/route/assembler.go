package route

import (
	"fmt"
	"io/fs"

	"github.com/dpup/trek.ersn.net/server/internal/lib/geo"
)

// Assembler turns a track and a time window into day segments and statistics
type Assembler struct {
	calc      geo.Calculator
	segmenter *Segmenter
	palette   []string
}

// Option configures an Assembler
type Option func(*Assembler)

// WithPalette sets the colors assigned to days. An empty palette keeps the default.
func WithPalette(palette []string) Option {
	return func(a *Assembler) {
		if len(palette) > 0 {
			a.palette = append([]string(nil), palette...)
		}
	}
}

// NewAssembler creates an Assembler measuring with calc
func NewAssembler(calc geo.Calculator, opts ...Option) *Assembler {
	a := &Assembler{
		calc:      calc,
		segmenter: NewSegmenter(calc),
		palette:   DefaultPalette,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Calculator returns the distance calculator used by the assembler
func (a *Assembler) Calculator() geo.Calculator {
	return a.calc
}

// Color returns the palette color for a 1-based day
func (a *Assembler) Color(day int) string {
	n := len(a.palette)
	return a.palette[((day-1)%n+n)%n]
}

// Assemble splits track into one segment per day of window and computes the
// route statistics.
func (a *Assembler) Assemble(track Track, window TimeWindow) (Collection, Statistics, error) {
	if track.Empty() {
		return Collection{}, Statistics{}, ErrEmptyTrack
	}

	total := a.calc.PathLength(track.Points)
	days := window.Days()
	daily := total / float64(days)

	var segments []Segment
	if daily > 0 {
		var err error
		segments, err = a.segmenter.Split(track.Points, daily)
		if err != nil {
			return Collection{}, Statistics{}, fmt.Errorf("failed to split track: %w", err)
		}
	} else {
		// Zero-length tracks (a single point, or one spot recorded many
		// times) are a single segment.
		segments = []Segment{{Points: append([]geo.Point(nil), track.Points...)}}
	}

	collection := Collection{Days: make([]DaySegment, len(segments))}
	for i, segment := range segments {
		collection.Days[i] = DaySegment{
			Segment: segment,
			Day:     i + 1,
			Color:   a.Color(i + 1),
		}
	}

	stats := Statistics{
		TotalDistanceKm: total,
		DailyDistanceKm: daily,
		SpeedMps:        total * 1000 / window.Seconds(),
		StartTime:       window.Start,
		EndTime:         window.End,
		Days:            days,
	}

	return collection, stats, nil
}

// Empty returns the valid, empty result used when there is no track data
func (a *Assembler) Empty(window TimeWindow) (Collection, Statistics) {
	return Collection{Days: []DaySegment{}}, Statistics{
		StartTime: window.Start,
		EndTime:   window.End,
		Days:      window.Days(),
	}
}

// Recompute derives state's collection and statistics for window from the
// track already held in state. State is only modified on success. A state
// without track points gets the empty result.
func (a *Assembler) Recompute(state *State, window TimeWindow) error {
	if state.Track.Empty() {
		state.Collection, state.Statistics = a.Empty(window)
		state.Window = window
		return nil
	}

	collection, stats, err := a.Assemble(state.Track, window)
	if err != nil {
		return err
	}

	state.Window = window
	state.Collection = collection
	state.Statistics = stats
	return nil
}

// LoadRoute loads the track files in fsys matching pattern and assembles them
// for window using the default calculator and palette.
func LoadRoute(fsys fs.FS, pattern string, window TimeWindow) (Collection, Statistics, error) {
	track, err := NewLoader(nil, nil).Load(fsys, pattern)
	if err != nil {
		return Collection{}, Statistics{}, err
	}
	return NewAssembler(geo.NewGeodesicCalculator()).Assemble(track, window)
}
