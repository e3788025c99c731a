package route

import (
	"encoding/json"
)

type statisticsJSON struct {
	TotalDistanceKm float64 `json:"total_distance_km"`
	DailyDistanceKm float64 `json:"daily_distance_km"`
	SpeedMps        float64 `json:"speed_mps"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	Days            int     `json:"days"`
}

func (s Statistics) wire() statisticsJSON {
	return statisticsJSON{
		TotalDistanceKm: s.TotalDistanceKm,
		DailyDistanceKm: s.DailyDistanceKm,
		SpeedMps:        s.SpeedMps,
		StartTime:       FormatTimestamp(s.StartTime),
		EndTime:         FormatTimestamp(s.EndTime),
		Days:            s.Days,
	}
}

// MarshalJSON writes statistics with ISO-8601 timestamps carrying an
// explicit offset.
func (s Statistics) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.wire())
}

// UnmarshalJSON reads statistics written by MarshalJSON
func (s *Statistics) UnmarshalJSON(data []byte) error {
	var w statisticsJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	window, err := ParseWindow(w.StartTime, w.EndTime)
	if err != nil {
		return err
	}

	*s = Statistics{
		TotalDistanceKm: w.TotalDistanceKm,
		DailyDistanceKm: w.DailyDistanceKm,
		SpeedMps:        w.SpeedMps,
		StartTime:       window.Start,
		EndTime:         window.End,
		Days:            w.Days,
	}
	return nil
}

// Map returns the statistics as a generic map, suitable for structpb
func (s Statistics) Map() map[string]any {
	w := s.wire()
	return map[string]any{
		"total_distance_km": w.TotalDistanceKm,
		"daily_distance_km": w.DailyDistanceKm,
		"speed_mps":         w.SpeedMps,
		"start_time":        w.StartTime,
		"end_time":          w.EndTime,
		"days":              w.Days,
	}
}
