package route

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
	}{
		{"2024-08-10T00:00:00Z", time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)},
		{"2024-08-10T02:00:00+02:00", time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)},
		{"2024-08-09T17:00:00-07:00", time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)},
		{"2024-08-10T00:00:00.250Z", time.Date(2024, 8, 10, 0, 0, 0, 250_000_000, time.UTC)},
		{"2024-08-10 12:30:00Z", time.Date(2024, 8, 10, 12, 30, 0, 0, time.UTC)},
		{"2024-08-10T12:30:00", time.Date(2024, 8, 10, 12, 30, 0, 0, time.UTC)},
		{"2024-08-10T12:30", time.Date(2024, 8, 10, 12, 30, 0, 0, time.UTC)},
		{"2024-08-10", time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)},
		{"  2024-08-10  ", time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			parsed, err := ParseTimestamp(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(parsed), "expected %s, got %s", tt.expected, parsed)
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, input := range []string{"", "tomorrow", "2024-13-01", "08/10/2024", "2024-08-10T25:00:00Z"} {
		_, err := ParseTimestamp(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "2024-08-10T00:00:00+00:00", FormatTimestamp(time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-08-10T00:00:00.250000+00:00", FormatTimestamp(time.Date(2024, 8, 10, 0, 0, 0, 250_000_000, time.UTC)))

	pacific := time.FixedZone("PDT", -7*3600)
	assert.Equal(t, "2024-08-10T09:15:00-07:00", FormatTimestamp(time.Date(2024, 8, 10, 9, 15, 0, 0, pacific)))

	parsed, err := ParseTimestamp("2024-08-10T02:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-08-10T02:00:00+02:00", FormatTimestamp(parsed), "offset is preserved")
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("2024-08-10T00:00:00Z", "2024-08-20T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, w.Days())
	assert.Equal(t, 864000.0, w.Seconds())
	assert.Equal(t, "2024-08-10T00:00:00+00:00/2024-08-20T00:00:00+00:00", w.String())

	_, err = ParseWindow("nope", "2024-08-20T00:00:00Z")
	var invalid *InvalidWindowError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "start_time", invalid.Field)
	assert.Equal(t, "nope", invalid.Value)

	_, err = ParseWindow("2024-08-10", "")
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "end_time", invalid.Field)
}

func TestTimeWindow_Days(t *testing.T) {
	start := time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		end     time.Time
		days    int
		seconds float64
	}{
		{"ten days", start.Add(10 * day), 10, 864000},
		{"partial days truncate", start.Add(36 * time.Hour), 1, 129600},
		{"just under two days", start.Add(2*day - time.Second), 1, 172799},
		{"same instant", start, 1, 1},
		{"reversed", start.Add(-3 * day), 1, 1},
		{"half a second", start.Add(500 * time.Millisecond), 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := TimeWindow{Start: start, End: tt.end}
			assert.Equal(t, tt.days, w.Days())
			assert.Equal(t, tt.seconds, w.Seconds())
		})
	}
}

func TestTimeWindow_Contains(t *testing.T) {
	w := defaultWindow
	assert.True(t, w.Contains(w.Start))
	assert.True(t, w.Contains(w.End))
	assert.True(t, w.Contains(w.Start.Add(time.Hour)))
	assert.False(t, w.Contains(w.Start.Add(-time.Nanosecond)))
	assert.False(t, w.Contains(w.End.Add(time.Nanosecond)))
}
