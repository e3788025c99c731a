package route

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrEmptyTrack is returned when an operation needs at least one point
	ErrEmptyTrack = errors.New("track has no points")

	// ErrInvalidTarget is returned for a segment length that is not positive
	ErrInvalidTarget = errors.New("segment length must be greater than zero")

	// ErrStalled is returned when an interpolated cut cannot move past the
	// previous point, which only happens for absurdly small segment lengths
	ErrStalled = errors.New("segment cut made no progress")
)

// NotFoundError reports that no track data was found
type NotFoundError struct {
	Dir     string
	Pattern string
	Files   []string // files that matched but held no LineString points
}

func (e *NotFoundError) Error() string {
	where := e.Pattern
	if e.Dir != "" {
		where = fmt.Sprintf("%s in %s", e.Pattern, e.Dir)
	}
	if len(e.Files) > 0 {
		return fmt.Sprintf("no track points in %d files matching %s", len(e.Files), where)
	}
	return fmt.Sprintf("no track files matching %s", where)
}

// Is makes NotFoundError match fs.ErrNotExist
func (e *NotFoundError) Is(target error) bool {
	return target == fs.ErrNotExist
}

// InvalidWindowError reports a time window value that could not be parsed
type InvalidWindowError struct {
	Field string
	Value string
	Err   error
}

func (e *InvalidWindowError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *InvalidWindowError) Unwrap() error {
	return e.Err
}
